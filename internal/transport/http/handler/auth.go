package handler

import (
	"encoding/json"
	"net/http"

	"habitlog-service/internal/domain/apperr"
	"habitlog-service/internal/domain/service"
	"habitlog-service/internal/transport/http/middleware"
)

// AuthHandler handles account HTTP requests
type AuthHandler struct {
	auth service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{
		auth: auth,
	}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

// Token handles the OAuth2 password form login
// @Summary Issue access token
// @Description OAuth2 password flow; username carries the email
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} loginResponse
// @Failure 401 {object} middleware.ErrorBody
// @Router /token [post]
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		badRequest(w, "Invalid form body")
		return
	}

	h.login(w, r, r.PostForm.Get("username"), r.PostForm.Get("password"))
}

// Signup handles user registration
// @Summary Register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body signupRequest true "Signup request"
// @Success 200 {object} detailResponse
// @Failure 400 {object} middleware.ErrorBody
// @Failure 500 {object} middleware.ErrorBody
// @Router /user/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	if _, err := h.auth.Signup(r.Context(), req.Username, req.Email, req.Password); err != nil {
		// Duplicate accounts are a plain bad request here
		if apperr.KindOf(err) == apperr.KindConflict {
			handleErrorStatus(w, err, http.StatusBadRequest)
			return
		}
		handleError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, detailResponse{Detail: "User signup successful"})
}

// Login handles JSON login
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Login request"
// @Success 200 {object} loginResponse
// @Failure 401 {object} middleware.ErrorBody
// @Router /user/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	h.login(w, r, req.Email, req.Password)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, email, password string) {
	result, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		handleError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		Username:    result.Username,
	})
}
