package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"habitlog-service/internal/domain/apperr"
	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/service"
	"habitlog-service/internal/transport/http/middleware"

	"github.com/google/uuid"
)

// HabitHandler handles catalog, subscription and logging HTTP requests
type HabitHandler struct {
	habits         service.HabitService
	verification   service.VerificationService
	clock          Clock
	maxUploadBytes int64
}

// NewHabitHandler creates a new habit handler
func NewHabitHandler(habits service.HabitService, verification service.VerificationService, clock Clock, maxUploadBytes int64) *HabitHandler {
	return &HabitHandler{
		habits:         habits,
		verification:   verification,
		clock:          clock,
		maxUploadBytes: maxUploadBytes,
	}
}

type subscribeRequest struct {
	HabitID string `json:"habit_id"`
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type logResponse struct {
	Detail         string            `json:"detail"`
	UserHabitID    uuid.UUID         `json:"user_habit_id"`
	PreviousStreak int               `json:"previous_streak"`
	CurrentStreak  int               `json:"current_streak"`
	Transition     entity.Transition `json:"transition"`
}

// ListHabits lists the habit catalog
// @Summary List habits
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Success 200 {array} entity.Habit
// @Failure 401 {object} middleware.ErrorBody
// @Router /habits [get]
func (h *HabitHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := h.habits.ListHabits(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, habits)
}

// Subscribe adds a habit to the caller's list
// @Summary Add habit
// @Tags habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body subscribeRequest true "Habit to add"
// @Success 200 {object} detailResponse
// @Failure 404 {object} middleware.ErrorBody
// @Failure 409 {object} middleware.ErrorBody
// @Router /user/habit [post]
func (h *HabitHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r)

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	habitID, err := uuid.Parse(req.HabitID)
	if err != nil {
		badRequest(w, "habit_id must be a UUID")
		return
	}

	if _, err := h.habits.Subscribe(r.Context(), principal.SubjectID, habitID, h.clock.Today()); err != nil {
		handleError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, detailResponse{Detail: "Habit added successfully"})
}

// ListSubscriptions lists the caller's habits
// @Summary List user habits
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Success 200 {array} entity.UserHabitDetail
// @Router /user/habits [get]
func (h *HabitHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r)

	subs, err := h.habits.ListSubscriptions(r.Context(), principal.SubjectID)
	if err != nil {
		handleError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, subs)
}

// LogHabit verifies an evidence photo and logs today's completion
// @Summary Log habit
// @Tags habits
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param user_habit_id formData string true "Subscription ID"
// @Param image_file formData file true "Evidence photo"
// @Success 200 {object} logResponse
// @Failure 400 {object} middleware.ErrorBody
// @Failure 401 {object} middleware.ErrorBody
// @Failure 404 {object} middleware.ErrorBody
// @Failure 409 {object} middleware.ErrorBody
// @Failure 500 {object} middleware.ErrorBody
// @Router /user/habit/log [post]
func (h *HabitHandler) LogHabit(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.WriteError(w, http.StatusRequestEntityTooLarge, apperr.KindInvalidArgument.Code(), "image_file is too large")
			return
		}
		badRequest(w, "Invalid multipart body")
		return
	}

	userHabitID, err := uuid.Parse(r.FormValue("user_habit_id"))
	if err != nil {
		handleError(w, apperr.ErrSubscriptionNotFound)
		return
	}

	file, _, err := r.FormFile("image_file")
	if err != nil {
		badRequest(w, "image_file is required")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		badRequest(w, "Failed to read image_file")
		return
	}

	update, err := h.verification.VerifyAndLog(r.Context(), principal, userHabitID, image, h.clock.Today())
	if err != nil {
		handleError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, logResponse{
		Detail:         "Habit streak updated successfully",
		UserHabitID:    update.UserHabitID,
		PreviousStreak: update.PreviousStreak,
		CurrentStreak:  update.CurrentStreak,
		Transition:     update.Transition,
	})
}

// Streaks reports this week's logs per subscription
// @Summary Weekly streaks
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Success 200 {array} entity.WeeklyBreakdown
// @Router /user/streaks [get]
func (h *HabitHandler) Streaks(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r)

	breakdown, err := h.habits.WeeklyBreakdown(r.Context(), principal.SubjectID, h.clock.Today())
	if err != nil {
		handleError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, breakdown)
}

// UpdateLocation sets the caller's location
// @Summary Update location
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body locationRequest true "Coordinates"
// @Success 200 {object} detailResponse
// @Failure 400 {object} middleware.ErrorBody
// @Router /user/location [put]
func (h *HabitHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r)

	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Latitude == nil || req.Longitude == nil {
		badRequest(w, "latitude and longitude are required")
		return
	}

	point := entity.GeoPoint{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if err := h.habits.UpdateLocation(r.Context(), principal.SubjectID, point); err != nil {
		handleError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, detailResponse{Detail: "User location updated"})
}
