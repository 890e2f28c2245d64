package handler

import (
	"net/http"

	"habitlog-service/internal/domain/service"
	"habitlog-service/internal/transport/http/middleware"

	"github.com/google/uuid"
)

// LeaderboardHandler handles leaderboard HTTP requests
type LeaderboardHandler struct {
	leaderboards service.LeaderboardService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboards service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboards: leaderboards,
	}
}

// Top returns the streak leaderboard of a habit
// @Summary Habit leaderboard
// @Tags leaderboard
// @Produce json
// @Security BearerAuth
// @Param habit_id query string true "Habit ID"
// @Success 200 {array} entity.LeaderboardEntry
// @Failure 404 {object} middleware.ErrorBody
// @Router /leaderboard [get]
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	habitID, err := uuid.Parse(r.URL.Query().Get("habit_id"))
	if err != nil {
		badRequest(w, "habit_id must be a UUID")
		return
	}

	entries, err := h.leaderboards.Top(r.Context(), habitID)
	if err != nil {
		handleError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, entries)
}

// Nearby returns the closest subscribers of a habit
// @Summary Nearby leaderboard
// @Tags leaderboard
// @Produce json
// @Security BearerAuth
// @Param habit_id query string true "Habit ID"
// @Success 200 {array} entity.NearbyEntry
// @Failure 400 {object} middleware.ErrorBody
// @Router /leaderboard/nearby [get]
func (h *LeaderboardHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r)

	habitID, err := uuid.Parse(r.URL.Query().Get("habit_id"))
	if err != nil {
		badRequest(w, "habit_id must be a UUID")
		return
	}

	entries, err := h.leaderboards.Nearby(r.Context(), principal.SubjectID, habitID)
	if err != nil {
		handleError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, entries)
}
