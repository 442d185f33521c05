package handler

import (
	"net/http"
	"strconv"

	"github.com/wattwise/wattwise/internal/service"
)

// LeaderboardHandler serves the community ranking.
type LeaderboardHandler struct {
	board *service.LeaderboardService
}

func NewLeaderboardHandler(board *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{board: board}
}

// HandleTop returns the highest-scoring users.
//
// HTTP: GET /api/leaderboard?limit=10
//
// The limit is optional and clamped server-side; a bad value falls back
// to the maximum rather than erroring, since the leaderboard is a
// read-only page.
func (h *LeaderboardHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	limit := service.MaxLeaderboardSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	top, err := h.board.Top(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, top)
}
