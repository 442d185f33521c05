package handler

import (
	"net/http"

	"github.com/wattwise/wattwise/internal/auth"
	"github.com/wattwise/wattwise/internal/service"
)

// AchievementHandler exposes unlocked achievements.
type AchievementHandler struct {
	achievements *service.AchievementService
}

func NewAchievementHandler(achievements *service.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievements: achievements}
}

type unlockAchievementRequest struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// HandleList returns the calling user's achievements, newest first.
//
// HTTP: GET /api/achievements
func (h *AchievementHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	list, err := h.achievements.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// HandleUnlock records a new achievement for the calling user.
//
// HTTP: POST /api/achievements
// REQUEST BODY: {"type": "energy_saver", "name": "Energy Saver",
//                "description": "Saved 100 kWh", "points": 250}
//
// The point value is descriptive; crediting the points is a separate
// POST /api/points/add, so the frontend decides whether an unlock pays
// out and records the reason in the ledger.
func (h *AchievementHandler) HandleUnlock(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req unlockAchievementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	unlocked, err := h.achievements.Unlock(r.Context(), userID, req.Type, req.Name, req.Description, req.Points)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, unlocked)
}
