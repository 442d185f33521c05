package handler

import (
	"net/http"

	"github.com/wattwise/wattwise/internal/auth"
	"github.com/wattwise/wattwise/internal/service"
)

// RecommendationHandler serves AI-generated energy-saving tips.
type RecommendationHandler struct {
	recommendations *service.RecommendationService
}

func NewRecommendationHandler(recommendations *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

// HandleGet refreshes and returns recommendations for the calling user.
//
// HTTP: GET /api/recommendations
//
// Each call generates a fresh batch from the current device inventory
// and returns the stored history, newest first. When the AI backend is
// unavailable the canned fallback tips are used, so this endpoint never
// fails just because the advisor is down.
func (h *RecommendationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	recs, err := h.recommendations.Refresh(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recs)
}
