package handler

import (
	"net/http"

	"github.com/wattwise/wattwise/internal/auth"
	"github.com/wattwise/wattwise/internal/model"
	"github.com/wattwise/wattwise/internal/service"
)

// PointsHandler exposes the energy-points ledger over HTTP.
type PointsHandler struct {
	points *service.PointsService
}

func NewPointsHandler(points *service.PointsService) *PointsHandler {
	return &PointsHandler{points: points}
}

type addPointsRequest struct {
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

// addPointsResponse pairs the ledger entry with the user as the award
// left them, so the frontend can update the header (points, level)
// without a second request.
type addPointsResponse struct {
	History *model.PointHistory `json:"history"`
	User    *model.User         `json:"user"`
}

// HandleAdd credits or deducts energy points for the calling user.
//
// HTTP: POST /api/points/add
// REQUEST BODY: {"points": 150, "reason": "turned off unused lights"}
//
// Negative points are allowed; they record penalties and corrections.
func (h *PointsHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req addPointsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, user, err := h.points.Award(r.Context(), userID, req.Points, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, addPointsResponse{History: entry, User: user})
}

// HandleHistory returns the calling user's ledger, newest first.
//
// HTTP: GET /api/points/history
func (h *PointsHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	history, err := h.points.History(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, history)
}
