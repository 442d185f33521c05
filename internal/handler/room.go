package handler

import (
	"net/http"

	"github.com/wattwise/wattwise/internal/auth"
	"github.com/wattwise/wattwise/internal/service"
)

// RoomHandler exposes room management.
type RoomHandler struct {
	rooms *service.RoomService
}

func NewRoomHandler(rooms *service.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

type createRoomRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Floor int    `json:"floor"`
}

// HandleList returns the calling user's rooms.
//
// HTTP: GET /api/rooms
func (h *RoomHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	rooms, err := h.rooms.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rooms)
}

// HandleCreate adds a room.
//
// HTTP: POST /api/rooms
// REQUEST BODY: {"name": "Living Room", "type": "living", "floor": 1}
func (h *RoomHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createRoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	room, err := h.rooms.Create(r.Context(), userID, req.Name, req.Type, req.Floor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, room)
}
