package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wattwise/wattwise/internal/auth"
	"github.com/wattwise/wattwise/internal/service"
)

// DeviceHandler exposes device management and the power toggle.
type DeviceHandler struct {
	devices *service.DeviceService
}

func NewDeviceHandler(devices *service.DeviceService) *DeviceHandler {
	return &DeviceHandler{devices: devices}
}

type createDeviceRequest struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

type toggleDeviceRequest struct {
	Status bool `json:"status"`
}

// HandleList returns the calling user's devices.
//
// HTTP: GET /api/devices
func (h *DeviceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	devices, err := h.devices.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, devices)
}

// HandleCreate registers a device.
//
// HTTP: POST /api/devices
// REQUEST BODY: {"name": "Floor Lamp", "type": "light", "roomId": "..."}
//
// roomId is optional; an empty value leaves the device unassigned.
func (h *DeviceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createDeviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	device, err := h.devices.Create(r.Context(), userID, req.Name, req.Type, req.RoomID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, device)
}

// HandleToggle switches a device on or off.
//
// HTTP: POST /api/devices/{id}/toggle
// REQUEST BODY: {"status": true}
func (h *DeviceHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req toggleDeviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	device, err := h.devices.Toggle(r.Context(), userID, id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, device)
}
