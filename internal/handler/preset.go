package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wattwise/wattwise/internal/auth"
	"github.com/wattwise/wattwise/internal/model"
	"github.com/wattwise/wattwise/internal/service"
)

// PresetHandler exposes energy presets (scenes): named bundles of
// device settings applied in one request.
type PresetHandler struct {
	presets *service.PresetService
}

func NewPresetHandler(presets *service.PresetService) *PresetHandler {
	return &PresetHandler{presets: presets}
}

type createPresetRequest struct {
	Name        string                         `json:"name"`
	Description string                         `json:"description"`
	Settings    map[string]model.PresetSetting `json:"settings"`
	IsDefault   bool                           `json:"isDefault"`
}

// HandleList returns the calling user's presets, defaults first.
//
// HTTP: GET /api/presets
func (h *PresetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	presets, err := h.presets.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, presets)
}

// HandleCreate saves a preset.
//
// HTTP: POST /api/presets
// REQUEST BODY: {"name": "Movie Night", "settings": {"<deviceID>": {"status": true, "targetUsage": 40}}}
func (h *PresetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createPresetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	preset, err := h.presets.Create(r.Context(), userID, req.Name, req.Description, req.Settings, req.IsDefault)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, preset)
}

// HandleApply pushes a preset's settings onto the user's devices and
// returns the devices that changed.
//
// HTTP: POST /api/presets/{id}/apply
func (h *PresetHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	updated, err := h.presets.Apply(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
