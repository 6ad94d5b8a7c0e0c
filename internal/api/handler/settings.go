package handler

import (
	"net/http"

	"github.com/mcoot/mastermind-go/internal/api/request"
	"github.com/mcoot/mastermind-go/internal/api/response"
	"github.com/mcoot/mastermind-go/internal/services/settings"
)

// SettingsHandler handles settings endpoints
type SettingsHandler struct {
	settingsService *settings.Service
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *settings.Service) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// Get handles GET /api/v1/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.SettingsFromModel(h.settingsService.Get(r.Context())))
}

// Update handles PATCH /api/v1/settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateSettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.AllowRepeats == nil {
		WriteError(w, NewInvalidRequestError("allow_repeats is required"))
		return
	}

	updated, err := h.settingsService.SetAllowRepeats(r.Context(), *req.AllowRepeats)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SettingsFromModel(updated))
}
