package handler

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/mcoot/mastermind-go/internal/api/request"
	"github.com/mcoot/mastermind-go/internal/api/response"
	"github.com/mcoot/mastermind-go/internal/services/roster"
)

// PlayerHandler handles roster endpoints
type PlayerHandler struct {
	rosterService *roster.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(rosterService *roster.Service) *PlayerHandler {
	return &PlayerHandler{
		rosterService: rosterService,
	}
}

// List handles GET /api/v1/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players := h.rosterService.List(r.Context())
	response.JSON(w, http.StatusOK, response.PlayerListFromModel(players))
}

// Add handles POST /api/v1/players
func (h *PlayerHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req request.AddPlayerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	player, err := h.rosterService.Add(r.Context(), req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PlayerFromModel(player))
}

// Remove handles DELETE /api/v1/players/{name}
func (h *PlayerHandler) Remove(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(mux.Vars(r)["name"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("invalid player name in path"))
		return
	}

	if err := h.rosterService.Remove(r.Context(), name); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
