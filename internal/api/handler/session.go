package handler

import (
	"net/http"

	"github.com/mcoot/mastermind-go/internal/api/request"
	"github.com/mcoot/mastermind-go/internal/api/response"
	"github.com/mcoot/mastermind-go/internal/services/game"
	"github.com/mcoot/mastermind-go/internal/services/settings"
)

// SessionHandler handles endpoints for the round in progress
type SessionHandler struct {
	gameController  *game.Controller
	settingsService *settings.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(gameController *game.Controller, settingsService *settings.Service) *SessionHandler {
	return &SessionHandler{
		gameController:  gameController,
		settingsService: settingsService,
	}
}

// Get handles GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.gameController.Current(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Start handles POST /api/v1/session
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req request.StartSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var allowRepeats bool
	if req.AllowRepeats != nil {
		allowRepeats = *req.AllowRepeats
	} else {
		allowRepeats = h.settingsService.AllowRepeats(r.Context())
	}

	session, err := h.gameController.Start(r.Context(), req.Player, allowRepeats)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(session))
}

// Resume handles POST /api/v1/session/resume
func (h *SessionHandler) Resume(w http.ResponseWriter, r *http.Request) {
	var req request.ResumeSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.gameController.Resume(r.Context(), req.Player)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Guess handles POST /api/v1/session/guess
func (h *SessionHandler) Guess(w http.ResponseWriter, r *http.Request) {
	var req request.GuessRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.gameController.SubmitGuess(r.Context(), req.Guess)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GuessResponseFromModel(result))
}

// Help handles POST /api/v1/session/help
func (h *SessionHandler) Help(w http.ResponseWriter, r *http.Request) {
	var req request.HelpRequest
	if !decodeBody(w, r, &req) {
		return
	}

	help, err := h.gameController.RequestHelp(r.Context(), req.Draft)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HelpResponseFromModel(help))
}

// Restart handles POST /api/v1/session/restart
func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	session, err := h.gameController.Restart(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Abandon handles DELETE /api/v1/session
func (h *SessionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	result, err := h.gameController.Abandon(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoundResultFromModel(result))
}
