package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/mastermind-go/internal/api/handler"
	"github.com/mcoot/mastermind-go/internal/api/middleware"
	"github.com/mcoot/mastermind-go/internal/api/response"
	"github.com/mcoot/mastermind-go/internal/services/game"
	"github.com/mcoot/mastermind-go/internal/services/roster"
	"github.com/mcoot/mastermind-go/internal/services/settings"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	RosterService   *roster.Service
	SettingsService *settings.Service
	GameController  *game.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	// Match on the escaped path so player names may contain "/"
	r := mux.NewRouter().UseEncodedPath()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.RosterService)
	settingsHandler := handler.NewSettingsHandler(cfg.SettingsService)
	sessionHandler := handler.NewSessionHandler(cfg.GameController, cfg.SettingsService)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Roster routes
	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players", playerHandler.Add).Methods(http.MethodPost)
	api.HandleFunc("/players/{name}", playerHandler.Remove).Methods(http.MethodDelete)

	// Settings routes
	api.HandleFunc("/settings", settingsHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/settings", settingsHandler.Update).Methods(http.MethodPatch)

	// Session routes
	api.HandleFunc("/session", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/session", sessionHandler.Start).Methods(http.MethodPost)
	api.HandleFunc("/session", sessionHandler.Abandon).Methods(http.MethodDelete)
	api.HandleFunc("/session/resume", sessionHandler.Resume).Methods(http.MethodPost)
	api.HandleFunc("/session/guess", sessionHandler.Guess).Methods(http.MethodPost)
	api.HandleFunc("/session/help", sessionHandler.Help).Methods(http.MethodPost)
	api.HandleFunc("/session/restart", sessionHandler.Restart).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
