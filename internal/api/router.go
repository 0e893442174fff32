package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jpmelanson/turnbase/internal/api/handler"
	"github.com/jpmelanson/turnbase/internal/api/middleware"
	"github.com/jpmelanson/turnbase/internal/broadcast"
	"github.com/jpmelanson/turnbase/internal/services/auth"
	"github.com/jpmelanson/turnbase/internal/services/game"
	"github.com/jpmelanson/turnbase/internal/token"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Verifier    *token.Verifier
	AuthService *auth.Service
	Coordinator *game.Coordinator
	Registry    *broadcast.Registry
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.Coordinator, cfg.AuthService)
	eventsHandler := handler.NewEventsHandler(cfg.Registry)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.Verifier)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.Verifier)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Auth routes (no credential required)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	// Identity lookup: optional auth, anonymous callers get a null body
	me := api.PathPrefix("/auth/me").Subrouter()
	me.Use(optionalAuthMiddleware)
	me.HandleFunc("", authHandler.Me).Methods(http.MethodGet)

	// Game read paths and the update stream require no credential
	api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)

	events := api.PathPrefix("/games/{id}/events").Subrouter()
	events.Use(optionalAuthMiddleware)
	events.HandleFunc("", eventsHandler.Stream).Methods(http.MethodGet)

	// State-mutating game routes require a credential
	protected := api.PathPrefix("/games").Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/{id}/move", gameHandler.Move).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
