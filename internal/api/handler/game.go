package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jpmelanson/turnbase/internal/api/apierr"
	"github.com/jpmelanson/turnbase/internal/api/middleware"
	"github.com/jpmelanson/turnbase/internal/api/request"
	"github.com/jpmelanson/turnbase/internal/api/response"
	"github.com/jpmelanson/turnbase/internal/model"
	"github.com/jpmelanson/turnbase/internal/services/auth"
	"github.com/jpmelanson/turnbase/internal/services/game"
)

// GameHandler handles game creation, listing and moves
type GameHandler struct {
	coordinator *game.Coordinator
	authService *auth.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(coordinator *game.Coordinator, authService *auth.Service) *GameHandler {
	return &GameHandler{
		coordinator: coordinator,
		authService: authService,
	}
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.coordinator.ListGames(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	resp := make([]response.Game, 0, len(games))
	for _, g := range games {
		resp = append(resp, response.GameFromModel(g, h.resolvePlayers(r.Context(), g)))
	}

	response.JSON(w, http.StatusOK, resp)
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	g, err := h.coordinator.CreateGame(r.Context(), identity)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g, h.resolvePlayers(r.Context(), g)))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	g, err := h.coordinator.GetGame(r.Context(), gameID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g, h.resolvePlayers(r.Context(), g)))
}

// Move handles POST /api/v1/games/{id}/move
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	g, err := h.coordinator.MakeMove(r.Context(), gameID, identity, req.BoardState)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g, h.resolvePlayers(r.Context(), g)))
}

// resolvePlayers looks up the full User records for a game's players.
// Players whose accounts have vanished are skipped rather than failing
// the whole response.
func (h *GameHandler) resolvePlayers(ctx context.Context, g *model.Game) []*model.User {
	users := make([]*model.User, 0, len(g.Players))
	for _, id := range g.Players {
		user, err := h.authService.GetUser(ctx, id)
		if err != nil {
			continue
		}
		users = append(users, user)
	}
	return users
}
