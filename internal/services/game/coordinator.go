package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jpmelanson/turnbase/internal/broadcast"
	"github.com/jpmelanson/turnbase/internal/dependencies/clock"
	"github.com/jpmelanson/turnbase/internal/dependencies/random"
	"github.com/jpmelanson/turnbase/internal/model"
	"github.com/jpmelanson/turnbase/internal/storage"
)

// TurnPolicy controls what happens to the turn holder after an accepted move
type TurnPolicy string

const (
	// TurnPolicyHold leaves CurrentPlayerID untouched after a move, so the
	// same player may move again. This reproduces the behavior of the
	// system this server replaced; it is almost certainly a bug there,
	// which is why the policy is explicit rather than hardwired.
	TurnPolicyHold TurnPolicy = "hold"

	// TurnPolicyRotate advances the turn to the next player in join order
	TurnPolicyRotate TurnPolicy = "rotate"
)

// Valid reports whether p is a known policy
func (p TurnPolicy) Valid() bool {
	return p == TurnPolicyHold || p == TurnPolicyRotate
}

// Coordinator enforces turn ownership and serializes state transitions
// per game. It is the only component that mutates Game records.
type Coordinator struct {
	storage  storage.Storage
	registry *broadcast.Registry
	policy   TurnPolicy
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger

	// Per-game locks. Moves on one game serialize; distinct games share
	// no lock. Entries are never reclaimed, which is fine at the scale
	// of a lock struct per game ever touched.
	mu    sync.Mutex
	locks map[model.GameID]*sync.Mutex
}

// NewCoordinator creates a new Coordinator
func NewCoordinator(
	storage storage.Storage,
	registry *broadcast.Registry,
	policy TurnPolicy,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Coordinator {
	if !policy.Valid() {
		policy = TurnPolicyRotate
	}
	return &Coordinator{
		storage:  storage,
		registry: registry,
		policy:   policy,
		clock:    clk,
		random:   rnd,
		logger:   logger.With(slog.String("component", "game")),
		locks:    make(map[model.GameID]*sync.Mutex),
	}
}

// CreateGame creates a game with the requester as sole player and turn holder
func (c *Coordinator) CreateGame(ctx context.Context, identity *model.Identity) (*model.Game, error) {
	if identity == nil {
		return nil, model.ErrAuthRequired
	}

	now := c.clock.Now()
	game := &model.Game{
		ID:              model.GameID(c.random.ID("g_")),
		BoardState:      "",
		Players:         []model.UserID{identity.UserID},
		CurrentPlayerID: identity.UserID,
		Status:          model.GameStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("creator", string(identity.UserID)),
	)

	return game, nil
}

// MakeMove applies a move to a game. The move's content is opaque; only
// turn ownership is enforced. On success the updated game is published to
// the broadcast registry exactly once and returned.
func (c *Coordinator) MakeMove(ctx context.Context, gameID model.GameID, identity *model.Identity, newBoardState string) (*model.Game, error) {
	if identity == nil {
		return nil, model.ErrAuthRequired
	}
	if gameID == "" {
		return nil, model.ErrInvalidArgument
	}

	// Read-check-write must be atomic per game: two concurrent moves must
	// not both observe the same turn holder and both succeed.
	lock := c.gameLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if game.CurrentPlayerID != identity.UserID {
		return nil, model.ErrNotYourTurn
	}

	game.BoardState = newBoardState
	game.UpdatedAt = c.clock.Now()
	if c.policy == TurnPolicyRotate {
		game.CurrentPlayerID = game.NextPlayer(identity.UserID)
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save move",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	// Published under the game lock so subscribers see accepted moves in
	// the order they were applied.
	c.registry.Publish(gameID, game)

	c.logger.Info("move accepted",
		slog.String("game_id", string(gameID)),
		slog.String("player", string(identity.UserID)),
		slog.String("next_player", string(game.CurrentPlayerID)),
	)

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Coordinator) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// ListGames retrieves all games
func (c *Coordinator) ListGames(ctx context.Context) ([]*model.Game, error) {
	return c.storage.ListGames(ctx)
}

// gameLock returns the mutex serializing moves for a game
func (c *Coordinator) gameLock(gameID model.GameID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[gameID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[gameID] = lock
	}
	return lock
}
