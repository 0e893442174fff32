package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameStatus represents the lifecycle phase of a game
type GameStatus string

const (
	GameStatusPending  GameStatus = "pending"  // Created, waiting for opponents
	GameStatusActive   GameStatus = "active"   // Moves being played
	GameStatusFinished GameStatus = "finished" // No further moves accepted
)

// Game represents a single game session
type Game struct {
	ID GameID

	// BoardState is an opaque blob owned by the clients. The server never
	// interprets it; it only enforces who may replace it.
	BoardState string

	// Players in join order. Turn rotation follows this order.
	Players []UserID

	// CurrentPlayerID names the only player whose next move is accepted.
	// Always a member of Players.
	CurrentPlayerID UserID

	Status    GameStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPlayer reports whether id is one of the game's players
func (g *Game) HasPlayer(id UserID) bool {
	for _, p := range g.Players {
		if p == id {
			return true
		}
	}
	return false
}

// NextPlayer returns the player after current in join order, wrapping around.
// With a single player it returns that player.
func (g *Game) NextPlayer(current UserID) UserID {
	if len(g.Players) == 0 {
		return ""
	}
	for i, p := range g.Players {
		if p == current {
			return g.Players[(i+1)%len(g.Players)]
		}
	}
	return g.Players[0]
}
