package response

import (
	"time"

	"github.com/jpmelanson/turnbase/internal/model"
)

// User represents a user in API responses. The password hash never
// leaves the server.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:       string(u.ID),
		Username: u.Username,
		Role:     string(u.Role),
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Token string `json:"token"`
}

// Game represents a game in API responses
type Game struct {
	ID              string    `json:"id"`
	BoardState      string    `json:"board_state"`
	Players         []User    `json:"players"`
	CurrentPlayerID string    `json:"current_player_id"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// GameFromModel converts a model.Game plus its resolved players
func GameFromModel(g *model.Game, players []*model.User) Game {
	resolved := make([]User, 0, len(players))
	for _, p := range players {
		resolved = append(resolved, UserFromModel(p))
	}
	return Game{
		ID:              string(g.ID),
		BoardState:      g.BoardState,
		Players:         resolved,
		CurrentPlayerID: string(g.CurrentPlayerID),
		Status:          string(g.Status),
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
}
