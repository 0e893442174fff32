package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case Game:
		o.printGame(v)
	case []Game:
		for i := range v {
			if i > 0 {
				fmt.Println()
			}
			o.printGame(v[i])
		}
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuthResult is the credential returned by register/login
type AuthResult struct {
	Token string `json:"token"`
}

// Game response type
type Game struct {
	ID              string `json:"id"`
	BoardState      string `json:"board_state"`
	Players         []User `json:"players"`
	CurrentPlayerID string `json:"current_player_id"`
	Status          string `json:"status"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("ID:       %s\n", u.ID)
	fmt.Printf("Username: %s\n", u.Username)
	fmt.Printf("Role:     %s\n", u.Role)
}

func (o *Output) printAuthResult(a AuthResult) {
	fmt.Printf("Token: %s\n", a.Token)
}

func (o *Output) printGame(g Game) {
	names := make([]string, 0, len(g.Players))
	for _, p := range g.Players {
		names = append(names, p.Username)
	}
	fmt.Printf("Game:    %s (%s)\n", g.ID, g.Status)
	fmt.Printf("Players: %s\n", strings.Join(names, ", "))
	fmt.Printf("Turn:    %s\n", g.CurrentPlayerID)
	if g.BoardState != "" {
		fmt.Printf("Board:   %s\n", g.BoardState)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
