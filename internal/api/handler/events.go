package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jpmelanson/turnbase/internal/api/apierr"
	"github.com/jpmelanson/turnbase/internal/api/middleware"
	"github.com/jpmelanson/turnbase/internal/api/response"
	"github.com/jpmelanson/turnbase/internal/broadcast"
	"github.com/jpmelanson/turnbase/internal/model"
)

// Time between keepalive pings
const pingPeriod = 30 * time.Second

// EventsHandler streams game updates to subscribers over SSE
type EventsHandler struct {
	registry *broadcast.Registry
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(registry *broadcast.Registry) *EventsHandler {
	return &EventsHandler{
		registry: registry,
	}
}

// Stream handles GET /api/v1/games/{id}/events.
// The subscription lives exactly as long as the connection: the deferred
// unsubscribe runs on clean close, abrupt disconnect and write error alike.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Subscribers are identified for logging only; auth is not required
	// to watch a game.
	subscriberID := r.RemoteAddr
	if identity := middleware.GetIdentity(r.Context()); identity != nil {
		subscriberID = string(identity.UserID)
	}

	sub, err := h.registry.Subscribe(gameID, subscriberID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	defer h.registry.Unsubscribe(sub)

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	// Send initial connection event
	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case game, ok := <-sub.C():
			if !ok {
				// Registry closed the subscription
				return
			}
			msg, err := formatGameEvent(game)
			if err != nil {
				continue
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			// Send keepalive comment
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			// Client disconnected
			return
		}
	}
}

// formatGameEvent renders a game update as an SSE message
func formatGameEvent(game *model.Game) ([]byte, error) {
	// Subscribers get the raw game record; player records are not
	// resolved on the hot broadcast path.
	data, err := json.Marshal(response.Game{
		ID:              string(game.ID),
		BoardState:      game.BoardState,
		Players:         nil,
		CurrentPlayerID: string(game.CurrentPlayerID),
		Status:          string(game.Status),
		CreatedAt:       game.CreatedAt,
		UpdatedAt:       game.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: game-updated\ndata: %s\n\n", data)), nil
}
