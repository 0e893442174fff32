// Package broadcast implements per-game fan-out of game updates to live
// subscribers. Each game gets its own hub; a subscriber to one game never
// observes publishes for another. Nothing is queued for absent subscribers
// and nothing is replayed on reconnect.
package broadcast

import (
	"log/slog"
	"sync"

	"github.com/jpmelanson/turnbase/internal/model"
)

// Buffer size for each subscriber's receive channel
const subscriberBufferSize = 64

// Subscription is a live handle to one subscriber's stream of updates for
// a single game. It is valid until Unsubscribe or Registry Close.
type Subscription struct {
	gameID       model.GameID
	subscriberID string
	ch           chan *model.Game
}

// C returns the channel on which the subscriber receives game updates.
// The channel is closed exactly once, when the subscription ends.
func (s *Subscription) C() <-chan *model.Game {
	return s.ch
}

// GameID returns the game this subscription is attached to
func (s *Subscription) GameID() model.GameID {
	return s.gameID
}

// hub holds the live subscriptions for a single game
type hub struct {
	subs map[*Subscription]bool
}

// Registry maps games to their live subscriber sinks. It is constructed
// explicitly and injected; tests instantiate isolated registries.
type Registry struct {
	mu     sync.RWMutex
	hubs   map[model.GameID]*hub
	logger *slog.Logger
	closed bool
}

// NewRegistry creates a new Registry
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		hubs:   make(map[model.GameID]*hub),
		logger: logger.With(slog.String("component", "broadcast")),
	}
}

// Subscribe registers a sink for every subsequent publish on gameID.
// The subscriberID is only used for logging.
func (r *Registry) Subscribe(gameID model.GameID, subscriberID string) (*Subscription, error) {
	if gameID == "" {
		return nil, model.ErrInvalidArgument
	}

	sub := &Subscription{
		gameID:       gameID,
		subscriberID: subscriberID,
		ch:           make(chan *model.Game, subscriberBufferSize),
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		close(sub.ch)
		return sub, nil
	}
	h, ok := r.hubs[gameID]
	if !ok {
		h = &hub{subs: make(map[*Subscription]bool)}
		r.hubs[gameID] = h
	}
	h.subs[sub] = true
	count := len(h.subs)
	r.mu.Unlock()

	r.logger.Info("subscriber registered",
		slog.String("game_id", string(gameID)),
		slog.String("subscriber", subscriberID),
		slog.Int("total_subscribers", count))

	return sub, nil
}

// Unsubscribe removes a subscription and closes its channel. It is
// idempotent: removing an already-removed handle is not an error.
func (r *Registry) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	r.mu.Lock()
	h, ok := r.hubs[sub.gameID]
	if !ok || !h.subs[sub] {
		r.mu.Unlock()
		return
	}
	delete(h.subs, sub)
	if len(h.subs) == 0 {
		delete(r.hubs, sub.gameID)
	}
	r.mu.Unlock()

	close(sub.ch)

	r.logger.Info("subscriber unregistered",
		slog.String("game_id", string(sub.gameID)),
		slog.String("subscriber", sub.subscriberID))
}

// Publish delivers game to every current subscriber of gameID. With zero
// subscribers the update is dropped. A subscriber whose buffer is full is
// skipped rather than blocking the publisher.
func (r *Registry) Publish(gameID model.GameID, game *model.Game) {
	r.mu.RLock()
	h, ok := r.hubs[gameID]
	if !ok {
		r.mu.RUnlock()
		return
	}

	sent := 0
	dropped := 0
	for sub := range h.subs {
		select {
		case sub.ch <- game:
			sent++
		default:
			dropped++
			r.logger.Warn("update dropped - subscriber buffer full",
				slog.String("game_id", string(gameID)),
				slog.String("subscriber", sub.subscriberID))
		}
	}
	r.mu.RUnlock()

	if dropped > 0 {
		r.logger.Warn("broadcast partial failure",
			slog.String("game_id", string(gameID)),
			slog.Int("sent", sent),
			slog.Int("dropped", dropped))
	}
}

// SubscriberCount returns the number of live subscriptions for a game
func (r *Registry) SubscriberCount(gameID model.GameID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.hubs[gameID]
	if !ok {
		return 0
	}
	return len(h.subs)
}

// Close ends every subscription. Further subscribes receive an
// already-closed channel.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true

	count := 0
	for gameID, h := range r.hubs {
		for sub := range h.subs {
			close(sub.ch)
			count++
		}
		delete(r.hubs, gameID)
	}

	r.logger.Info("registry closed", slog.Int("disconnected_subscribers", count))
}
