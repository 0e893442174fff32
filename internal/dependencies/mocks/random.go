package mocks

import (
	"fmt"

	"github.com/jpmelanson/turnbase/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// Queued IDs are returned in order; once exhausted it falls back to
// a deterministic counter so tests never collide on empty IDs.
type MockRandom struct {
	IDResults []string
	idIndex   int
	fallback  int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// ID returns the next queued result, or a deterministic fallback
func (r *MockRandom) ID(prefix string) string {
	if r.idIndex < len(r.IDResults) {
		result := r.IDResults[r.idIndex]
		r.idIndex++
		return result
	}
	r.fallback++
	return fmt.Sprintf("%smock%d", prefix, r.fallback)
}

// QueueID adds values to the ID result queue
func (r *MockRandom) QueueID(values ...string) {
	r.IDResults = append(r.IDResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.IDResults = nil
	r.idIndex = 0
	r.fallback = 0
}
