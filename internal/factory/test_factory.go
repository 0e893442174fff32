package factory

import (
	"time"

	"github.com/jpmelanson/turnbase/internal/dependencies/mocks"
	"github.com/jpmelanson/turnbase/internal/services/game"
	"github.com/jpmelanson/turnbase/internal/storage/memory"
	"github.com/jpmelanson/turnbase/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp(policy game.TurnPolicy) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	cfg := Config{
		TokenSecret: "test-secret",
		TurnPolicy:  policy,
	}

	app := newWithDependencies(store, mockClock, mockRandom, cfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
