package factory

import (
	"time"

	"github.com/mcoot/mastermind-go/internal/dependencies/mocks"
	"github.com/mcoot/mastermind-go/internal/storage"
	"github.com/mcoot/mastermind-go/internal/storage/memory"
	"github.com/mcoot/mastermind-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithStorage(memory.New())
}

// NewTestAppWithStorage is NewTestApp over a caller-supplied store
func NewTestAppWithStorage(store storage.Storage) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// QueueSecret makes the next generated secret equal code
func (t *TestApp) QueueSecret(code string) {
	t.MockRandom.QueueDigits(code)
}
