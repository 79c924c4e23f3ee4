package factory

import (
	"time"

	"github.com/mcoot/slotmachine-go/internal/dependencies/mocks"
	"github.com/mcoot/slotmachine-go/internal/metrics"
	"github.com/mcoot/slotmachine-go/internal/storage/memory"
	"github.com/mcoot/slotmachine-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDs
}

// NewTestApp creates an App over memory storage with a mocked clock and
// sequential IDs
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDs("id-")

	app := newWithDependencies(store, mockClock, mockIDs, metrics.NewRecorder(), testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
	}
}
