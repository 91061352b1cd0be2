package pinboard

import (
	"context"
	"sync"
)

// MockSyncer is a mock implementation of Syncer for testing.
// It is safe for concurrent use.
type MockSyncer struct {
	mu sync.Mutex

	// Spies for method calls
	UpdatePinnedFunc func(ctx context.Context, dryRun bool) Result

	// Call records, one dry-run flag per call
	UpdatePinnedCalls []bool
}

// NewMockSyncer creates a new mock instance.
func NewMockSyncer() *MockSyncer {
	return &MockSyncer{}
}

func (m *MockSyncer) UpdatePinned(ctx context.Context, dryRun bool) Result {
	m.mu.Lock()
	m.UpdatePinnedCalls = append(m.UpdatePinnedCalls, dryRun)
	fn := m.UpdatePinnedFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, dryRun)
	}
	return Result{Outcome: Updated, DryRun: dryRun}
}

// Calls returns the number of UpdatePinned calls so far.
func (m *MockSyncer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.UpdatePinnedCalls)
}
