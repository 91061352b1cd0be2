package leaderboard

import (
	"context"
	"sync"
)

// Mock is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	FetchTopFunc func(ctx context.Context, n int) ([]Entry, error)
	FetchOneFunc func(ctx context.Context, identifier string) (*Entry, error)

	// Call records
	FetchTopCalls []int
	FetchOneCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) FetchTop(ctx context.Context, n int) ([]Entry, error) {
	m.mu.Lock()
	m.FetchTopCalls = append(m.FetchTopCalls, n)
	fn := m.FetchTopFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, n)
	}
	return nil, nil
}

func (m *Mock) FetchOne(ctx context.Context, identifier string) (*Entry, error) {
	m.mu.Lock()
	m.FetchOneCalls = append(m.FetchOneCalls, identifier)
	fn := m.FetchOneFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, identifier)
	}
	return nil, nil
}

// Calls returns the total number of queries issued against the mock.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.FetchTopCalls) + len(m.FetchOneCalls)
}
