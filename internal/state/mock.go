package state

import (
	"context"
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// Mock is an in-memory Store for tests.
type Mock struct {
	mu sync.Mutex

	ID      snowflake.ID
	SaveErr error

	LoadCalls int
	SaveCalls []snowflake.ID
}

// NewMock creates a Mock holding id; zero means nothing saved.
func NewMock(id snowflake.ID) *Mock {
	return &Mock{ID: id}
}

func (m *Mock) Load(_ context.Context) (snowflake.ID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	return m.ID, m.ID != 0
}

func (m *Mock) Save(_ context.Context, id snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, id)
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.ID = id
	return nil
}

// Touched reports whether the store was read or written at all.
func (m *Mock) Touched() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LoadCalls > 0 || len(m.SaveCalls) > 0
}
