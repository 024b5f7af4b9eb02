package recap

import (
	"context"
	"sync"
)

// Mock is a mock implementation of RecapClient for testing.
type Mock struct {
	mu sync.Mutex

	GenerateFunc  func(ctx context.Context, summary MatchSummary) (string, error)
	GenerateCalls []MatchSummary
}

var _ RecapClient = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Generate(ctx context.Context, summary MatchSummary) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateCalls = append(m.GenerateCalls, summary)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, summary)
	}
	return "What a match.", nil
}
