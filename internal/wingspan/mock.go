package wingspan

import "sync"

// MockClient is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	GetMatchFunc   func(matchID string) (Match, error)
	GetMatchesFunc func() ([]Match, error)

	GetMatchCalls   []string
	GetMatchesCalls int
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) GetMatch(matchID string) (Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetMatchCalls = append(m.GetMatchCalls, matchID)
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return Match{MatchID: matchID}, nil
}

func (m *MockClient) GetMatches() ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetMatchesCalls++
	if m.GetMatchesFunc != nil {
		return m.GetMatchesFunc()
	}
	return nil, nil
}
