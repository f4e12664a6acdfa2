package tracker

import (
	"sync"
	"time"

	"github.com/stcase/Wingspan/internal/wingspan"
)

// MockStore is a mock implementation of the Store interface for testing.
type MockStore struct {
	mu sync.Mutex

	RegisterChannelFunc  func(slackID string) (int64, error)
	ChannelSlackIDFunc   func(channel int64) (string, error)
	AddMonitorFunc       func(channel int64, matchID string) (bool, error)
	RemoveMonitorFunc    func(channel int64, matchID string) (bool, error)
	MonitoredMatchesFunc func(channel int64, currentlyMonitored bool) ([]string, error)
	AllMonitoredFunc     func() (map[int64][]string, error)
	DataStartFunc        func(channel int64, matchID string) (*time.Time, error)
	AddMessageFunc       func(channel int64, matchID string, playerTurn *string, kind MessageKind) error
	LatestMessageFunc    func(channel int64, matchID string) (*StatusMessage, error)
	MessagesFunc         func(channel int64, matchID string) ([]StatusMessage, error)
	SubscribeFunc        func(channel int64, subscriberID, wingspanName string) (bool, error)
	UnsubscribeFunc      func(channel int64, subscriberID, wingspanName string) (bool, error)
	SubscriptionsFunc    func(channel int64) (map[string][]string, error)
	UpsertScoresFunc     func(match *wingspan.Match) error
	HighestScoresFunc    func(channel int64, matchID string, component ScoreComponent) ([]NameScore, error)
	UpsertSnapshotFunc   func(match *wingspan.Match) error
	SnapshotsFunc        func() ([]*wingspan.Match, error)

	AddMessageCalls     []StatusMessage
	RemoveMonitorCalls  []string
	UpsertScoresCalls   []string
	UpsertSnapshotCalls []string
}

// NewMockStore creates a new mock store with no-op defaults.
func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) RegisterChannel(slackID string) (int64, error) {
	if m.RegisterChannelFunc != nil {
		return m.RegisterChannelFunc(slackID)
	}
	return 1, nil
}

func (m *MockStore) ChannelSlackID(channel int64) (string, error) {
	if m.ChannelSlackIDFunc != nil {
		return m.ChannelSlackIDFunc(channel)
	}
	return "", nil
}

func (m *MockStore) AddMonitor(channel int64, matchID string) (bool, error) {
	if m.AddMonitorFunc != nil {
		return m.AddMonitorFunc(channel, matchID)
	}
	return true, nil
}

func (m *MockStore) RemoveMonitor(channel int64, matchID string) (bool, error) {
	m.mu.Lock()
	m.RemoveMonitorCalls = append(m.RemoveMonitorCalls, matchID)
	m.mu.Unlock()
	if m.RemoveMonitorFunc != nil {
		return m.RemoveMonitorFunc(channel, matchID)
	}
	return true, nil
}

func (m *MockStore) MonitoredMatches(channel int64, currentlyMonitored bool) ([]string, error) {
	if m.MonitoredMatchesFunc != nil {
		return m.MonitoredMatchesFunc(channel, currentlyMonitored)
	}
	return nil, nil
}

func (m *MockStore) AllMonitored() (map[int64][]string, error) {
	if m.AllMonitoredFunc != nil {
		return m.AllMonitoredFunc()
	}
	return nil, nil
}

func (m *MockStore) DataStart(channel int64, matchID string) (*time.Time, error) {
	if m.DataStartFunc != nil {
		return m.DataStartFunc(channel, matchID)
	}
	return nil, nil
}

func (m *MockStore) AddMessage(channel int64, matchID string, playerTurn *string, kind MessageKind) error {
	m.mu.Lock()
	m.AddMessageCalls = append(m.AddMessageCalls, StatusMessage{
		Channel:    channel,
		MatchID:    matchID,
		PlayerTurn: playerTurn,
		Kind:       kind,
	})
	m.mu.Unlock()
	if m.AddMessageFunc != nil {
		return m.AddMessageFunc(channel, matchID, playerTurn, kind)
	}
	return nil
}

func (m *MockStore) LatestMessage(channel int64, matchID string) (*StatusMessage, error) {
	if m.LatestMessageFunc != nil {
		return m.LatestMessageFunc(channel, matchID)
	}
	return nil, nil
}

func (m *MockStore) Messages(channel int64, matchID string) ([]StatusMessage, error) {
	if m.MessagesFunc != nil {
		return m.MessagesFunc(channel, matchID)
	}
	return nil, nil
}

func (m *MockStore) Subscribe(channel int64, subscriberID, wingspanName string) (bool, error) {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(channel, subscriberID, wingspanName)
	}
	return true, nil
}

func (m *MockStore) Unsubscribe(channel int64, subscriberID, wingspanName string) (bool, error) {
	if m.UnsubscribeFunc != nil {
		return m.UnsubscribeFunc(channel, subscriberID, wingspanName)
	}
	return true, nil
}

func (m *MockStore) Subscriptions(channel int64) (map[string][]string, error) {
	if m.SubscriptionsFunc != nil {
		return m.SubscriptionsFunc(channel)
	}
	return nil, nil
}

func (m *MockStore) UpsertScores(match *wingspan.Match) error {
	m.mu.Lock()
	m.UpsertScoresCalls = append(m.UpsertScoresCalls, match.MatchID)
	m.mu.Unlock()
	if m.UpsertScoresFunc != nil {
		return m.UpsertScoresFunc(match)
	}
	return nil
}

func (m *MockStore) HighestScores(channel int64, matchID string, component ScoreComponent) ([]NameScore, error) {
	if m.HighestScoresFunc != nil {
		return m.HighestScoresFunc(channel, matchID, component)
	}
	return nil, nil
}

func (m *MockStore) UpsertSnapshot(match *wingspan.Match) error {
	m.mu.Lock()
	m.UpsertSnapshotCalls = append(m.UpsertSnapshotCalls, match.MatchID)
	m.mu.Unlock()
	if m.UpsertSnapshotFunc != nil {
		return m.UpsertSnapshotFunc(match)
	}
	return nil
}

func (m *MockStore) Snapshots() ([]*wingspan.Match, error) {
	if m.SnapshotsFunc != nil {
		return m.SnapshotsFunc()
	}
	return nil, nil
}
