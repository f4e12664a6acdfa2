package notifier

import "sync"

// SentMessage records one Send call for assertions.
type SentMessage struct {
	Channel int64
	Text    string
	DryRun  bool
}

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendFunc      func(channel int64, text string, dryRun bool) error
	SendAdminFunc func(text string, dryRun bool) error

	SendCalls      []SentMessage
	SendAdminCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Send(channel int64, text string, dryRun bool) error {
	m.mu.Lock()
	m.SendCalls = append(m.SendCalls, SentMessage{Channel: channel, Text: text, DryRun: dryRun})
	m.mu.Unlock()
	if m.SendFunc != nil {
		return m.SendFunc(channel, text, dryRun)
	}
	return nil
}

func (m *Mock) SendAdmin(text string, dryRun bool) error {
	m.mu.Lock()
	m.SendAdminCalls = append(m.SendAdminCalls, text)
	m.mu.Unlock()
	if m.SendAdminFunc != nil {
		return m.SendAdminFunc(text, dryRun)
	}
	return nil
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendCalls = nil
	m.SendAdminCalls = nil
}
