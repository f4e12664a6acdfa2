package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu             sync.Mutex
	pollRuns       int
	matchesChecked int
	sourceErrors   int
	notifSent      int
	notifFailed    int
	checkDurations []float64
	startupTime    float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		checkDurations: make([]float64, 0),
	}
}

func (m *Mock) IncPollRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pollRuns++
}

func (m *Mock) IncMatchesChecked() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesChecked++
}

func (m *Mock) IncSourceErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sourceErrors++
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed++
}

func (m *Mock) ObserveCheckDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkDurations = append(m.checkDurations, duration)
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// PollRuns returns the number of times IncPollRuns was called.
func (m *Mock) PollRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pollRuns
}

// MatchesChecked returns the number of times IncMatchesChecked was called.
func (m *Mock) MatchesChecked() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesChecked
}

// SourceErrors returns the number of times IncSourceErrors was called.
func (m *Mock) SourceErrors() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sourceErrors
}

// NotifSent returns the number of times IncNotifSent was called.
func (m *Mock) NotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent
}

// NotifFailed returns the number of times IncNotifFailed was called.
func (m *Mock) NotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed
}
