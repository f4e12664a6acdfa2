package processor

import (
	"github.com/stcase/Wingspan/internal/notifier"
	"github.com/stcase/Wingspan/internal/tracker"
	"github.com/stcase/Wingspan/internal/wingspan"
)

// Store defines the database operations required by the processor.
type Store interface {
	AllMonitored() (map[int64][]string, error)
	MonitoredMatches(channel int64, currentlyMonitored bool) ([]string, error)
	RemoveMonitor(channel int64, matchID string) (bool, error)
	LatestMessage(channel int64, matchID string) (*tracker.StatusMessage, error)
	AddMessage(channel int64, matchID string, playerTurn *string, kind tracker.MessageKind) error
	Subscriptions(channel int64) (map[string][]string, error)
	UpsertScores(match *wingspan.Match) error
	UpsertSnapshot(match *wingspan.Match) error
}

// Notifier defines the notification operations required by the processor.
// This is now an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
