package processor

import (
	"sync"

	"github.com/stcase/Wingspan/internal/metrics"
	"github.com/stcase/Wingspan/internal/wingspan"
)

// Processor runs the classification and notification pipeline over
// monitored matches.
type Processor struct {
	store    Store
	source   wingspan.Client
	notifier Notifier
	metrics  metrics.Metrics

	// Serializes decide-send-record sequences so a manual check cannot
	// interleave with the poll sweep for the same match.
	mu sync.Mutex
}

// Snapshot is one observation of a monitored match. A nil Match means the
// fetch failed and only the match ID is known.
type Snapshot struct {
	MatchID string
	Match   *wingspan.Match
}

// Failed reports whether the observation is a fetch failure.
func (s Snapshot) Failed() bool {
	return s.Match == nil
}

// PlayerTurn returns the name of the player whose turn it is, or nil for
// failures and states without a current player.
func (s Snapshot) PlayerTurn() *string {
	if s.Match == nil {
		return nil
	}
	name := s.Match.CurrentPlayerName()
	if name == "" {
		return nil
	}
	return &name
}
