package processor

import (
	"github.com/stcase/Wingspan/internal/tracker"
	"github.com/stcase/Wingspan/internal/wingspan"
)

// Classify maps a snapshot to its message kind. The precedence order
// matters: WAITING and READY are checked before the completion signals, a
// timeout outranks a forfeit, and only an IN_PROGRESS match falls through to
// the turn kinds. The only error is wingspan.ErrInvalidSnapshot, for an
// in-progress match with no turn countdown.
func Classify(snap Snapshot) (tracker.MessageKind, error) {
	if snap.Failed() {
		return tracker.KindError, nil
	}
	match := snap.Match
	switch {
	case match.State == wingspan.StateWaiting:
		return tracker.KindWaiting, nil
	case match.State == wingspan.StateReady:
		return tracker.KindReady, nil
	case match.IsTimedOut():
		return tracker.KindGameTimeout, nil
	case match.IsForfeit():
		return tracker.KindGameForfeit, nil
	case match.State == wingspan.StateCompleted:
		return tracker.KindGameComplete, nil
	}
	hours, err := match.HoursRemaining()
	if err != nil {
		return "", err
	}
	if hours <= 24 {
		return tracker.KindReminder, nil
	}
	return tracker.KindNewTurn, nil
}

// ShouldNotify decides whether the snapshot warrants a new notification for
// the channel. Only the most recent history record is consulted: a changed
// kind or a changed current player fires, an identical pair does not.
func (p *Processor) ShouldNotify(channel int64, snap Snapshot) (bool, error) {
	kind, err := Classify(snap)
	if err != nil {
		return false, err
	}

	previous, err := p.store.LatestMessage(channel, snap.MatchID)
	if err != nil {
		return false, err
	}
	if previous == nil {
		return true, nil
	}
	if previous.Kind != kind {
		return true, nil
	}
	return !equalPlayer(previous.PlayerTurn, snap.PlayerTurn()), nil
}

func equalPlayer(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
