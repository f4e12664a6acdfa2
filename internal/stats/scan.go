package stats

import (
	"time"

	"github.com/stcase/Wingspan/internal/tracker"
)

// turnPoint is one end of a turn transition: who held the turn and when the
// history recorded it.
type turnPoint struct {
	player *string
	at     time.Time
}

// scanTurns walks a channel's history in send order and invokes visit once
// per change of turn, with the previous holder and the new one. Per match,
// the first record seeds the holder (unless it has no player), null-player
// records other than a completion are skipped as noise, and repeats of the
// current holder are no-ops.
func scanTurns(messages []tracker.StatusMessage, visit func(last, next turnPoint) error) error {
	lastByMatch := make(map[string]turnPoint)
	for _, msg := range messages {
		last, seen := lastByMatch[msg.MatchID]
		if !seen {
			if msg.PlayerTurn != nil {
				lastByMatch[msg.MatchID] = turnPoint{player: msg.PlayerTurn, at: msg.SentAt}
			}
			continue
		}
		if msg.PlayerTurn == nil && msg.Kind != tracker.KindGameComplete {
			continue
		}
		if equalPlayer(msg.PlayerTurn, last.player) {
			continue
		}
		next := turnPoint{player: msg.PlayerTurn, at: msg.SentAt}
		if err := visit(last, next); err != nil {
			return err
		}
		lastByMatch[msg.MatchID] = next
	}
	return nil
}

func equalPlayer(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
