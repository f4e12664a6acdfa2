package processor

import (
	"fmt"
	"strings"

	"github.com/stcase/Wingspan/internal/tracker"
)

// formatMessage renders the notification text for a classified snapshot.
// Subscribers of the current player are tagged inline.
func (p *Processor) formatMessage(channel int64, snap Snapshot, kind tracker.MessageKind) (string, error) {
	var player string
	var hours float64
	if !snap.Failed() {
		player = snap.Match.CurrentPlayerName()
		hours, _ = snap.Match.HoursRemaining()
	}

	tags, err := p.subscriberTags(channel, player)
	if err != nil {
		return "", err
	}

	switch kind {
	case tracker.KindError:
		return fmt.Sprintf("Exception while checking %s - check the logs", snap.MatchID), nil
	case tracker.KindWaiting:
		return fmt.Sprintf("Game %s is waiting to start", snap.MatchID), nil
	case tracker.KindReady:
		return fmt.Sprintf("Game %s is ready to start", snap.MatchID), nil
	case tracker.KindGameComplete:
		return fmt.Sprintf("Game %s is Complete!", snap.MatchID), nil
	case tracker.KindGameTimeout:
		return fmt.Sprintf("Game %s timed out on %s's%s turn :(", snap.MatchID, player, tags), nil
	case tracker.KindGameForfeit:
		return fmt.Sprintf("Game %s was forfeited by %s :(", snap.MatchID, snap.Match.ForfeitBy()), nil
	case tracker.KindNewTurn:
		return fmt.Sprintf("It's %s's%s turn with %.2f hours remaining in match %s", player, tags, hours, snap.MatchID), nil
	case tracker.KindReminder:
		return fmt.Sprintf(":rotating_light: %s%s only has %.2f hours remaining in match %s :rotating_light:", player, tags, hours, snap.MatchID), nil
	}
	return "", fmt.Errorf("no message format for kind %q", kind)
}

// subscriberTags returns the @-mention suffix for everyone subscribed to
// the player on this channel, or "" when there are no subscribers.
func (p *Processor) subscriberTags(channel int64, player string) (string, error) {
	if player == "" {
		return "", nil
	}
	subs, err := p.store.Subscriptions(channel)
	if err != nil {
		return "", err
	}
	subscribers, ok := subs[player]
	if !ok {
		return "", nil
	}
	mentions := make([]string, len(subscribers))
	for i, subscriber := range subscribers {
		mentions[i] = fmt.Sprintf("<@%s>", subscriber)
	}
	return " " + strings.Join(mentions, ", "), nil
}
