package tracker

import (
	"time"

	"github.com/stcase/Wingspan/internal/wingspan"
)

type Store interface {
	// RegisterChannel maps a Slack channel ID to an internal channel key,
	// creating the mapping on first sight. Idempotent.
	RegisterChannel(slackID string) (int64, error)
	// ChannelSlackID resolves an internal channel key back to its Slack ID.
	// Returns "" when the channel is unknown.
	ChannelSlackID(channel int64) (string, error)

	// AddMonitor starts watching a match on a channel. Returns false when
	// the match is already actively monitored there.
	AddMonitor(channel int64, matchID string) (bool, error)
	// RemoveMonitor soft-deletes an active monitor. Returns false when the
	// match is not actively monitored on the channel.
	RemoveMonitor(channel int64, matchID string) (bool, error)
	// MonitoredMatches lists match IDs for a channel. With
	// currentlyMonitored it returns only active monitors, otherwise every
	// match the channel has ever watched.
	MonitoredMatches(channel int64, currentlyMonitored bool) ([]string, error)
	// AllMonitored returns every active monitor grouped by channel.
	AllMonitored() (map[int64][]string, error)
	// DataStart reports when tracking began for the channel, or for a
	// single match when matchID is non-empty. Nil when nothing matches.
	DataStart(channel int64, matchID string) (*time.Time, error)

	AddMessage(channel int64, matchID string, playerTurn *string, kind MessageKind) error
	// LatestMessage returns the most recent history row for the pair, or
	// nil when none exists.
	LatestMessage(channel int64, matchID string) (*StatusMessage, error)
	// Messages returns history rows in ascending send order. An empty
	// matchID selects the whole channel.
	Messages(channel int64, matchID string) ([]StatusMessage, error)

	// Subscribe links a subscriber to an in-game player name on a channel.
	// Returns false when the link already exists.
	Subscribe(channel int64, subscriberID, wingspanName string) (bool, error)
	Unsubscribe(channel int64, subscriberID, wingspanName string) (bool, error)
	// Subscriptions returns subscriber IDs keyed by in-game player name.
	Subscriptions(channel int64) (map[string][]string, error)

	// UpsertScores records the per-player score breakdown from a match
	// snapshot, replacing any previous rows for the same players.
	UpsertScores(match *wingspan.Match) error
	// HighestScores returns the top rows for a component, including ties,
	// scoped to matches the channel has ever monitored. A non-empty
	// matchID narrows to that match.
	HighestScores(channel int64, matchID string, component ScoreComponent) ([]NameScore, error)

	UpsertSnapshot(match *wingspan.Match) error
	Snapshots() ([]*wingspan.Match, error)
}
