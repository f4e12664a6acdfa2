package tracker

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for the tracker.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// MessageKind is the classified notification category for a match
// observation. The values are persisted; do not change them.
type MessageKind string

const (
	KindError        MessageKind = "error"
	KindWaiting      MessageKind = "waiting"
	KindReady        MessageKind = "ready"
	KindNewTurn      MessageKind = "new_turn"
	KindReminder     MessageKind = "reminder"
	KindGameTimeout  MessageKind = "timeout"
	KindGameForfeit  MessageKind = "forfeit"
	KindGameComplete MessageKind = "complete"
)

// StatusMessage is one row of the append-only notification history.
type StatusMessage struct {
	ID         int64       `json:"id"`
	Channel    int64       `json:"channel"`
	MatchID    string      `json:"match_id"`
	SentAt     time.Time   `json:"sent_at"`
	PlayerTurn *string     `json:"player_turn"`
	Kind       MessageKind `json:"kind"`
}

// Monitor records a channel watching a match. Removed is set instead of
// deleting the row so historical statistics stay queryable.
type Monitor struct {
	ID      int64      `json:"id"`
	Channel int64      `json:"channel"`
	MatchID string     `json:"match_id"`
	Added   time.Time  `json:"added"`
	Removed *time.Time `json:"removed"`
}

// ScoreComponent selects one of the score-ledger point columns for
// leaderboard queries.
type ScoreComponent string

const (
	ComponentScore            ScoreComponent = "score"
	ComponentBirdPoints       ScoreComponent = "bird_points"
	ComponentBonusCardPoints  ScoreComponent = "bonus_card_points"
	ComponentGoalsPoints      ScoreComponent = "goals_points"
	ComponentEggsPoints       ScoreComponent = "eggs_points"
	ComponentCachedFoodPoints ScoreComponent = "cached_food_points"
	ComponentTuckedCardPoints ScoreComponent = "tucked_cards_points"
)

// scoreColumns whitelists the component-to-column mapping; components are
// never interpolated into SQL without going through this map.
var scoreColumns = map[ScoreComponent]string{
	ComponentScore:            "score",
	ComponentBirdPoints:       "bird_points",
	ComponentBonusCardPoints:  "bonus_card_points",
	ComponentGoalsPoints:      "goals_points",
	ComponentEggsPoints:       "eggs_points",
	ComponentCachedFoodPoints: "cached_food_points",
	ComponentTuckedCardPoints: "tucked_cards_points",
}

// NameScore is one leaderboard row.
type NameScore struct {
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
}
