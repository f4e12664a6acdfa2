package wingspan

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidSnapshot indicates the API returned a match whose fields violate
// the state contract (e.g. an in-progress match without a turn timeout).
var ErrInvalidSnapshot = errors.New("invalid match snapshot")

// MatchState is the lifecycle state reported by ChilliConnect.
type MatchState string

const (
	StateWaiting    MatchState = "WAITING" // waiting for the match to start
	StateReady      MatchState = "READY"
	StateInProgress MatchState = "IN_PROGRESS"
	StateCompleted  MatchState = "COMPLETED" // the match is over
)

// Score holds a single player's point totals.
type Score struct {
	ID                string `json:"ID"`
	Score             int    `json:"Score"`
	BirdPoints        int    `json:"BirdPoints"`
	BonusCardPoints   int    `json:"BonusCardPoints"`
	GoalsPoints       int    `json:"GoalsPoints"`
	EggsPoints        int    `json:"EggsPoints"`
	CachedFoodPoints  int    `json:"CachedFoodPoints"`
	TuckedCardsPoints int    `json:"TuckedCardsPoints"`
	FoodTokens        int    `json:"FoodTokens"`
}

// OutcomeData is only present once the match has an explicit outcome.
// ForfeitBy carries the ChilliConnect ID of the player who conceded, if any.
type OutcomeData struct {
	Winner    string `json:"Winner"`
	ForfeitBy string `json:"ForfeitBy"`
}

// StateData is present on the single-match endpoint but not on the match list.
// Scores is a JSON document nested inside a string, keyed under "V".
type StateData struct {
	CurrentPlayerID string `json:"CurrentPlayerID"`
	Scores          string `json:"Scores"`
}

// ParseScores decodes the nested score document.
func (s StateData) ParseScores() ([]Score, error) {
	if s.Scores == "" {
		return nil, nil
	}
	var wrapper struct {
		V []Score `json:"V"`
	}
	if err := json.Unmarshal([]byte(s.Scores), &wrapper); err != nil {
		return nil, fmt.Errorf("failed to decode scores document: %w", err)
	}
	return wrapper.V, nil
}

// Timeout is a countdown until the match forfeits (turn) or expires (waiting).
type Timeout struct {
	SecondsRemaining int    `json:"SecondsRemaining"`
	Expires          string `json:"Expires"`
}

// Player identifies a participant.
type Player struct {
	ChilliConnectID string `json:"ChilliConnectID"`
	UserName        string `json:"UserName"`
}

// Match is one polled read of a match's current state.
type Match struct {
	MatchID        string       `json:"MatchID"`
	State          MatchState   `json:"State"`
	WaitingTimeout *Timeout     `json:"WaitingTimeout"`
	TurnTimeout    *Timeout     `json:"TurnTimeout"`
	Players        []Player     `json:"Players"`
	StateData      *StateData   `json:"StateData"`
	OutcomeData    *OutcomeData `json:"OutcomeData"`
}

// PlayerByID returns the participant with the given ChilliConnect ID, or nil.
func (m *Match) PlayerByID(playerID string) *Player {
	for i := range m.Players {
		if m.Players[i].ChilliConnectID == playerID {
			return &m.Players[i]
		}
	}
	return nil
}

// PlayerUsername resolves a ChilliConnect ID to a username, or "" if unknown.
func (m *Match) PlayerUsername(playerID string) string {
	if p := m.PlayerByID(playerID); p != nil {
		return p.UserName
	}
	return ""
}

// CurrentPlayerName returns the username of the player whose turn it is,
// or "" when the match has no current player.
func (m *Match) CurrentPlayerName() string {
	if m.StateData == nil {
		return ""
	}
	return m.PlayerUsername(m.StateData.CurrentPlayerID)
}

// IsTimedOut reports whether the game completed from a timeout. A completed
// match without outcome data but with full state info can only have ended by
// running out the clock.
func (m *Match) IsTimedOut() bool {
	return m.State == StateCompleted && m.OutcomeData == nil && m.StateData != nil
}

// IsForfeit reports whether the game ended by an explicit forfeit signal.
func (m *Match) IsForfeit() bool {
	return m.OutcomeData != nil && m.OutcomeData.ForfeitBy != ""
}

// ForfeitBy returns the username of the conceding player, falling back to the
// raw ID when the player list does not contain it.
func (m *Match) ForfeitBy() string {
	if !m.IsForfeit() {
		return ""
	}
	if name := m.PlayerUsername(m.OutcomeData.ForfeitBy); name != "" {
		return name
	}
	return m.OutcomeData.ForfeitBy
}

// HoursRemaining converts the state's countdown to hours. In-progress matches
// count down the turn timeout, waiting matches the start timeout; a missing
// timeout in those states violates the source contract. States without a
// countdown return zero.
func (m *Match) HoursRemaining() (float64, error) {
	switch m.State {
	case StateInProgress:
		if m.TurnTimeout == nil {
			return 0, fmt.Errorf("%w: match %s is in progress without a turn timeout", ErrInvalidSnapshot, m.MatchID)
		}
		return float64(m.TurnTimeout.SecondsRemaining) / 60 / 60, nil
	case StateWaiting:
		if m.WaitingTimeout == nil {
			return 0, fmt.Errorf("%w: match %s is waiting without a waiting timeout", ErrInvalidSnapshot, m.MatchID)
		}
		return float64(m.WaitingTimeout.SecondsRemaining) / 60 / 60, nil
	}
	return 0, nil
}
