package stats

import (
	"errors"
	"sort"

	"github.com/stcase/Wingspan/internal/tracker"
)

// ErrIncompleteHistory signals a turn transition whose starting player is
// unknown, which should not occur in a well-formed history.
var ErrIncompleteHistory = errors.New("turn transition with unknown starting player")

// Store defines the read-only database operations required for statistics.
type Store interface {
	Messages(channel int64, matchID string) ([]tracker.StatusMessage, error)
	HighestScores(channel int64, matchID string, component tracker.ScoreComponent) ([]tracker.NameScore, error)
}

// Service computes aggregate statistics from the notification history and
// the score ledger. An empty matchID means channel-wide.
type Service struct {
	store Store
}

// New creates a new statistics Service.
func New(store Store) *Service {
	return &Service{store: store}
}

// FastestPlayer returns the player(s) with the lowest mean turn duration.
// Each turn's duration is attributed to the player who just finished it.
func (s *Service) FastestPlayer(channel int64, matchID string) (FastestPlayer, error) {
	messages, err := s.store.Messages(channel, matchID)
	if err != nil {
		return FastestPlayer{}, err
	}

	hoursByPlayer := make(map[string][]float64)
	err = scanTurns(messages, func(last, next turnPoint) error {
		if last.player == nil {
			return ErrIncompleteHistory
		}
		hoursByPlayer[*last.player] = append(hoursByPlayer[*last.player], next.at.Sub(last.at).Hours())
		return nil
	})
	if err != nil {
		return FastestPlayer{}, err
	}

	players := make([]string, 0, len(hoursByPlayer))
	for player := range hoursByPlayer {
		players = append(players, player)
	}
	sort.Strings(players)

	var fastest []string
	var fastestAvg float64
	for _, player := range players {
		avg := mean(hoursByPlayer[player])
		switch {
		case fastestAvg == 0 || fastestAvg > avg:
			fastest = []string{player}
			fastestAvg = avg
		case fastestAvg == avg:
			fastest = append(fastest, player)
		}
	}

	return FastestPlayer{Player: PlayerStat{Names: fastest, Score: fastestAvg}}, nil
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PlayerTurnTimings returns per-player histograms of the UTC hours at which
// their turns ended.
func (s *Service) PlayerTurnTimings(channel int64, matchID string) (PlayerTurnTimings, error) {
	messages, err := s.store.Messages(channel, matchID)
	if err != nil {
		return PlayerTurnTimings{}, err
	}

	timings := NewPlayerTurnTimings()
	err = scanTurns(messages, func(last, next turnPoint) error {
		if last.player == nil {
			return ErrIncompleteHistory
		}
		timings.Increment(*last.player, next.at.UTC().Hour())
		return nil
	})
	if err != nil {
		return PlayerTurnTimings{}, err
	}
	return timings, nil
}

// HighestScores returns the leaderboard for every score component, with all
// tied players under one score.
func (s *Service) HighestScores(channel int64, matchID string) (ScoreStats, error) {
	type leaderboard struct {
		component tracker.ScoreComponent
		target    *PlayerStat
	}
	stats := ScoreStats{}
	components := []leaderboard{
		{tracker.ComponentScore, &stats.HighestScore},
		{tracker.ComponentBirdPoints, &stats.HighestBirdPoints},
		{tracker.ComponentBonusCardPoints, &stats.HighestBonusCardPoints},
		{tracker.ComponentGoalsPoints, &stats.HighestGoalPoints},
		{tracker.ComponentEggsPoints, &stats.HighestEggsPoints},
		{tracker.ComponentCachedFoodPoints, &stats.HighestCachedFood},
		{tracker.ComponentTuckedCardPoints, &stats.HighestTuckedCards},
	}

	for _, c := range components {
		rows, err := s.store.HighestScores(channel, matchID, c.component)
		if err != nil {
			return ScoreStats{}, err
		}
		stat := PlayerStat{Integer: true}
		for _, row := range rows {
			stat.Names = append(stat.Names, row.PlayerName)
		}
		if len(rows) > 0 {
			stat.Score = float64(rows[0].Score)
		}
		*c.target = stat
	}
	return stats, nil
}
