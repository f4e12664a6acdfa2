package stats_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stcase/Wingspan/internal/stats"
	"github.com/stcase/Wingspan/internal/tracker"
)

func msg(matchID string, at time.Time, player *string, kind tracker.MessageKind) tracker.StatusMessage {
	return tracker.StatusMessage{MatchID: matchID, Channel: 1, SentAt: at, PlayerTurn: player, Kind: kind}
}

func ptr(s string) *string { return &s }

var epoch = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

func serviceWithHistory(messages []tracker.StatusMessage) *stats.Service {
	store := tracker.NewMockStore()
	store.MessagesFunc = func(channel int64, matchID string) ([]tracker.StatusMessage, error) {
		return messages, nil
	}
	return stats.New(store)
}

func TestFastestPlayer(t *testing.T) {
	// alice's turn takes 1 hour, bob's takes 2.
	svc := serviceWithHistory([]tracker.StatusMessage{
		msg("match1", epoch, ptr("alice"), tracker.KindNewTurn),
		msg("match1", epoch.Add(1*time.Hour), ptr("bob"), tracker.KindNewTurn),
		msg("match1", epoch.Add(3*time.Hour), ptr("alice"), tracker.KindNewTurn),
	})

	fastest, err := svc.FastestPlayer(1, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, fastest.Player.Names)
	assert.InDelta(t, 1.0, fastest.Player.Score, 1e-9)
	assert.Equal(t, "Fastest average turn time (hours): 1.00 - alice\n", fastest.String())
}

func TestFastestPlayer_AveragesAcrossTurns(t *testing.T) {
	// alice takes 1 hour, then 3 hours: mean 2. bob always takes 4.
	svc := serviceWithHistory([]tracker.StatusMessage{
		msg("match1", epoch, ptr("alice"), tracker.KindNewTurn),
		msg("match1", epoch.Add(1*time.Hour), ptr("bob"), tracker.KindNewTurn),
		msg("match1", epoch.Add(5*time.Hour), ptr("alice"), tracker.KindNewTurn),
		msg("match1", epoch.Add(8*time.Hour), ptr("bob"), tracker.KindNewTurn),
	})

	fastest, err := svc.FastestPlayer(1, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, fastest.Player.Names)
	assert.InDelta(t, 2.0, fastest.Player.Score, 1e-9)
}

func TestFastestPlayer_TiesKeepAllNames(t *testing.T) {
	svc := serviceWithHistory([]tracker.StatusMessage{
		msg("match1", epoch, ptr("alice"), tracker.KindNewTurn),
		msg("match1", epoch.Add(1*time.Hour), ptr("bob"), tracker.KindNewTurn),
		msg("match1", epoch.Add(2*time.Hour), ptr("alice"), tracker.KindNewTurn),
	})

	fastest, err := svc.FastestPlayer(1, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, fastest.Player.Names)
	assert.InDelta(t, 1.0, fastest.Player.Score, 1e-9)
	assert.Equal(t, "Fastest average turn time (hours): 1.00 - alice, bob\n", fastest.String())
}

func TestFastestPlayer_NoTransitions(t *testing.T) {
	svc := serviceWithHistory([]tracker.StatusMessage{
		msg("match1", epoch, ptr("alice"), tracker.KindNewTurn),
	})

	fastest, err := svc.FastestPlayer(1, "")
	require.NoError(t, err)
	assert.Empty(t, fastest.Player.Names)
	assert.Zero(t, fastest.Player.Score)
	assert.Equal(t, "Fastest average turn time (hours): None\n", fastest.String())
}

func TestFastestPlayer_SkipsNoise(t *testing.T) {
	svc := serviceWithHistory([]tracker.StatusMessage{
		// A leading record with no player does not seed the match.
		msg("match1", epoch, nil, tracker.KindError),
		msg("match1", epoch.Add(1*time.Hour), ptr("alice"), tracker.KindNewTurn),
		// Null-player noise mid-history is ignored.
		msg("match1", epoch.Add(2*time.Hour), nil, tracker.KindError),
		// A repeat of the current holder is not a transition.
		msg("match1", epoch.Add(3*time.Hour), ptr("alice"), tracker.KindReminder),
		msg("match1", epoch.Add(4*time.Hour), ptr("bob"), tracker.KindNewTurn),
	})

	fastest, err := svc.FastestPlayer(1, "")
	require.NoError(t, err)
	// Only the alice-to-bob transition counts: 3 hours on alice's clock.
	assert.Equal(t, []string{"alice"}, fastest.Player.Names)
	assert.InDelta(t, 3.0, fastest.Player.Score, 1e-9)
}

func TestFastestPlayer_CompletionEndsTheLastTurn(t *testing.T) {
	svc := serviceWithHistory([]tracker.StatusMessage{
		msg("match1", epoch, ptr("alice"), tracker.KindNewTurn),
		// A completion with no player still closes out alice's turn.
		msg("match1", epoch.Add(2*time.Hour), nil, tracker.KindGameComplete),
	})

	fastest, err := svc.FastestPlayer(1, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, fastest.Player.Names)
	assert.InDelta(t, 2.0, fastest.Player.Score, 1e-9)
}

func TestFastestPlayer_TracksMatchesIndependently(t *testing.T) {
	svc := serviceWithHistory([]tracker.StatusMessage{
		msg("match1", epoch, ptr("alice"), tracker.KindNewTurn),
		msg("match2", epoch.Add(30*time.Minute), ptr("alice"), tracker.KindNewTurn),
		// Only match1 transitions; match2 stays on alice.
		msg("match1", epoch.Add(1*time.Hour), ptr("bob"), tracker.KindNewTurn),
	})

	fastest, err := svc.FastestPlayer(1, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, fastest.Player.Names)
	assert.InDelta(t, 1.0, fastest.Player.Score, 1e-9)
}

func TestFastestPlayer_UnknownStartingPlayer(t *testing.T) {
	svc := serviceWithHistory([]tracker.StatusMessage{
		msg("match1", epoch, ptr("alice"), tracker.KindNewTurn),
		// The completion reseeds the holder as nobody...
		msg("match1", epoch.Add(1*time.Hour), nil, tracker.KindGameComplete),
		// ...so a later turn has no starting player to attribute time to.
		msg("match1", epoch.Add(2*time.Hour), ptr("bob"), tracker.KindNewTurn),
	})

	_, err := svc.FastestPlayer(1, "")
	assert.ErrorIs(t, err, stats.ErrIncompleteHistory)
}

func TestPlayerTurnTimings(t *testing.T) {
	svc := serviceWithHistory([]tracker.StatusMessage{
		msg("match1", epoch.Add(1*time.Hour), ptr("alice"), tracker.KindNewTurn),
		// alice's turn ends at 02:00 UTC; the bucket belongs to alice.
		msg("match1", epoch.Add(2*time.Hour), ptr("bob"), tracker.KindNewTurn),
		msg("match1", epoch.Add(26*time.Hour), ptr("alice"), tracker.KindNewTurn),
	})

	timings, err := svc.PlayerTurnTimings(1, "")
	require.NoError(t, err)
	require.Contains(t, timings.Timings, "alice")
	require.Contains(t, timings.Timings, "bob")
	assert.Equal(t, map[int]int{2: 1}, timings.Timings["alice"].CountByHour)
	assert.Equal(t, map[int]int{2: 1}, timings.Timings["bob"].CountByHour)
}

func TestTurnTimingChart(t *testing.T) {
	timing := stats.NewTurnTiming()
	for i := 0; i < 4; i++ {
		timing.Increment(3)
	}
	timing.Increment(10)

	lines := strings.Split(timing.String(), "\n")
	require.Len(t, lines, 7) // 4 chart rows, axis, labels, trailing newline

	// Hour 3 (count 4 = max) is marked on every row; hour 10 (count 1)
	// only on the bottom row, where the threshold is zero.
	for row := 0; row < 3; row++ {
		assert.Equal(t, " x ", lines[row][9:12], "row %d hour 3", row)
		assert.Equal(t, "   ", lines[row][30:33], "row %d hour 10", row)
	}
	assert.Equal(t, " x ", lines[3][9:12])
	assert.Equal(t, " x ", lines[3][30:33])

	assert.Equal(t, strings.Repeat("-", 72), lines[4])
	assert.True(t, strings.HasPrefix(lines[5], " 0  1  2  3 "))
	assert.Contains(t, lines[5], "10 11 ")
	assert.Len(t, lines[5], 72)
}

func TestTurnTimingChart_MarkIsStrictlyAbove(t *testing.T) {
	timing := stats.NewTurnTiming()
	for i := 0; i < 4; i++ {
		timing.Increment(0)
	}
	timing.Increment(1) // exactly max/4, not above the row-2 threshold

	lines := strings.Split(timing.String(), "\n")
	// Row thresholds are 3, 2, 1, 0: a count of 1 only clears the last.
	assert.Equal(t, "   ", lines[2][3:6])
	assert.Equal(t, " x ", lines[3][3:6])
}

func TestPlayerTurnTimingsString(t *testing.T) {
	timings := stats.NewPlayerTurnTimings()
	timings.Increment("bob", 5)
	timings.Increment("alice", 7)

	s := timings.String()
	assert.True(t, strings.HasPrefix(s, "Hours each player commonly plays (in UTC):\n"))
	// Players are listed alphabetically.
	assert.Less(t, strings.Index(s, "alice:"), strings.Index(s, "bob:"))
}

func TestHighestScores(t *testing.T) {
	store := tracker.NewMockStore()
	store.HighestScoresFunc = func(channel int64, matchID string, component tracker.ScoreComponent) ([]tracker.NameScore, error) {
		switch component {
		case tracker.ComponentScore:
			return []tracker.NameScore{{PlayerName: "alice", Score: 95}, {PlayerName: "bob", Score: 95}}, nil
		case tracker.ComponentBirdPoints:
			return []tracker.NameScore{{PlayerName: "carol", Score: 50}}, nil
		default:
			return nil, nil
		}
	}
	svc := stats.New(store)

	scores, err := svc.HighestScores(1, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob"}, scores.HighestScore.Names)
	assert.EqualValues(t, 95, scores.HighestScore.Score)
	assert.Equal(t, []string{"carol"}, scores.HighestBirdPoints.Names)

	rendered := scores.String()
	assert.Contains(t, rendered, "Highest score:                        95 - alice, bob\n")
	assert.Contains(t, rendered, "Most points from birds:               50 - carol\n")
	assert.Contains(t, rendered, "Most points from goals:            None\n")
}
