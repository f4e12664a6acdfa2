package stats

import (
	"fmt"
	"sort"
	"strings"
)

// PlayerStat is one statistic shared by one or more tied players.
type PlayerStat struct {
	Names []string
	Score float64
	// Integer renders the score without decimals (point totals, as
	// opposed to averaged hours).
	Integer bool
}

func (p PlayerStat) String() string {
	if len(p.Names) == 0 {
		return "None"
	}
	names := strings.Join(p.Names, ", ")
	if p.Integer {
		return fmt.Sprintf("%5d - %s", int(p.Score), names)
	}
	return fmt.Sprintf("%5.2f - %s", p.Score, names)
}

// FastestPlayer holds the player(s) with the lowest mean turn duration.
type FastestPlayer struct {
	Player PlayerStat
}

func (f FastestPlayer) String() string {
	return fmt.Sprintf("Fastest average turn time (hours): %s\n", f.Player)
}

// ScoreStats is the leaderboard across all seven score components.
type ScoreStats struct {
	HighestScore           PlayerStat
	HighestBirdPoints      PlayerStat
	HighestBonusCardPoints PlayerStat
	HighestGoalPoints      PlayerStat
	HighestEggsPoints      PlayerStat
	HighestCachedFood      PlayerStat
	HighestTuckedCards     PlayerStat
}

func (s ScoreStats) String() string {
	return fmt.Sprintf(
		"Highest score:                     %s\n"+
			"Most points from birds:            %s\n"+
			"Most points from bonus cards:      %s\n"+
			"Most points from goals:            %s\n"+
			"Most points from eggs:             %s\n"+
			"Most points from cached food:      %s\n"+
			"Most points from tucked cards:     %s\n",
		s.HighestScore, s.HighestBirdPoints, s.HighestBonusCardPoints, s.HighestGoalPoints,
		s.HighestEggsPoints, s.HighestCachedFood, s.HighestTuckedCards)
}

const histogramRows = 4

// TurnTiming counts turns per UTC hour for one player.
type TurnTiming struct {
	CountByHour map[int]int
}

// NewTurnTiming creates an empty histogram.
func NewTurnTiming() *TurnTiming {
	return &TurnTiming{CountByHour: make(map[int]int)}
}

// Increment bumps the bucket for an hour of day.
func (t *TurnTiming) Increment(hour int) {
	t.CountByHour[hour]++
}

// String renders the histogram as a 4-row bar chart over the 24 hours of the
// day. A bucket is marked on a row when its count strictly exceeds that
// row's share of the maximum.
func (t *TurnTiming) String() string {
	maxCount := 0
	for _, count := range t.CountByHour {
		if count > maxCount {
			maxCount = count
		}
	}
	binSize := float64(maxCount) / histogramRows

	var b strings.Builder
	for row := histogramRows; row > 0; row-- {
		for hour := 0; hour < 24; hour++ {
			if float64(t.CountByHour[hour]) > binSize*float64(row-1) {
				b.WriteString(" x ")
			} else {
				b.WriteString("   ")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("-", 24*3))
	b.WriteString("\n")
	for hour := 0; hour < 24; hour++ {
		fmt.Fprintf(&b, "%s", centered(hour))
	}
	b.WriteString("\n")
	return b.String()
}

// centered formats an hour label centered in a 3-character cell.
func centered(hour int) string {
	label := fmt.Sprintf("%d", hour)
	if len(label) == 1 {
		return " " + label + " "
	}
	return label + " "
}

// PlayerTurnTimings maps player names to their turn-timing histograms.
type PlayerTurnTimings struct {
	Timings map[string]*TurnTiming
}

// NewPlayerTurnTimings creates an empty collection.
func NewPlayerTurnTimings() PlayerTurnTimings {
	return PlayerTurnTimings{Timings: make(map[string]*TurnTiming)}
}

// Increment bumps the player's bucket for an hour of day.
func (p PlayerTurnTimings) Increment(player string, hour int) {
	timing, ok := p.Timings[player]
	if !ok {
		timing = NewTurnTiming()
		p.Timings[player] = timing
	}
	timing.Increment(hour)
}

func (p PlayerTurnTimings) String() string {
	players := make([]string, 0, len(p.Timings))
	for player := range p.Timings {
		players = append(players, player)
	}
	sort.Strings(players)

	sections := make([]string, len(players))
	for i, player := range players {
		sections[i] = fmt.Sprintf("%s:\n%s", player, p.Timings[player])
	}
	return "Hours each player commonly plays (in UTC):\n" + strings.Join(sections, "\n")
}
