package tracker

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/stcase/Wingspan/internal/wingspan"
)

// New creates a new tracker Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

func (s *store) RegisterChannel(slackID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO channels (slack_id, created) VALUES (?, ?)
		ON CONFLICT(slack_id) DO NOTHING
	`, slackID, time.Now().UTC().Unix())
	if err != nil {
		return 0, err
	}

	var id int64
	if err := s.db.QueryRow("SELECT id FROM channels WHERE slack_id = ?", slackID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *store) ChannelSlackID(channel int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var slackID string
	err := s.db.QueryRow("SELECT slack_id FROM channels WHERE id = ?", channel).Scan(&slackID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return slackID, nil
}

func (s *store) AddMonitor(channel int64, matchID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, err := s.isMonitoredLocked(channel, matchID)
	if err != nil {
		return false, err
	}
	if active {
		return false, nil
	}

	_, err = s.db.Exec(`
		INSERT INTO monitors (channel, match_id, added, removed) VALUES (?, ?, ?, NULL)
	`, channel, matchID, time.Now().UTC().Unix())
	if err != nil {
		return false, err
	}
	log.Info("Now monitoring match", "channel", channel, "matchID", matchID)
	return true, nil
}

func (s *store) RemoveMonitor(channel int64, matchID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE monitors SET removed = ? WHERE channel = ? AND match_id = ? AND removed IS NULL
	`, time.Now().UTC().Unix(), channel, matchID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}
	log.Info("Stopped monitoring match", "channel", channel, "matchID", matchID)
	return true, nil
}

func (s *store) isMonitoredLocked(channel int64, matchID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM monitors WHERE channel = ? AND match_id = ? AND removed IS NULL)
	`, channel, matchID).Scan(&exists)
	return exists, err
}

func (s *store) MonitoredMatches(channel int64, currentlyMonitored bool) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT DISTINCT match_id FROM monitors WHERE channel = ? ORDER BY match_id"
	if currentlyMonitored {
		query = "SELECT match_id FROM monitors WHERE channel = ? AND removed IS NULL ORDER BY added, id"
	}

	rows, err := s.db.Query(query, channel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var matchID string
		if err := rows.Scan(&matchID); err != nil {
			return nil, err
		}
		matches = append(matches, matchID)
	}
	return matches, rows.Err()
}

func (s *store) AllMonitored() (map[int64][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT channel, match_id FROM monitors WHERE removed IS NULL ORDER BY channel, added, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	monitored := make(map[int64][]string)
	for rows.Next() {
		var channel int64
		var matchID string
		if err := rows.Scan(&channel, &matchID); err != nil {
			return nil, err
		}
		monitored[channel] = append(monitored[channel], matchID)
	}
	return monitored, rows.Err()
}

func (s *store) DataStart(channel int64, matchID string) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT MIN(added) FROM monitors WHERE channel = ?"
	args := []any{channel}
	if matchID != "" {
		query += " AND match_id = ?"
		args = append(args, matchID)
	}

	var added sql.NullInt64
	if err := s.db.QueryRow(query, args...).Scan(&added); err != nil {
		return nil, err
	}
	if !added.Valid {
		return nil, nil
	}
	start := time.Unix(added.Int64, 0).UTC()
	return &start, nil
}

func (s *store) AddMessage(channel int64, matchID string, playerTurn *string, kind MessageKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO status_messages (channel, match_id, sent_at, player_turn, message_type)
		VALUES (?, ?, ?, ?, ?)
	`, channel, matchID, time.Now().UTC().Unix(), playerTurn, string(kind))
	return err
}

func (s *store) LatestMessage(channel int64, matchID string) (*StatusMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, channel, match_id, sent_at, player_turn, message_type
		FROM status_messages
		WHERE channel = ? AND match_id = ?
		ORDER BY sent_at DESC, id DESC
		LIMIT 1
	`, channel, matchID)

	msg, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *store) Messages(channel int64, matchID string) ([]StatusMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, channel, match_id, sent_at, player_turn, message_type
		FROM status_messages
		WHERE channel = ?
	`
	args := []any{channel}
	if matchID != "" {
		query += " AND match_id = ?"
		args = append(args, matchID)
	}
	query += " ORDER BY sent_at, id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []StatusMessage
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

func scanMessage(scanner interface{ Scan(...any) error }) (*StatusMessage, error) {
	var msg StatusMessage
	var sentAt int64
	var playerTurn sql.NullString
	var kind string

	err := scanner.Scan(&msg.ID, &msg.Channel, &msg.MatchID, &sentAt, &playerTurn, &kind)
	if err != nil {
		return nil, err
	}

	msg.SentAt = time.Unix(sentAt, 0).UTC()
	if playerTurn.Valid {
		msg.PlayerTurn = &playerTurn.String
	}
	msg.Kind = MessageKind(kind)
	return &msg, nil
}

func (s *store) Subscribe(channel int64, subscriberID, wingspanName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		INSERT INTO subscriptions (channel, subscriber_id, wingspan_name) VALUES (?, ?, ?)
		ON CONFLICT(channel, subscriber_id, wingspan_name) DO NOTHING
	`, channel, subscriberID, wingspanName)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *store) Unsubscribe(channel int64, subscriberID, wingspanName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		DELETE FROM subscriptions WHERE channel = ? AND subscriber_id = ? AND wingspan_name = ?
	`, channel, subscriberID, wingspanName)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *store) Subscriptions(channel int64) (map[string][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT wingspan_name, subscriber_id FROM subscriptions
		WHERE channel = ?
		ORDER BY wingspan_name, subscriber_id
	`, channel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make(map[string][]string)
	for rows.Next() {
		var name, subscriberID string
		if err := rows.Scan(&name, &subscriberID); err != nil {
			return nil, err
		}
		subs[name] = append(subs[name], subscriberID)
	}
	return subs, rows.Err()
}

// UpsertScores replaces the score breakdown rows for every player present in
// the snapshot's score document. Snapshots without scores are a no-op.
func (s *store) UpsertScores(match *wingspan.Match) error {
	if match.StateData == nil {
		return nil
	}
	scores, err := match.StateData.ParseScores()
	if err != nil {
		return fmt.Errorf("parsing scores for match %s: %w", match.MatchID, err)
	}
	if len(scores) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO scores (match_id, player_name, updated, score, bird_points, bonus_card_points, goals_points, eggs_points, cached_food_points, tucked_cards_points, food_tokens)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_id, player_name) DO UPDATE SET
			updated = excluded.updated,
			score = excluded.score,
			bird_points = excluded.bird_points,
			bonus_card_points = excluded.bonus_card_points,
			goals_points = excluded.goals_points,
			eggs_points = excluded.eggs_points,
			cached_food_points = excluded.cached_food_points,
			tucked_cards_points = excluded.tucked_cards_points,
			food_tokens = excluded.food_tokens;
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Unix()
	for _, score := range scores {
		name := match.PlayerUsername(score.ID)
		if name == "" {
			name = score.ID
		}
		_, err = stmt.Exec(match.MatchID, name, now, score.Score, score.BirdPoints, score.BonusCardPoints,
			score.GoalsPoints, score.EggsPoints, score.CachedFoodPoints, score.TuckedCardsPoints, score.FoodTokens)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (s *store) HighestScores(channel int64, matchID string, component ScoreComponent) ([]NameScore, error) {
	column, ok := scoreColumns[component]
	if !ok {
		return nil, fmt.Errorf("unknown score component: %s", component)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	scope := "match_id IN (SELECT match_id FROM monitors WHERE channel = ?)"
	args := []any{channel}
	if matchID != "" {
		scope += " AND match_id = ?"
		args = append(args, matchID)
	}

	query := fmt.Sprintf(`
		SELECT player_name, %[1]s FROM scores
		WHERE %[2]s AND %[1]s = (SELECT MAX(%[1]s) FROM scores WHERE %[2]s)
		ORDER BY player_name
	`, column, scope)
	args = append(args, args...)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaders []NameScore
	for rows.Next() {
		var ns NameScore
		if err := rows.Scan(&ns.PlayerName, &ns.Score); err != nil {
			return nil, err
		}
		leaders = append(leaders, ns)
	}
	return leaders, rows.Err()
}

func (s *store) UpsertSnapshot(match *wingspan.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := msgpack.Marshal(match)
	if err != nil {
		return fmt.Errorf("encoding snapshot for match %s: %w", match.MatchID, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO snapshots (match_id, updated, data) VALUES (?, ?, ?)
		ON CONFLICT(match_id) DO UPDATE SET
			updated = excluded.updated,
			data = excluded.data;
	`, match.MatchID, time.Now().UTC().Unix(), data)
	return err
}

func (s *store) Snapshots() ([]*wingspan.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT match_id, data FROM snapshots ORDER BY match_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*wingspan.Match
	for rows.Next() {
		var matchID string
		var data []byte
		if err := rows.Scan(&matchID, &data); err != nil {
			return nil, err
		}
		var match wingspan.Match
		if err := msgpack.Unmarshal(data, &match); err != nil {
			log.Error("Failed to decode cached snapshot", "error", err, "matchID", matchID)
			continue
		}
		matches = append(matches, &match)
	}
	return matches, rows.Err()
}
