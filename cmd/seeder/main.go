package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/stcase/Wingspan/internal/database"
	"github.com/stcase/Wingspan/internal/wingspan"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":           os.Getenv("DB_NAME"),
		"TURSO_PRIMARY_URL": os.Getenv("TURSO_PRIMARY_URL"),
		"TURSO_AUTH_TOKEN":  os.Getenv("TURSO_AUTH_TOKEN"),
	}
	if config["DB_NAME"] == "" && config["TURSO_PRIMARY_URL"] == "" {
		log.Fatalf("Error: Either DB_NAME or TURSO_PRIMARY_URL must be set.")
	}
	return config
}

var seedPlayers = []string{"Seeder Player A", "Seeder Player B", "Seeder Player C", "Seeder Player D"}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	log.Info("Successfully connected to the database.")

	now := time.Now()
	res, err := db.Exec("INSERT OR IGNORE INTO channels (slack_id, created) VALUES (?, ?)", "C-SEEDED", now.Unix())
	if err != nil {
		log.Fatalf("Failed to insert seed channel: %s", err)
	}
	channel, err := res.LastInsertId()
	if err != nil || channel == 0 {
		if err := db.QueryRow("SELECT id FROM channels WHERE slack_id = ?", "C-SEEDED").Scan(&channel); err != nil {
			log.Fatalf("Failed to resolve seed channel: %s", err)
		}
	}
	log.Info("Ensured seed channel exists.", "channel", channel)

	const numMatches = 50
	const turnsPerMatch = 40
	const batchSize = 200

	log.Info("Preparing to insert dummy match history...", "matches", numMatches, "turns_per_match", turnsPerMatch)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*5)

	flush := func() {
		if len(valueStrings) == 0 {
			return
		}
		stmt := fmt.Sprintf(`
			INSERT INTO status_messages (channel, match_id, sent_at, player_turn, message_type)
			VALUES %s;`, strings.Join(valueStrings, ","))
		if _, err := tx.Exec(stmt, valueArgs...); err != nil {
			tx.Rollback()
			log.Fatalf("Failed to execute batch insert: %s", err)
		}
		valueStrings = valueStrings[:0]
		valueArgs = valueArgs[:0]
	}

	for i := 0; i < numMatches; i++ {
		matchID := uuid.NewString()
		added := now.Add(-time.Duration(rand.Intn(90*24)) * time.Hour)

		if _, err := tx.Exec(
			"INSERT INTO monitors (channel, match_id, added) VALUES (?, ?, ?)",
			channel, matchID, added.Unix(),
		); err != nil {
			tx.Rollback()
			log.Fatalf("Failed to insert monitor: %s", err)
		}

		sentAt := added
		player := rand.Intn(len(seedPlayers))
		for turn := 0; turn < turnsPerMatch; turn++ {
			valueStrings = append(valueStrings, "(?, ?, ?, ?, ?)")
			valueArgs = append(valueArgs,
				channel, matchID, sentAt.Unix(), seedPlayers[player], "new_turn",
			)
			sentAt = sentAt.Add(time.Duration(30+rand.Intn(600)) * time.Minute)
			player = (player + 1) % len(seedPlayers)
			if len(valueStrings) == batchSize {
				flush()
			}
		}
		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs, channel, matchID, sentAt.Unix(), nil, "complete")

		for p, name := range seedPlayers {
			if _, err := tx.Exec(`
				INSERT OR REPLACE INTO scores (match_id, player_name, updated, score, bird_points,
					bonus_card_points, goals_points, eggs_points, cached_food_points, tucked_cards_points, food_tokens)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				matchID, name, sentAt.Unix(),
				60+rand.Intn(60), 20+rand.Intn(40), rand.Intn(15), rand.Intn(15),
				rand.Intn(25), rand.Intn(10), rand.Intn(10), p,
			); err != nil {
				tx.Rollback()
				log.Fatalf("Failed to insert scores: %s", err)
			}
		}

		snapshot := wingspan.Match{MatchID: matchID, State: wingspan.StateCompleted}
		blob, _ := msgpack.Marshal(&snapshot)
		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO snapshots (match_id, updated, data) VALUES (?, ?, ?)",
			matchID, sentAt.Unix(), blob,
		); err != nil {
			tx.Rollback()
			log.Fatalf("Failed to insert snapshot: %s", err)
		}
	}
	flush()

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM status_messages WHERE channel = ?", channel).Scan(&count); err != nil {
		log.Fatalf("Failed to count seeded messages: %s", err)
	}
	log.Info("Seeding complete.", "messages", count, "duration", time.Since(startTime))
}
