package config

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const defaultPollInterval = 5 * time.Minute

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	pollInterval := defaultPollInterval
	if raw, ok := os.LookupEnv("POLL_INTERVAL"); ok {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("Error: Invalid POLL_INTERVAL %q: %s", raw, err)
		}
		pollInterval = parsed
	}

	cfg := Config{
		DBName:       getEnv("DB_NAME"),
		Port:         getEnv("PORT"),
		PollInterval: pollInterval,
		Slack: SlackConfig{
			Token:          getEnv("SLACK_BOT_TOKEN"),
			SigningSecret:  getEnv("SLACK_SIGNING_SECRET"),
			AdminChannelID: getEnv("SLACK_ADMIN_CHANNEL_ID"),
		},
		Turso: TursoConfig{
			// Empty means a local-only database.
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		Wingspan: WingspanConfig{
			AccessToken:   getEnv("WINGSPAN_ACCESS_TOKEN"),
			SessionTicket: os.Getenv("WINGSPAN_SESSION_TICKET"),
		},
	}
	return cfg
}
