package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName       string
	Port         string
	PollInterval time.Duration
	Slack        SlackConfig
	Turso        TursoConfig
	Wingspan     WingspanConfig
}

type SlackConfig struct {
	Token          string
	SigningSecret  string
	AdminChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// WingspanConfig carries the ChilliConnect credentials. SessionTicket is only
// needed so the client can mint a fresh access token when the current one expires.
type WingspanConfig struct {
	AccessToken   string
	SessionTicket string
}
