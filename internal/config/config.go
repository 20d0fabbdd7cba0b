package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	DiscordToken string

	// Database
	DatabasePath string

	// Polling
	PollIntervalSeconds int

	// Minutes a guild is skipped after the EA API actively blocks us (403)
	ForbiddenCooldownMinutes int

	// Playoff matches required before the period award is announced
	PlayoffMinMatches int

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken: os.Getenv("DISCORD_BOT_TOKEN"),
		DatabasePath: getEnvOrDefault("DATABASE_PATH", "./data/bot.db"),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.PollIntervalSeconds, err = getEnvInt("POLL_INTERVAL_SECONDS", 60); err != nil {
		return nil, err
	}
	if cfg.ForbiddenCooldownMinutes, err = getEnvInt("FORBIDDEN_COOLDOWN_MINUTES", 10); err != nil {
		return nil, err
	}
	if cfg.PlayoffMinMatches, err = getEnvInt("PLAYOFF_MIN_MATCHES", 15); err != nil {
		return nil, err
	}

	// Validate required fields
	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}
	if cfg.PollIntervalSeconds <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL_SECONDS must be positive")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
