// Package config loads runtime configuration from the environment, with an
// optional .env file picked up from the working directory.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the commands need to run.
type Config struct {
	Provider   string // "openai" or "anthropic"
	APIKey     string
	Model      string
	DBPath     string
	SeedPath   string
	AuditLog   string
	SecretHash string // bcrypt hash guarding execute_sql / mass_execute
	MaxRounds  int
	LogLevel   string
}

// Load reads configuration from the environment. A missing .env file is not
// an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Provider:   envOr("LIBRARY_PROVIDER", "openai"),
		Model:      envOr("LIBRARY_MODEL", defaultModel(envOr("LIBRARY_PROVIDER", "openai"))),
		DBPath:     envOr("LIBRARY_DB", "library.db"),
		SeedPath:   envOr("LIBRARY_SEED", "books.csv"),
		AuditLog:   envOr("LIBRARY_AUDIT_LOG", "executed_commands.log"),
		SecretHash: os.Getenv("LIBRARY_SECRET_HASH"),
		MaxRounds:  10,
		LogLevel:   envOr("LIBRARY_LOG_LEVEL", "info"),
	}

	switch cfg.Provider {
	case "openai":
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	default:
		return nil, fmt.Errorf("unsupported LIBRARY_PROVIDER %q", cfg.Provider)
	}

	if raw := os.Getenv("LIBRARY_MAX_ROUNDS"); raw != "" {
		rounds, err := strconv.Atoi(raw)
		if err != nil || rounds < 1 {
			return nil, fmt.Errorf("LIBRARY_MAX_ROUNDS must be a positive integer, got %q", raw)
		}
		cfg.MaxRounds = rounds
	}

	return cfg, nil
}

// ValidateForChat checks the fields the chat session cannot run without.
func (c *Config) ValidateForChat() error {
	if c.APIKey == "" {
		return fmt.Errorf("missing API key: set %s", apiKeyVar(c.Provider))
	}
	if c.SecretHash == "" {
		return fmt.Errorf("missing LIBRARY_SECRET_HASH: generate one with the 'secret' command")
	}
	return nil
}

func apiKeyVar(provider string) string {
	if provider == "anthropic" {
		return "ANTHROPIC_API_KEY"
	}
	return "OPENAI_API_KEY"
}

func defaultModel(provider string) string {
	if provider == "anthropic" {
		return "claude-sonnet-4-20250514"
	}
	return "gpt-4o"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
