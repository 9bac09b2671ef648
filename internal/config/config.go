package config

import (
	"os"
	"time"
)

// Config holds everything read from the environment
type Config struct {
	Port        string
	Environment string

	UseMemoryStore bool
	SeedDemoData   bool

	RedisAddr     string
	RedisPassword string

	AggregatorToken string // shared secret on /ussd; empty disables the check

	SessionTTL time.Duration
}

// Load reads configuration from environment variables with sane defaults
func Load() Config {
	cfg := Config{
		Port:        os.Getenv("PORT"),
		Environment: os.Getenv("ENVIRONMENT"),

		UseMemoryStore: os.Getenv("USE_MEMORY_STORE") == "true",
		SeedDemoData:   os.Getenv("SEED_DEMO_DATA") == "true",

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		AggregatorToken: os.Getenv("AGGREGATOR_TOKEN"),

		SessionTTL: 5 * time.Minute,
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil && d > 0 {
			cfg.SessionTTL = d
		}
	}

	return cfg
}
