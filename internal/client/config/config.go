package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the TrackMate CLI.
type Config struct {
	APIBaseURL     string        `env:"TRACKMATE_API_URI"`
	RequestTimeout time.Duration `env:"TRACKMATE_REQUEST_TIMEOUT"`
	StateDBPath    string        `env:"TRACKMATE_STATE_DB"`
	LogLevel       string        `env:"TRACKMATE_LOG_LEVEL"`
	LogBackend     string        `env:"TRACKMATE_LOG_BACKEND"`
	// BreakerTimeout is how long the API circuit stays open before a probe.
	BreakerTimeout time.Duration `env:"TRACKMATE_BREAKER_TIMEOUT"`
}

// LoadDefaults populates c with defaults suitable for a local API.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000"
	c.RequestTimeout = 10 * time.Second
	c.StateDBPath = "trackmate.db"
	c.LogLevel = "info"
	c.LogBackend = "slog"
	c.BreakerTimeout = 15 * time.Second
}

// LoadConfig applies defaults, then environment, JSON and flags in that order.
// Malformed JSON or flag values panic: the CLI cannot start with them.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg, ".env"); err != nil {
		panic(err)
	}
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}
