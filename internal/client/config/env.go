package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with TRACKMATE_* environment variables. When dotenv
// names an existing file it is loaded first; variables already present in the
// process environment are not overridden by it. Unset variables leave the
// current values in place.
func parseEnv(cfg *Config, dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return env.Parse(cfg)
}
