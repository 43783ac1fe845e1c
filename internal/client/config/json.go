package config

import (
	"encoding/json"
	"os"

	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/flagx"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/timex"
)

// JsonConfig is the on-disk shape. Pointer fields distinguish "absent" from
// "zero", so a partial file only overrides what it names.
type JsonConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	StateDBPath    *string         `json:"state_db_path"`
	LogLevel       *string         `json:"log_level"`
	LogBackend     *string         `json:"log_backend"`
	BreakerTimeout *timex.Duration `json:"breaker_timeout"`
}

// parseJson overlays cfg with the file named by -c/-config in args.
// It does nothing when no file is given and panics on read or decode errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.StateDBPath != nil {
		cfg.StateDBPath = *jc.StateDBPath
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogBackend != nil {
		cfg.LogBackend = *jc.LogBackend
	}
	if jc.BreakerTimeout != nil {
		cfg.BreakerTimeout = jc.BreakerTimeout.Duration
	}
}
