// Package config loads runtime configuration for the TrackMate CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment, optionally seeded from a .env file in the working directory.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the TrackMate API
//	-t int      request timeout (seconds)
//	-d string   path of the local state database
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations accept either strings like "10s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5000",
//	  "request_timeout": "10s",
//	  "state_db_path": "trackmate.db",
//	  "log_level": "info",
//	  "log_backend": "slog",
//	  "breaker_timeout": "15s"
//	}
package config
