package config

import (
	"flag"
	"io"
	"time"

	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/flagx"
)

// parseFlags populates cfg from -a, -t, -d and -l; other arguments are
// filtered out first so the JSON loader's -c does not trip this flag set.
func parseFlags(cfg *Config, args []string) {
	filtered := flagx.FilterArgs(args, []string{"-a", "-t", "-d", "-l"})

	fs := flag.NewFlagSet("trackmate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the TrackMate API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.StateDBPath, "d", cfg.StateDBPath, "path of the local state database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(filtered); err != nil {
		panic(err)
	}
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
