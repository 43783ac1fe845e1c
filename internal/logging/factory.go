package logging

import (
	"io"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// Options selects the backend and verbosity of the logger built by New.
type Options struct {
	Backend string
	Level   string
	// JSON switches the slog backend to the JSON handler. zap always encodes
	// to console format on a terminal client.
	JSON bool
}

// New builds a Logger writing to w. Unknown levels fall back to info and
// unknown backends fall back to slog.
func New(w io.Writer, opts Options) Logger {
	if strings.EqualFold(opts.Backend, BackendZap) {
		return NewZapLogger(newZap(w, opts.Level))
	}

	hopts := &slog.HandlerOptions{Level: slogLevel(opts.Level)}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, hopts)
	} else {
		h = slog.NewTextHandler(w, hopts)
	}
	return NewSlogLogger(slog.New(h))
}

func slogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func newZap(w io.Writer, level string) *zap.Logger {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl := zapcore.InfoLevel
	if err := lvl.Set(level); err != nil {
		lvl = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		lvl,
	)
	return zap.New(core)
}
