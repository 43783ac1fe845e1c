// Package logging defines the structured-logging interface used across the
// TrackMate client and builds it on top of slog or zap.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "otp requested", "purpose", purpose)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn is used for remote rejections: the flow stays where it is.
	Warn(ctx context.Context, msg string, args ...any)
	// Error is used for transport and unexpected failures.
	Error(ctx context.Context, msg string, args ...any)
	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
