// Package logctx carries a zerolog logger through context.Context.
//
// The CLI attaches a logger tagged with the running command, and the S3
// staging code adds the object it is transferring. Code that receives a
// context without a logger falls back to the process logger from
// pkg/logging, so FromContext never returns a disabled logger.
//
//	ctx = logctx.WithCommand(ctx, "sort")
//	ctx = logctx.WithStr(ctx, "uri", "s3://bucket/input.bin")
//	log := logctx.FromContext(ctx)
//	log.Info().Msg("staging input")
package logctx

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/eunmann/i32sort/pkg/logging"
)

// loggerKey is the private key type for storing loggers in context.
type loggerKey struct{}

// WithLogger returns a new context with the given logger attached.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext extracts the logger from the context, or the process logger
// when the context is nil or carries none.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
			return logger
		}
	}
	return *logging.L()
}

// WithCommand tags the context logger with the CLI command being run.
func WithCommand(ctx context.Context, command string) context.Context {
	return WithStr(ctx, "command", command)
}

// WithStr returns a new context with a logger that has the specified string field added.
func WithStr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, logger)
}
