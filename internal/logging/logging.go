package logging

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger. Format is "console" or "json".
func New(level, format string) *zap.Logger {
	lvl := zapcore.InfoLevel
	switch level {
	case "debug":
		lvl = zapcore.DebugLevel
	case "warn":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, _ := cfg.Build()
	return logger
}

type correlationKey struct{}

// WithCorrelationID stores a fresh run-scoped correlation ID in the context
// and returns it. Existing IDs are preserved.
func WithCorrelationID(ctx context.Context) (context.Context, string) {
	if id := CorrelationID(ctx); id != "" {
		return ctx, id
	}
	id := uuid.New().String()[:8]
	return context.WithValue(ctx, correlationKey{}, id), id
}

// CorrelationID returns the correlation ID carried by the context, if any.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// For returns the logger annotated with the context's correlation ID.
func For(ctx context.Context, log *zap.Logger) *zap.Logger {
	if id := CorrelationID(ctx); id != "" {
		return log.With(zap.String("correlation_id", id))
	}
	return log
}
