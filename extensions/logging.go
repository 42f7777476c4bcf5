package extensions

import (
	"context"
	"log/slog"
	"time"

	"github.com/evinism/supplier"
)

// LoggingExtension logs every resolve and call a supplier makes
type LoggingExtension struct {
	supplier.BaseExtension
	logger *slog.Logger
}

// NewLoggingExtension creates a new logging extension. A nil logger uses
// slog.Default().
func NewLoggingExtension(logger *slog.Logger) *LoggingExtension {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingExtension{
		BaseExtension: supplier.NewBaseExtension("logging"),
		logger:        logger,
	}
}

func (e *LoggingExtension) Wrap(ctx context.Context, next func() (any, error), op *supplier.Operation) (any, error) {
	start := time.Now()
	result, err := next()

	attrs := []any{
		"operation", string(op.Kind),
		"target", op.Target,
		"execution", supplier.ExecutionID(ctx),
		"duration", time.Since(start),
	}
	if op.Source != "" {
		attrs = append(attrs, "source", op.Source)
	}

	if err != nil {
		e.logger.WarnContext(ctx, "supplier operation failed", append(attrs, "error", err)...)
	} else {
		e.logger.DebugContext(ctx, "supplier operation completed", attrs...)
	}

	return result, err
}
