package observe

import (
	"context"

	"go.uber.org/zap"
)

// Logger writes spans at debug level and error reports at error level.
type Logger struct {
	logger *zap.Logger
}

// NewLogger creates a zap-backed sink.
func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{logger: logger}
}

// RecordSpan implements Sink.
func (l *Logger) RecordSpan(_ context.Context, span Span) {
	l.logger.Debug("span",
		zap.String("operation", span.Operation),
		zap.String("index", span.Index),
		zap.String("query", span.Query),
		zap.String("mode", span.Mode),
		zap.Int("results", span.Results),
		zap.String("outcome", string(span.Outcome)),
		zap.Duration("duration", span.Duration),
	)
}

// RecordError implements Sink.
func (l *Logger) RecordError(_ context.Context, err error, attrs map[string]string) {
	fields := make([]zap.Field, 0, len(attrs)+1)
	fields = append(fields, zap.Error(err))
	for k, v := range attrs {
		fields = append(fields, zap.String(k, v))
	}
	l.logger.Error("operation failed", fields...)
}
