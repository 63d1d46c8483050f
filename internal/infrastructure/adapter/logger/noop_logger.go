package logger

import (
	"github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
)

// NoopLogger implements the Logger interface without doing anything.
// Used in tests.
type NoopLogger struct{}

// NewNoopLogger creates a new no-op logger
func NewNoopLogger() core.Logger {
	return &NoopLogger{}
}

// Debug logs debug messages
func (l *NoopLogger) Debug(message string, fields map[string]any) {}

// Info logs informational messages
func (l *NoopLogger) Info(message string, fields map[string]any) {}

// Warn logs warning messages
func (l *NoopLogger) Warn(message string, fields map[string]any) {}

// Error logs error messages
func (l *NoopLogger) Error(message string, fields map[string]any) {}

// Flush ensures all buffered logs are written
func (l *NoopLogger) Flush() error {
	return nil
}
