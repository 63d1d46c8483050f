package core

// Logger defines structured logging operations for the application
type Logger interface {
	// Debug logs detailed diagnostic messages
	Debug(message string, fields map[string]any)
	// Info logs general operational information
	Info(message string, fields map[string]any)
	// Warn logs warnings
	Warn(message string, fields map[string]any)
	// Error logs error messages
	Error(message string, fields map[string]any)
	// Flush ensures all buffered logs are written to their destination
	Flush() error
}
