package database

import (
	"context"
	"strings"
	"time"

	gormlogger "gorm.io/gorm/logger"

	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
)

// gormLogger routes GORM's logging through the application logger so SQL
// tracing shows up in the same structured stream as everything else.
type gormLogger struct {
	logger        coreport.Logger
	timeProvider  coreport.TimeProvider
	logLevel      gormlogger.LogLevel
	slowThreshold time.Duration
}

func newGormLogger(logger coreport.Logger, timeProvider coreport.TimeProvider) gormlogger.Interface {
	return &gormLogger{
		logger:        logger,
		timeProvider:  timeProvider,
		logLevel:      gormlogger.Warn,
		slowThreshold: 200 * time.Millisecond,
	}
}

// LogMode returns a copy of the logger with the given level.
func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.logLevel = level
	return &clone
}

func (l *gormLogger) Info(_ context.Context, msg string, _ ...interface{}) {
	if l.logLevel >= gormlogger.Info {
		l.logger.Info(msg, map[string]any{"source": "database"})
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, _ ...interface{}) {
	if l.logLevel >= gormlogger.Warn {
		l.logger.Warn(msg, map[string]any{"source": "database"})
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, _ ...interface{}) {
	if l.logLevel >= gormlogger.Error {
		l.logger.Error(msg, map[string]any{"source": "database"})
	}
}

// Trace logs completed SQL statements, flagging slow queries.
func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.logLevel <= gormlogger.Silent {
		return
	}

	elapsed := l.timeProvider.Since(begin)
	sql, rows := fc()

	fields := map[string]any{
		"elapsed": elapsed.String(),
		"rows":    rows,
		"sql":     sql,
		"source":  "database",
	}
	if queryType := extractQueryType(sql); queryType != "" {
		fields["type"] = queryType
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	switch {
	case err != nil && l.logLevel >= gormlogger.Error:
		l.logger.Error("SQL error", fields)
	case elapsed > l.slowThreshold:
		l.logger.Warn("Slow SQL query", fields)
	case l.logLevel >= gormlogger.Info:
		l.logger.Debug("SQL query", fields)
	}
}

func extractQueryType(sql string) string {
	sqlUpper := strings.ToUpper(strings.TrimSpace(sql))
	for _, prefix := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(sqlUpper, prefix) {
			return prefix
		}
	}
	return ""
}
