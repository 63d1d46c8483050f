package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/config"
)

// Manager owns the GORM connection lifecycle: validated configuration,
// retried initial connect, pool settings, and shutdown.
type Manager struct {
	cfg          *config.DatabaseConfig
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewManager creates a database manager.
func NewManager(cfg *config.DatabaseConfig, logger coreport.Logger, timeProvider coreport.TimeProvider) *Manager {
	return &Manager{
		cfg:          cfg,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// Connect establishes the database connection, retrying the configured
// number of times before giving up.
func (m *Manager) Connect() (*gorm.DB, error) {
	if err := validateConfig(m.cfg); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	m.logger.Info("Connecting to database", map[string]any{
		"driver": m.cfg.Driver,
		"host":   m.cfg.Host,
		"port":   m.cfg.Port,
		"name":   m.cfg.Database,
	})

	var gormDB *gorm.DB
	var err error

	attempts := m.cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			m.logger.Warn("Retrying database connection", map[string]any{
				"attempt": attempt + 1,
				"of":      attempts,
				"delay":   m.cfg.RetryDelay.String(),
			})
			time.Sleep(m.cfg.RetryDelay)
		}

		gormDB, err = gorm.Open(postgres.Open(dsn(m.cfg)), &gorm.Config{
			Logger: newGormLogger(m.logger, m.timeProvider),
			NowFunc: func() time.Time {
				return m.timeProvider.Now()
			},
		})
		if err == nil {
			break
		}

		m.logger.Error("Failed to connect to database", map[string]any{
			"error":   err.Error(),
			"attempt": attempt + 1,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(m.cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(m.cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(m.cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(m.cfg.ConnMaxIdleTime)

	m.logger.Info("Successfully connected to database", map[string]any{
		"host":           m.cfg.Host,
		"name":           m.cfg.Database,
		"max_open_conns": m.cfg.MaxOpenConns,
		"max_idle_conns": m.cfg.MaxIdleConns,
	})

	m.db = gormDB
	return m.db, nil
}

// DB returns the GORM database instance.
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// WithTimeout returns a context bounded by the configured query timeout.
func (m *Manager) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.cfg.QueryTimeout)
}

// Close closes the underlying connection pool.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	m.logger.Info("Closing database connection", nil)

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}

func validateConfig(cfg *config.DatabaseConfig) error {
	if cfg.Host == "" {
		return errors.New("database host is required")
	}
	if cfg.Port == "" {
		return errors.New("database port is required")
	}
	if cfg.Username == "" {
		return errors.New("database username is required")
	}
	if cfg.Database == "" {
		return errors.New("database name is required")
	}
	if cfg.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	if cfg.QueryTimeout <= 0 {
		return errors.New("query timeout must be positive")
	}
	return nil
}

func dsn(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, cfg.SSLMode,
	)
}
