package migration

import (
	"context"

	"gorm.io/gorm"

	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/model"
)

// Manager runs schema migrations. The schema is driven entirely by the
// model definitions; GORM's AutoMigrate keeps tables, columns and indexes
// in sync with them.
type Manager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewManager creates a migration manager.
func NewManager(db *gorm.DB, logger coreport.Logger) *Manager {
	return &Manager{db: db, logger: logger}
}

// MigrateAll migrates every table the gateway persists.
func (m *Manager) MigrateAll(ctx context.Context) error {
	m.logger.Info("Starting database migrations", nil)

	models := []any{
		&model.Payment{},
		&model.B2CTransaction{},
		&model.B2BTransaction{},
		&model.BalanceQuery{},
		&model.StatusQuery{},
		&model.Reversal{},
		&model.QRCode{},
	}

	for _, mdl := range models {
		if err := m.db.WithContext(ctx).AutoMigrate(mdl); err != nil {
			m.logger.Error("Failed to migrate model", map[string]any{
				"error": err.Error(),
			})
			return err
		}
	}

	m.logger.Info("Database migrations completed", map[string]any{
		"tables": len(models),
	})
	return nil
}
