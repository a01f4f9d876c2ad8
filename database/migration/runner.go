package migration

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/kbukum/voicekit/logger"
)

// Migration describes a single GORM-based schema migration.
type Migration struct {
	ID          string
	Description string
	Up          func(*gorm.DB) error
}

// MigrationRunner applies GORM-based migrations tracked in a
// schema_migrations table. It works on any GORM dialect.
type MigrationRunner struct {
	db         *gorm.DB
	log        *logger.Logger
	migrations []Migration
}

// NewMigrationRunner creates a runner bound to the given database and logger.
func NewMigrationRunner(db *gorm.DB, log *logger.Logger) *MigrationRunner {
	return &MigrationRunner{db: db, log: log.WithComponent("migration")}
}

// AddMigration registers a migration to be applied.
func (mr *MigrationRunner) AddMigration(m Migration) *MigrationRunner {
	mr.migrations = append(mr.migrations, m)
	return mr
}

// Run applies all pending migrations in registration order, each in its
// own transaction. It returns the number applied.
func (mr *MigrationRunner) Run(ctx context.Context) (int, error) {
	db := mr.db.WithContext(ctx)
	if err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		id VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`).Error; err != nil {
		return 0, fmt.Errorf("create migrations table: %w", err)
	}

	applied := 0
	for _, m := range mr.migrations {
		var count int64
		if err := db.Table("schema_migrations").Where("id = ?", m.ID).Count(&count).Error; err != nil {
			return applied, fmt.Errorf("check migration %s: %w", m.ID, err)
		}
		if count > 0 {
			mr.log.Debug("Migration already applied", logger.Fields("id", m.ID))
			continue
		}

		mr.log.Info("Applying migration", logger.Fields("id", m.ID, "description", m.Description))
		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Exec("INSERT INTO schema_migrations (id) VALUES (?)", m.ID).Error
		}); err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", m.ID, err)
		}
		applied++
	}
	return applied, nil
}
