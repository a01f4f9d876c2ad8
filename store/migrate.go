package store

import (
	"context"
	"embed"

	"gorm.io/gorm"

	"github.com/kbukum/voicekit/database"
	"github.com/kbukum/voicekit/database/migration"
	"github.com/kbukum/voicekit/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the schema up to date. Postgres runs the versioned SQL
// files; other dialects are auto-migrated from the models.
func Migrate(ctx context.Context, db *database.DB) error {
	if db.Gorm.Dialector.Name() == "postgres" {
		version, err := migration.Up(db.Gorm, migrationsFS, "migrations")
		if err == nil {
			db.Logger().Info("Schema up to date", logger.Fields("version", version))
		}
		return err
	}

	_, err := migration.NewMigrationRunner(db.Gorm, db.Logger()).
		AddMigration(migration.Migration{
			ID:          "0001_core_schema",
			Description: "users, dictionaries, rules, styles, usage and history",
			Up:          func(tx *gorm.DB) error { return tx.AutoMigrate(Models()...) },
		}).
		AddMigration(migration.Migration{
			ID:          "0002_user_default_style",
			Description: "users.default_style",
			Up:          func(tx *gorm.DB) error { return tx.AutoMigrate(&User{}) },
		}).
		Run(ctx)
	return err
}
