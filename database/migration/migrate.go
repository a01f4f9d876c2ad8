// Package migration applies schema changes: versioned SQL files through
// golang-migrate on postgres, or ordered GORM functions through
// MigrationRunner on any dialect.
package migration

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

// ErrDialect is returned by Up for dialects without a golang-migrate driver here.
var ErrDialect = errors.New("migration: versioned files need postgres")

// Up applies the pending NNNN_name.up.sql files found in dir and returns
// the resulting schema version. An up-to-date schema is not an error.
//
// The migrator shares the GORM pool, so it is never closed here.
func Up(db *gorm.DB, fsys fs.FS, dir string) (uint, error) {
	if name := db.Dialector.Name(); name != "postgres" {
		return 0, fmt.Errorf("%w (got %s)", ErrDialect, name)
	}
	pool, err := db.DB()
	if err != nil {
		return 0, err
	}
	target, err := migratepg.WithInstance(pool, &migratepg.Config{})
	if err != nil {
		return 0, fmt.Errorf("migration: postgres driver: %w", err)
	}
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return 0, fmt.Errorf("migration: read %s: %w", dir, err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", target)
	if err != nil {
		return 0, fmt.Errorf("migration: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migration: up: %w", err)
	}
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("migration: version: %w", err)
	case dirty:
		return version, fmt.Errorf("migration: version %d is dirty", version)
	}
	return version, nil
}
