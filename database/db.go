// Package database opens the GORM connection behind the stores: driver
// selection, pooled connections, retrying connect, a zerolog query log and
// a lifecycle component.
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kbukum/voicekit/logger"
)

// DB is an open connection pool.
type DB struct {
	Gorm *gorm.DB
	log  *logger.Logger

	closeOnce sync.Once
	closeErr  error
}

// Dialector picks the GORM dialector for cfg.Driver.
func Dialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return postgres.Open(cfg.DSN), nil
	case DriverSQLite:
		return sqlite.Open(cfg.DSN), nil
	}
	return nil, fmt.Errorf("database: unsupported driver %q", cfg.Driver)
}

// Open connects and pings, retrying up to cfg.MaxRetries times with a
// linearly growing pause. Driver errors are translated so duplicate keys
// surface as gorm.ErrDuplicatedKey.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	gcfg := &gorm.Config{
		Logger:         newQueryLogger(log, cfg),
		TranslateError: true,
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("database: connect canceled: %w", err)
		}
		gdb, err := connect(ctx, dialector, gcfg, cfg)
		if err == nil {
			log.Info("Database connected", logger.Fields("driver", cfg.Driver, "attempt", attempt))
			return &DB{Gorm: gdb, log: log}, nil
		}
		if attempt == cfg.MaxRetries {
			return nil, fmt.Errorf("database: connect failed after %d attempts: %w", attempt, err)
		}

		pause := time.Duration(attempt) * time.Second
		log.WithError(err).Warn("Database connect failed, retrying", logger.Fields(
			"attempt", attempt, "pause", pause.String()))
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("database: connect canceled: %w", ctx.Err())
		case <-time.After(pause):
		}
	}
}

func connect(ctx context.Context, dialector gorm.Dialector, gcfg *gorm.Config, cfg Config) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, err
	}
	pool, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	pool.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return gdb, nil
}

// Ping checks that the pool can reach the server.
func (d *DB) Ping(ctx context.Context) error {
	pool, err := d.Gorm.DB()
	if err != nil {
		return err
	}
	return pool.PingContext(ctx)
}

// Close releases the pool. Later calls return the first result.
func (d *DB) Close() error {
	d.closeOnce.Do(func() {
		pool, err := d.Gorm.DB()
		if err != nil {
			d.closeErr = err
			return
		}
		d.log.Info("Database connection closed")
		d.closeErr = pool.Close()
	})
	return d.closeErr
}

// Logger returns the logger the pool was opened with.
func (d *DB) Logger() *logger.Logger { return d.log }
