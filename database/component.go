package database

import (
	"context"
	"fmt"

	"github.com/kbukum/voicekit/component"
	"github.com/kbukum/voicekit/logger"
)

// MigrateFunc brings the schema up to date on a freshly opened DB.
type MigrateFunc func(ctx context.Context, db *DB) error

// Component opens the pool on Start and closes it on Stop.
type Component struct {
	cfg     Config
	log     *logger.Logger
	migrate MigrateFunc
	db      *DB
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log.WithComponent("database")}
}

// WithMigrations runs fn after connecting when AutoMigrate is set.
func (c *Component) WithMigrations(fn MigrateFunc) *Component {
	c.migrate = fn
	return c
}

// DB is nil until Start succeeds.
func (c *Component) DB() *DB { return c.db }

func (c *Component) Name() string { return "database" }

func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		c.log.Info("Database disabled")
		return nil
	}
	db, err := Open(ctx, c.cfg, c.log)
	if err != nil {
		return err
	}
	c.db = db
	if c.cfg.AutoMigrate && c.migrate != nil {
		if err := c.migrate(ctx, db); err != nil {
			return fmt.Errorf("database: migrate: %w", err)
		}
	}
	return nil
}

func (c *Component) Stop(context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.db == nil:
		h.Status, h.Message = component.StatusUnhealthy, "not connected"
	default:
		if err := c.db.Ping(ctx); err != nil {
			h.Status, h.Message = component.StatusUnhealthy, "ping failed: "+err.Error()
		}
	}
	return h
}

func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("driver=%s pool=%d/%d slow=%s", c.cfg.Driver, c.cfg.MaxOpenConns, c.cfg.MaxIdleConns, c.cfg.SlowQueryThreshold)
	if c.cfg.AutoMigrate {
		details += " migrate=on"
	}
	return component.Description{Name: "Database", Type: "database", Details: details}
}
