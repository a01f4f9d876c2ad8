package database

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var queryLogLevels = []string{"silent", "error", "warn", "info"}

// Config is the database section. Durations accept Go syntax ("1h", "200ms").
type Config struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Driver  string `yaml:"driver" mapstructure:"driver"`
	// DSN is a connection string, or a file path or ":memory:" for sqlite.
	DSN string `yaml:"dsn" mapstructure:"dsn"`

	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`

	// MaxRetries bounds connection attempts; attempt n waits n seconds first.
	MaxRetries  int  `yaml:"max_retries" mapstructure:"max_retries"`
	AutoMigrate bool `yaml:"auto_migrate" mapstructure:"auto_migrate"`

	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold" mapstructure:"slow_query_threshold"`
	// LogLevel gates the query log: silent, error, warn or info.
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

func (c *Config) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = DriverPostgres
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 25
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 5
	}
	if c.Driver == DriverSQLite && c.DSN == ":memory:" {
		// each pooled connection would get its own empty database
		c.MaxOpenConns, c.MaxIdleConns = 1, 1
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = time.Hour
	}
	if c.ConnMaxIdleTime == 0 {
		c.ConnMaxIdleTime = 5 * time.Minute
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 5
	}
	if c.SlowQueryThreshold == 0 {
		c.SlowQueryThreshold = 200 * time.Millisecond
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

// Validate only checks an enabled section.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch {
	case c.Driver != DriverPostgres && c.Driver != DriverSQLite:
		return fmt.Errorf("driver must be %s or %s (got: %q)", DriverPostgres, DriverSQLite, c.Driver)
	case c.DSN == "":
		return errors.New("dsn is required")
	case c.MaxIdleConns > c.MaxOpenConns:
		return fmt.Errorf("max_idle_conns (%d) must be <= max_open_conns (%d)", c.MaxIdleConns, c.MaxOpenConns)
	case c.ConnMaxLifetime < 0 || c.ConnMaxIdleTime < 0 || c.SlowQueryThreshold < 0:
		return errors.New("durations must not be negative")
	case !slices.Contains(queryLogLevels, c.LogLevel):
		return fmt.Errorf("log_level must be one of %v (got: %q)", queryLogLevels, c.LogLevel)
	}
	return nil
}
