package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/voicekit/logger"
)

// Deployment environments.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

var environments = []string{EnvDevelopment, EnvStaging, EnvProduction}

// ServiceConfig holds the process identity and logging settings. The
// voicekit command embeds it squashed so the keys sit at the file root:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Database database.Config `yaml:"database" mapstructure:"database"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults fills the environment and derives logging defaults from
// it: development logs at debug, production logs JSON without colour.
// Explicit logging values always win.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = EnvDevelopment
	}
	switch c.Environment {
	case EnvDevelopment:
		if c.Logging.Level == "" {
			c.Logging.Level = "debug"
		}
	case EnvProduction:
		if c.Logging.Format == "" {
			c.Logging.Format = "json"
			c.Logging.NoColor = true
		}
	}
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// IsProduction reports whether the process runs in production.
func (c *ServiceConfig) IsProduction() bool { return c.Environment == EnvProduction }

// Validate checks the identity fields and the logging section.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	if !slices.Contains(environments, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", environments, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// GetServiceConfig returns c. Embedding structs inherit it, which is what
// lets bootstrap.App accept any config that embeds ServiceConfig.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig { return c }
