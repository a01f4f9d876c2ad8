package auth

import (
	"fmt"

	"github.com/kbukum/voicekit/auth/jwt"
)

// Config configures bearer token verification.
type Config struct {
	JWT jwt.Config `yaml:"jwt" mapstructure:"jwt"`
}

// ApplyDefaults fills the JWT defaults.
func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
}

// Validate checks the JWT section.
func (c *Config) Validate() error {
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	return nil
}

// Describe returns a one-liner for the startup summary.
func (c *Config) Describe() string {
	line := fmt.Sprintf("JWT(%s)", c.JWT.Method)
	if c.JWT.Issuer != "" {
		line += " iss=" + c.JWT.Issuer
	}
	return line
}
