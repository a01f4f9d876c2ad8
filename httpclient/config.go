package httpclient

import (
	"errors"
	"time"

	"github.com/kbukum/voicekit/resilience"
)

// Config configures one provider's Client.
type Config struct {
	// Name labels errors and the circuit breaker, usually the provider key.
	Name    string `yaml:"name" mapstructure:"name"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds the whole exchange including the body read. Default 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	Auth    Auth              `yaml:"-" mapstructure:"-"`
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Optional; nil disables them.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
	RateLimiter    *resilience.RateLimiterConfig    `yaml:"rate_limiter" mapstructure:"rate_limiter"`
}

func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

func (c *Config) Validate() error {
	switch {
	case c.Timeout <= 0:
		return errors.New("httpclient: timeout must be positive")
	case c.RateLimiter != nil && c.RateLimiter.Rate < 0:
		return errors.New("httpclient: rate_limiter.rate must not be negative")
	}
	return nil
}
