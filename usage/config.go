package usage

import (
	"fmt"
	"time"

	"github.com/kbukum/voicekit/store"
)

// Unlimited is the minute limit of plans without a cap.
const Unlimited = -1

// DefaultLimits are the monthly minute allowances per plan.
func DefaultLimits() map[string]int {
	return map[string]int{
		store.PlanFree:       30,
		store.PlanPro:        300,
		store.PlanBusiness:   Unlimited,
		store.PlanEnterprise: Unlimited,
	}
}

// Config configures usage accounting.
type Config struct {
	// Limits maps plan to monthly minutes. Plans missing from the table use
	// the free limit.
	Limits map[string]int `yaml:"minute_limits" mapstructure:"minute_limits"`
	// Timezone decides where calendar days and months begin. Defaults to UTC.
	Timezone string `yaml:"timezone" mapstructure:"timezone"`
}

// ApplyDefaults fills the limit table and timezone.
func (c *Config) ApplyDefaults() {
	if len(c.Limits) == 0 {
		c.Limits = DefaultLimits()
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
}

// Validate checks the timezone and that every limit is Unlimited or non-negative.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("usage.timezone: %w", err)
	}
	if _, ok := c.Limits[store.PlanFree]; !ok {
		return fmt.Errorf("usage.minute_limits must define the %q plan", store.PlanFree)
	}
	for plan, limit := range c.Limits {
		if limit < Unlimited {
			return fmt.Errorf("usage.minute_limits.%s must be -1 or >= 0 (got: %d)", plan, limit)
		}
	}
	return nil
}

// LimitFor returns the monthly minutes for plan.
func (c *Config) LimitFor(plan string) int {
	if limit, ok := c.Limits[plan]; ok {
		return limit
	}
	return c.Limits[store.PlanFree]
}
