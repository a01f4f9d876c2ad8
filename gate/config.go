package gate

import (
	"fmt"
	"maps"

	"github.com/kbukum/voicekit/store"
)

// DefaultRateLimits are requests per minute per plan.
func DefaultRateLimits() map[string]int {
	return map[string]int{
		store.PlanFree:       10,
		store.PlanPro:        60,
		store.PlanBusiness:   120,
		store.PlanEnterprise: 300,
	}
}

// Config configures the per-plan rate limit.
type Config struct {
	// PerPlan maps plan to requests per minute. Unknown plans use the free entry.
	PerPlan map[string]int `yaml:"per_plan" mapstructure:"per_plan"`
}

// ApplyDefaults fills every plan the table leaves out with its default
// limit. The configured map is copied, not modified.
func (c *Config) ApplyDefaults() {
	merged := DefaultRateLimits()
	maps.Copy(merged, c.PerPlan)
	c.PerPlan = merged
}

// Validate requires a free entry and positive limits.
func (c *Config) Validate() error {
	if _, ok := c.PerPlan[store.PlanFree]; !ok {
		return fmt.Errorf("rate_limit.per_plan must define the %q plan", store.PlanFree)
	}
	for plan, n := range c.PerPlan {
		if n <= 0 {
			return fmt.Errorf("rate_limit.per_plan.%s must be > 0 (got: %d)", plan, n)
		}
	}
	return nil
}

// LimitFor returns the requests per minute for plan.
func (c *Config) LimitFor(plan string) int {
	if n, ok := c.PerPlan[plan]; ok {
		return n
	}
	return c.PerPlan[store.PlanFree]
}
