package redis

import (
	"context"
	"fmt"

	"github.com/kbukum/voicekit/component"
	"github.com/kbukum/voicekit/logger"
)

var _ component.Describable = (*Component)(nil)

// Component connects the shared rate-limit store on startup. It is only
// registered when redis.enabled is set.
type Component struct {
	cfg    Config
	log    *logger.Logger
	client *Client
}

func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log.WithComponent("redis")}
}

// Client is nil until Start succeeds.
func (c *Component) Client() *Client { return c.client }

func (c *Component) Name() string { return "redis" }

// Start fails unless the server answers PING.
func (c *Component) Start(ctx context.Context) error {
	client, err := New(c.cfg, c.log)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return err
	}
	c.client = client
	c.log.Info("Rate-limit store connected", logger.Fields("addr", c.cfg.Addr))
	return nil
}

func (c *Component) Stop(context.Context) error { return c.client.Close() }

func (c *Component) Health(ctx context.Context) component.Health {
	if c.client == nil {
		return component.Health{Name: "redis", Status: component.StatusUnhealthy, Message: "not started"}
	}
	if err := c.client.Ping(ctx); err != nil {
		// The limiter fails open, so a lost Redis degrades rather than
		// takes the API down.
		return component.Health{Name: "redis", Status: component.StatusDegraded, Message: err.Error()}
	}
	return component.Health{Name: "redis", Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Redis",
		Type:    "redis",
		Details: fmt.Sprintf("%s db=%d prefix=%s", c.cfg.Addr, c.cfg.DB, c.cfg.KeyPrefix),
	}
}
