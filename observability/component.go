package observability

import (
	"context"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/voicekit/component"
	"github.com/kbukum/voicekit/logger"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component installs the tracer provider on Start and flushes it on Stop.
// A disabled config leaves the global no-op provider in place.
type Component struct {
	cfg TracerConfig
	tp  *sdktrace.TracerProvider
	log *logger.Logger
}

// NewComponent creates the tracing component.
func NewComponent(cfg TracerConfig, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log.WithComponent("tracing")}
}

func (c *Component) Name() string { return "tracing" }

func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		c.log.Info("Tracing disabled")
		return nil
	}
	tp, err := InitTracer(ctx, c.cfg)
	if err != nil {
		return err
	}
	c.tp = tp
	c.log.Info("Tracing enabled", logger.Fields("endpoint", c.cfg.Endpoint, "sample_rate", c.cfg.SampleRate))
	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	if c.tp == nil {
		return nil
	}
	err := c.tp.Shutdown(ctx)
	c.tp = nil
	return err
}

func (c *Component) Health(_ context.Context) component.Health {
	if c.cfg.Enabled && c.tp == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "tracer not installed"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp http %s sample=%.2f", c.cfg.Endpoint, c.cfg.SampleRate)
	}
	return component.Description{Name: "Tracing", Type: "tracing", Details: details}
}

var (
	_ component.Component   = (*MeterComponent)(nil)
	_ component.Describable = (*MeterComponent)(nil)
)

// MeterComponent installs the meter provider on Start and flushes it on
// Stop. Instruments created before Start forward to it once installed.
type MeterComponent struct {
	cfg MeterConfig
	mp  *sdkmetric.MeterProvider
	log *logger.Logger
}

// NewMeterComponent creates the metrics component.
func NewMeterComponent(cfg MeterConfig, log *logger.Logger) *MeterComponent {
	cfg.ApplyDefaults()
	return &MeterComponent{cfg: cfg, log: log.WithComponent("metrics")}
}

func (c *MeterComponent) Name() string { return "metrics" }

func (c *MeterComponent) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		c.log.Info("Metrics disabled")
		return nil
	}
	mp, err := InitMeter(ctx, c.cfg)
	if err != nil {
		return err
	}
	c.mp = mp
	c.log.Info("Metrics enabled", logger.Fields("endpoint", c.cfg.Endpoint, "interval", c.cfg.Interval.String()))
	return nil
}

func (c *MeterComponent) Stop(ctx context.Context) error {
	if c.mp == nil {
		return nil
	}
	err := c.mp.Shutdown(ctx)
	c.mp = nil
	return err
}

func (c *MeterComponent) Health(_ context.Context) component.Health {
	if c.cfg.Enabled && c.mp == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "meter not installed"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *MeterComponent) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp http %s every %s", c.cfg.Endpoint, c.cfg.Interval)
	}
	return component.Description{Name: "Metrics", Type: "metrics", Details: details}
}
