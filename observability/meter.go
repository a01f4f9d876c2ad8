package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// ServiceName and ServiceVersion are filled from the service config when empty.
	ServiceName    string `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	Environment    string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure bool   `yaml:"insecure" mapstructure:"insecure"`
	// Interval is the export period.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills zero-valued fields.
func (c *MeterConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate checks the export interval.
func (c *MeterConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Interval < time.Second {
		return fmt.Errorf("metrics.interval must be at least 1s (got: %s)", c.Interval)
	}
	return nil
}

// InitMeter installs a global MeterProvider exporting over OTLP HTTP.
// The returned provider must be shut down on exit to flush pending points.
func InitMeter(ctx context.Context, cfg MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}
	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.Interval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// ProviderMetrics holds the instruments recorded around provider calls and
// metered requests.
type ProviderMetrics struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
	minutes  metric.Float64Counter
}

// NewProviderMetrics creates the instruments on meter. A nil meter uses the
// global provider, which is a no-op until InitMeter runs.
func NewProviderMetrics(meter metric.Meter) (*ProviderMetrics, error) {
	if meter == nil {
		meter = Meter(instrumentation)
	}
	calls, err := meter.Int64Counter("provider.calls",
		metric.WithDescription("Provider calls by kind, provider and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating provider.calls counter: %w", err)
	}
	duration, err := meter.Float64Histogram("provider.duration",
		metric.WithDescription("Duration of provider calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating provider.duration histogram: %w", err)
	}
	minutes, err := meter.Float64Counter("usage.minutes",
		metric.WithDescription("Audio minutes tracked against user quotas"),
		metric.WithUnit("min"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating usage.minutes counter: %w", err)
	}
	return &ProviderMetrics{calls: calls, duration: duration, minutes: minutes}, nil
}

// RecordCall records one provider call. status is "ok" or "error".
func (m *ProviderMetrics) RecordCall(ctx context.Context, kind, provider, status string, d time.Duration) {
	m.calls.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrKind, kind),
		attribute.String(AttrProvider, provider),
		attribute.String("status", status),
	))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String(AttrKind, kind),
		attribute.String(AttrProvider, provider),
	))
}

// RecordMinutes adds tracked minutes for plan.
func (m *ProviderMetrics) RecordMinutes(ctx context.Context, plan string, minutes float64) {
	m.minutes.Add(ctx, minutes, metric.WithAttributes(attribute.String(AttrPlan, plan)))
}
