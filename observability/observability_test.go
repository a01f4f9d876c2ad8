package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/voicekit/component"
	"github.com/kbukum/voicekit/logger"
)

func newRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp, err := installProvider(TracerConfig{ServiceName: "voicekit", SampleRate: 1}, sdktrace.WithSpanProcessor(rec))
	if err != nil {
		t.Fatalf("installProvider: %v", err)
	}
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return rec
}

func TestTracerConfig_Defaults(t *testing.T) {
	cfg := TracerConfig{}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected default endpoint, got %q", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1.0, got %v", cfg.SampleRate)
	}
}

func TestTracerConfig_Validate(t *testing.T) {
	if err := (&TracerConfig{Enabled: true, SampleRate: 1.5}).Validate(); err == nil {
		t.Error("expected error for sample rate above 1")
	}
	if err := (&TracerConfig{Enabled: false, SampleRate: 1.5}).Validate(); err != nil {
		t.Errorf("disabled tracing should not validate sample rate: %v", err)
	}
	if err := (&TracerConfig{Enabled: true, SampleRate: 0.25}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStartSpan_Recorded(t *testing.T) {
	rec := newRecorder(t)

	ctx, span := StartSpan(context.Background(), "transcription.groq")
	SetSpanAttribute(ctx, AttrProvider, "groq")
	SetSpanAttribute(ctx, AttrUserID, uint(7))
	SetSpanError(ctx, errors.New("boom"))
	span.End()

	ended := rec.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	s := ended[0]
	if s.Name() != "transcription.groq" {
		t.Errorf("unexpected span name %q", s.Name())
	}
	var found bool
	for _, kv := range s.Attributes() {
		if string(kv.Key) == AttrProvider && kv.Value.AsString() == "groq" {
			found = true
		}
	}
	if !found {
		t.Error("expected provider attribute on span")
	}
	if len(s.Events()) == 0 {
		t.Error("expected recorded error event")
	}
	if s.Status().Code != codes.Error || s.Status().Description != "boom" {
		t.Errorf("expected error status, got %+v", s.Status())
	}
}

func TestSetSpanAttribute_NoSpan(t *testing.T) {
	SetSpanAttribute(context.Background(), "key", "value")
	SetSpanError(context.Background(), errors.New("ignored"))
}

func TestSampler(t *testing.T) {
	if sampler(1).Description() != sdktrace.AlwaysSample().Description() {
		t.Error("expected always sample at rate 1")
	}
	if sampler(0).Description() != sdktrace.NeverSample().Description() {
		t.Error("expected never sample at rate 0")
	}
}

func TestComponent_Disabled(t *testing.T) {
	c := NewComponent(TracerConfig{}, logger.NewNop())
	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("disabled tracing must report healthy, got %s", h.Status)
	}
	if d := c.Describe(); d.Details != "disabled" {
		t.Errorf("unexpected description %q", d.Details)
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestProviderMetrics(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(ctx) })

	m, err := NewProviderMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewProviderMetrics: %v", err)
	}
	m.RecordCall(ctx, "transcription", "groq", "ok", 2*time.Second)
	m.RecordCall(ctx, "transcription", "groq", "error", time.Second)
	m.RecordMinutes(ctx, "pro", 1.5)
	m.RecordMinutes(ctx, "pro", 0.5)

	data := collect(t, reader)

	calls, ok := data["provider.calls"].(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("missing provider.calls, got %v", data)
	}
	var total int64
	for _, dp := range calls.DataPoints {
		total += dp.Value
	}
	if total != 2 || len(calls.DataPoints) != 2 {
		t.Errorf("expected 2 calls over 2 status series, got %d over %d", total, len(calls.DataPoints))
	}

	hist, ok := data["provider.duration"].(metricdata.Histogram[float64])
	if !ok || len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 2 {
		t.Errorf("expected one duration series with 2 samples, got %+v", data["provider.duration"])
	}

	minutes, ok := data["usage.minutes"].(metricdata.Sum[float64])
	if !ok || len(minutes.DataPoints) != 1 || minutes.DataPoints[0].Value != 2 {
		t.Errorf("expected 2 pro minutes, got %+v", data["usage.minutes"])
	}
}

func TestMeterConfig(t *testing.T) {
	cfg := MeterConfig{}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.Interval != 15*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled config must validate, got %v", err)
	}
	cfg.Enabled, cfg.Interval = true, 100*time.Millisecond
	if err := cfg.Validate(); err == nil {
		t.Error("expected sub-second interval to fail")
	}
}

func TestMeterComponent_Disabled(t *testing.T) {
	c := NewMeterComponent(MeterConfig{}, logger.NewNop())
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if h := c.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %+v", h)
	}
	if d := c.Describe(); d.Details != "disabled" {
		t.Errorf("unexpected description %+v", d)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
}
