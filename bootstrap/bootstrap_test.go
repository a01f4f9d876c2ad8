package bootstrap

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/voicekit/component"
	"github.com/kbukum/voicekit/config"
	"github.com/kbukum/voicekit/logger"
)

type testConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
}

func (c *testConfig) ApplyDefaults() { c.ServiceConfig.ApplyDefaults() }
func (c *testConfig) Validate() error { return c.ServiceConfig.Validate() }

type fakeComponent struct {
	name     string
	status   component.HealthStatus
	startErr error
	stopErr  error
	events   *[]string
}

func (f *fakeComponent) Name() string { return f.name }
func (f *fakeComponent) Start(context.Context) error {
	*f.events = append(*f.events, "start:"+f.name)
	return f.startErr
}
func (f *fakeComponent) Stop(context.Context) error {
	*f.events = append(*f.events, "stop:"+f.name)
	return f.stopErr
}
func (f *fakeComponent) Health(context.Context) component.Health {
	return component.Health{Name: f.name, Status: f.status}
}

func newApp(t *testing.T) *App[*testConfig] {
	t.Helper()
	app, err := NewApp(&testConfig{ServiceConfig: config.ServiceConfig{Name: "voicekit", Version: "1.0.0"}},
		WithLogger(logger.NewNop()), WithGracefulTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	app := newApp(t)
	if app.Name != "voicekit" || app.Version != "1.0.0" {
		t.Errorf("unexpected identity %s %s", app.Name, app.Version)
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("expected defaults applied, got %q", app.Cfg.Environment)
	}
	if app.gracefulTimeout != time.Second {
		t.Errorf("expected 1s graceful timeout, got %v", app.gracefulTimeout)
	}

	if _, err := NewApp(&testConfig{}, WithLogger(logger.NewNop())); err == nil {
		t.Error("expected missing name to fail validation")
	}
}

func TestRun_LifecycleOrder(t *testing.T) {
	app := newApp(t)
	var events []string
	for _, name := range []string{"database", "redis"} {
		if err := app.RegisterComponent(&fakeComponent{name: name, status: component.StatusHealthy, events: &events}); err != nil {
			t.Fatal(err)
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		events = append(events, "configure:"+a.Cfg.Name)
		return a.Components.Start(ctx, &fakeComponent{name: "http-server", status: component.StatusHealthy, events: &events})
	})
	app.OnConfigure(func(context.Context, *App[*testConfig]) error { cancel(); return nil })

	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "start:database,start:redis,configure:voicekit,start:http-server,stop:http-server,stop:redis,stop:database"
	if got := strings.Join(events, ","); got != want {
		t.Errorf("unexpected order\n got %s\nwant %s", got, want)
	}
}

func TestRun_StartFailureStopsStarted(t *testing.T) {
	app := newApp(t)
	var events []string
	_ = app.RegisterComponent(&fakeComponent{name: "database", status: component.StatusHealthy, events: &events})
	_ = app.RegisterComponent(&fakeComponent{name: "redis", startErr: errors.New("refused"), events: &events})

	err := app.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "refused") {
		t.Fatalf("expected start error, got %v", err)
	}
	if events[len(events)-1] != "stop:database" {
		t.Errorf("expected started components to be stopped, got %v", events)
	}
}

func TestRun_ConfigureError(t *testing.T) {
	app := newApp(t)
	app.OnConfigure(func(context.Context, *App[*testConfig]) error { return errors.New("no providers") })
	if err := app.Run(context.Background()); err == nil || !strings.Contains(err.Error(), "configure") {
		t.Errorf("expected configure error, got %v", err)
	}
}

func TestReadyCheck(t *testing.T) {
	app := newApp(t)
	var events []string
	_ = app.RegisterComponent(&fakeComponent{name: "database", status: component.StatusHealthy, events: &events})
	if err := app.readyCheck(context.Background()); err != nil {
		t.Errorf("expected ready, got %v", err)
	}
	_ = app.RegisterComponent(&fakeComponent{name: "redis", status: component.StatusDegraded, events: &events})
	err := app.readyCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "redis=degraded") {
		t.Errorf("expected redis to be reported, got %v", err)
	}
}

func TestRun_ReportsStopErrors(t *testing.T) {
	app := newApp(t)
	var events []string
	_ = app.RegisterComponent(&fakeComponent{name: "database", stopErr: errors.New("flush failed"), events: &events})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := app.Run(ctx); err == nil || !strings.Contains(err.Error(), "flush failed") {
		t.Errorf("expected stop error, got %v", err)
	}
}
