package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/voicekit/component"
	"github.com/kbukum/voicekit/logger"
)

// Configure runs once every registered component has started. The
// voicekit command builds its handlers and starts the HTTP server here.
type Configure[C Config] func(ctx context.Context, app *App[C]) error

// App owns the process lifecycle: components start in registration order,
// configure callbacks run, and on SIGINT/SIGTERM everything stops in
// reverse within the graceful timeout.
type App[C Config] struct {
	Name        string
	Version     string
	Environment string
	Cfg         C
	Components  *component.Registry
	Logger      *logger.Logger
	Summary     *logger.Summary

	gracefulTimeout time.Duration
	configure       []Configure[C]
}

// Option customises NewApp.
type Option func(*options)

type options struct {
	log             *logger.Logger
	gracefulTimeout time.Duration
}

// WithLogger replaces the logger built from the logging section.
func WithLogger(l *logger.Logger) Option { return func(o *options) { o.log = l } }

// WithGracefulTimeout bounds shutdown (default 15s).
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *options) { o.gracefulTimeout = d }
}

// NewApp applies defaults to cfg, validates it and sets up logging.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	o := options{gracefulTimeout: 15 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	base := cfg.GetServiceConfig()
	if o.log == nil {
		logger.Init(base.Logging)
		o.log = logger.Default()
	}

	return &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Environment:     base.Environment,
		Cfg:             cfg,
		Components:      component.NewRegistry(o.log),
		Logger:          o.log,
		Summary:         logger.NewSummary(),
		gracefulTimeout: o.gracefulTimeout,
	}, nil
}

// RegisterComponent adds c to the start order.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure appends fn to the callbacks run after startup.
func (a *App[C]) OnConfigure(fn Configure[C]) {
	a.configure = append(a.configure, fn)
}

// Run starts the app and blocks until a signal arrives or ctx is done,
// then shuts down. A failed startup still stops what did start.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.start(ctx); err != nil {
		return errors.Join(err, a.stop())
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()
	a.Logger.Info("shutting down", logger.Fields("cause", context.Cause(ctx).Error()))
	return a.stop()
}

func (a *App[C]) start(ctx context.Context) error {
	a.Logger.Info("starting", logger.Fields("name", a.Name, "version", a.Version, "environment", a.Environment))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("start components: %w", err)
	}
	for _, fn := range a.configure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configure: %w", err)
		}
	}
	if err := a.readyCheck(ctx); err != nil {
		a.Logger.Warn("ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}

	for _, c := range a.Components.All() {
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			a.Summary.AddInfrastructure(desc.Name, "active", desc.Details)
		}
	}
	a.Summary.Log(a.Logger)
	return nil
}

// readyCheck lists every component that is not healthy.
func (a *App[C]) readyCheck(ctx context.Context) error {
	var errs []error
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		msg := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			msg += " (" + h.Message + ")"
		}
		errs = append(errs, errors.New(msg))
	}
	if len(errs) > 0 {
		return fmt.Errorf("unhealthy components: %w", errors.Join(errs...))
	}
	return nil
}

func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()
	err := a.Components.StopAll(ctx)
	a.Logger.Info("shutdown complete")
	return err
}
