// Command voicekit serves the dictation API: transcription, polishing,
// usage accounting and the per-user libraries that feed them.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/voicekit/api"
	"github.com/kbukum/voicekit/auth"
	"github.com/kbukum/voicekit/auth/jwt"
	"github.com/kbukum/voicekit/bootstrap"
	"github.com/kbukum/voicekit/config"
	"github.com/kbukum/voicekit/database"
	"github.com/kbukum/voicekit/gate"
	"github.com/kbukum/voicekit/logger"
	"github.com/kbukum/voicekit/observability"
	"github.com/kbukum/voicekit/polish"
	"github.com/kbukum/voicekit/redis"
	"github.com/kbukum/voicekit/server"
	"github.com/kbukum/voicekit/server/middleware"
	"github.com/kbukum/voicekit/store"
	"github.com/kbukum/voicekit/transcription"
	"github.com/kbukum/voicekit/usage"
	"github.com/kbukum/voicekit/version"
)

const serviceName = "voicekit"

func main() {
	if err := run(context.Background()); err != nil {
		logger.Error("exiting", logger.Fields(logger.FieldError, err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := &Config{}
	if err := config.LoadConfig(serviceName, cfg, config.WithEnvPrefix(serviceName)); err != nil {
		return err
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Version
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}

	db := database.NewComponent(cfg.Database, app.Logger).WithMigrations(store.Migrate)
	rdb := redis.NewComponent(cfg.Redis, app.Logger)
	if err := app.RegisterComponent(observability.NewComponent(cfg.Tracing, app.Logger)); err != nil {
		return err
	}
	if err := app.RegisterComponent(observability.NewMeterComponent(cfg.Metrics, app.Logger)); err != nil {
		return err
	}
	if err := app.RegisterComponent(db); err != nil {
		return err
	}
	if cfg.Redis.Enabled {
		if err := app.RegisterComponent(rdb); err != nil {
			return err
		}
	}

	app.OnConfigure(func(ctx context.Context, app *bootstrap.App[*Config]) error {
		return configure(ctx, app, db, rdb)
	})
	return app.Run(ctx)
}

// configure builds the HTTP surface once the database is open and starts
// the server last, so it stops first.
func configure(ctx context.Context, app *bootstrap.App[*Config], db *database.Component, rdb *redis.Component) error {
	cfg, log := app.Cfg, app.Logger

	st := store.New(db.DB().Gorm)
	accounting, err := usage.NewService(db.DB().Gorm, cfg.Usage, log)
	if err != nil {
		return err
	}

	metrics, err := observability.NewProviderMetrics(nil)
	if err != nil {
		return err
	}
	transcribers, err := transcriptionProviders(cfg.Providers.Transcription, log, app.Summary, metrics)
	if err != nil {
		return err
	}
	polishers, err := polishingProviders(cfg.Providers.Polishing, log, app.Summary, metrics)
	if err != nil {
		return err
	}
	transcriber := transcription.NewPipeline(transcribers, st.Dictionary, cfg.Providers.Transcription.Default, log)
	polisher := polish.NewPipeline(polishers, polish.StoreRules{Store: st}, st.Styles, cfg.Providers.Polishing.Default, log)

	tokens, err := jwt.NewService(&cfg.Auth.JWT, auth.NewClaims)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	var limiter gate.Limiter = gate.NewMemoryLimiter()
	if cfg.Redis.Enabled {
		limiter = gate.NewRedisLimiter(rdb.Client())
	}

	srv := server.New(cfg.Server, log)
	srv.RegisterDefaultEndpoints(app.Name, app.Components.HealthAll)

	v1 := srv.GinEngine().Group("/api/v1", middleware.Identity(tokens, st.Users))
	api.New(transcriber, polisher, accounting, st, log).Register(v1, api.Gates{
		RateLimit:      gate.RateLimitByPlan(limiter, cfg.RateLimit, log),
		RequireMinutes: gate.RequireMinutes(accounting),
		TrackUsage:     gate.TrackUsage(gate.Metered(accounting, metrics), log),
	})

	srv.TrackRoutes(app.Summary)
	app.Summary.AddInfrastructure("auth", "active", cfg.Auth.Describe())
	log.Info("handlers configured", logger.Fields("transcription_default", cfg.Providers.Transcription.Default, "polishing_default", cfg.Providers.Polishing.Default))

	return app.Components.Start(ctx, server.NewComponent(srv))
}
