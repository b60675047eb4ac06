package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"groenportaal_backend/internal/adapters/storage"
	"groenportaal_backend/internal/auth"
	"groenportaal_backend/internal/calculatie"
	"groenportaal_backend/internal/email"
	"groenportaal_backend/internal/events"
	"groenportaal_backend/internal/facturen"
	apphttp "groenportaal_backend/internal/http"
	"groenportaal_backend/internal/http/router"
	"groenportaal_backend/internal/notification"
	"groenportaal_backend/internal/offertes"
	"groenportaal_backend/internal/projecten"
	"groenportaal_backend/internal/rapportage"
	"groenportaal_backend/platform/config"
	"groenportaal_backend/platform/db"
	"groenportaal_backend/platform/logger"
	"groenportaal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()
	sender := email.NewSender(cfg)

	// Object storage for project photos; optional.
	var fotoOpslag *storage.Client
	if cfg.IsMinIOEnabled() {
		fotoOpslag, err = storage.New(ctx, cfg, log)
		if err != nil {
			log.Error("failed to initialize storage", "error", err)
			panic("failed to initialize storage: " + err.Error())
		}
		log.Info("storage initialized", "bucket", cfg.GetMinioBucketProjectPhotos())
	} else {
		log.Warn("MinIO not configured; project photos disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	notifier := notification.New(sender, log)
	notifier.RegisterEventHandlers(eventBus)

	authModule := auth.NewModule(pool, cfg, log, val)
	calculatieModule := calculatie.NewModule(pool, log, val)
	offertesModule := offertes.NewModule(pool, calculatieModule.Service(), eventBus, log, val)
	projectenModule := projecten.NewModule(pool, offertesModule.Service(), calculatieModule.Service(), fotoOpslag, eventBus, log, val)
	facturenModule := facturen.NewModule(pool, projectenModule.Service(), authModule.Repository(), eventBus, log, val)
	rapportageModule := rapportage.NewModule(pool, log)

	// Load the system normuren catalog so fresh deployments can calculate.
	if err := calculatieModule.Service().SeedSystemCatalog(ctx, cfg.GetNormurenSeedPath()); err != nil {
		log.Error("failed to seed normuren catalog", "error", err)
		panic("failed to seed normuren catalog: " + err.Error())
	}
	log.Info("normuren catalog seeded", "path", cfg.GetNormurenSeedPath())

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			calculatieModule,
			offertesModule,
			projectenModule,
			facturenModule,
			rapportageModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
