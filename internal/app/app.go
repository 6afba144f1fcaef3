package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/hwtrack/internal/config"
	"github.com/MrSnakeDoc/hwtrack/internal/domain"
	"github.com/MrSnakeDoc/hwtrack/internal/httpserver"
	"github.com/MrSnakeDoc/hwtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/hwtrack/internal/inventory"
	"github.com/MrSnakeDoc/hwtrack/internal/logger"
	"github.com/MrSnakeDoc/hwtrack/internal/metrics"
	"github.com/MrSnakeDoc/hwtrack/internal/scheduler"
	"github.com/MrSnakeDoc/hwtrack/internal/sources/seed"
	"github.com/MrSnakeDoc/hwtrack/internal/storage"
	"github.com/MrSnakeDoc/hwtrack/internal/version"
)

type App struct {
	cfg    *config.Config
	logger logger.Logger
	server *httpserver.Server
	record storage.Record
	store  *inventory.Store
	digest *scheduler.ExpiryDigest
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Open storage early - fail fast if unavailable
	loggerClient.Info("opening inventory storage",
		logger.String("driver", cfg.StorageDriver),
		logger.String("record", cfg.RecordKey))
	record, err := storage.Open(cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open storage: %v", err)
		os.Exit(1)
	}

	seedAssets := seed.Builtin()
	if cfg.SeedFile != "" {
		seedAssets, err = seed.FromFile(cfg.SeedFile, uuid.NewString)
		if err != nil {
			loggerClient.Errorf("Failed to load seed file %s: %v", cfg.SeedFile, err)
			os.Exit(1)
		}
		loggerClient.Info("seed file loaded",
			logger.String("file", cfg.SeedFile),
			logger.Int("assets", len(seedAssets)))
	}

	m := metrics.New()
	store := inventory.New(record, inventory.Options{
		Policy:          cfg.Policy(),
		Seed:            seedAssets,
		Categories:      cfg.Categories,
		RequireUnitCost: cfg.RequireUnitCost,
		Logger:          loggerClient,
		Metrics:         m,
	})
	store.Subscribe(func(assets []domain.Asset) {
		s := domain.Aggregate(assets)
		loggerClient.Debug("inventory changed",
			logger.Int("total", s.Total),
			logger.Int("warning", s.Warning),
			logger.Int("critical", s.Critical))
	})

	digest := scheduler.NewExpiryDigest(store, loggerClient, cfg.DigestInterval, cfg.DigestHorizon)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:             loggerClient,
		StartTime:          time.Now(),
		Version:            version.Version,
		Commit:             version.Commit,
		BuildDate:          version.BuildDate,
		GoVersion:          version.GoVersion,
		TimeNow:            time.Now,
		AllowedHosts:       cfg.AllowedHosts,
		AllowedCIDRS:       cfg.AllowedCIDRS,
		TrustProxy:         cfg.TrustProxy,
		RateLimitBurst:     cfg.RateLimitBurst,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Store:              store,
		Metrics:            m,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:    cfg,
		logger: loggerClient,
		server: server,
		record: record,
		store:  store,
		digest: digest,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting hwtrack %s on %s", version.String(), a.cfg.ListenPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load-or-seed before serving; an unreadable record is retried on first use.
	if assets, ready := a.store.Load(ctx, time.Now()); ready {
		a.logger.Info("inventory ready",
			logger.Int("assets", len(assets)),
			logger.Int("near_expiry_days", a.cfg.NearExpiryDays))
	} else {
		a.logger.Warn("inventory not loaded yet, serving with readiness down")
	}

	a.digest.Start(ctx)
	if a.cfg.DigestInterval > 0 {
		a.logger.Info("expiry digest started",
			logger.Duration("interval", a.cfg.DigestInterval),
			logger.Int("horizon_days", a.cfg.DigestHorizon))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.digest.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if err := a.record.Close(); err != nil {
		a.logger.Warnf("failed to close %s storage: %v", a.record.Driver(), err)
	} else {
		a.logger.Info("✅ Storage closed cleanly", logger.String("driver", a.record.Driver()))
	}

	_ = a.logger.Sync()
	a.logger.Info("✅ hwtrack stopped cleanly")
	return nil
}
