package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	entryservice "patchbay/contexts/catalog/entry-service"
	catalogpostgres "patchbay/contexts/catalog/entry-service/adapters/postgres"
	comparisonengine "patchbay/contexts/comparison/comparison-engine"
	comparisonpostgres "patchbay/contexts/comparison/comparison-engine/adapters/postgres"
	workerapp "patchbay/contexts/comparison/comparison-engine/application/workers"
	"patchbay/internal/platform/config"
	"patchbay/internal/platform/db"
	"patchbay/internal/platform/httpserver"
	"patchbay/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  workerapp.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, db.Options{
		MaxOpenConns: cfg.PostgresMaxOpenConns,
		MaxIdleConns: cfg.PostgresMaxIdleConns,
	})
	if err != nil {
		return nil, err
	}

	catalogRepo := catalogpostgres.NewRepository(pg.DB, logger)
	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := catalogRepo.EnsureDefaultLicenses(seedCtx); err != nil {
		_ = pg.Close()
		return nil, err
	}

	catalogModule := entryservice.NewModule(entryservice.Dependencies{
		Entries:  catalogRepo,
		Tags:     catalogRepo,
		Authors:  catalogRepo,
		Licenses: catalogRepo,
		Assets:   catalogRepo,
		Clock:    catalogpostgres.SystemClock{},
		IDGen:    catalogpostgres.UUIDGenerator{},
		Logger:   logger,
	})

	comparisonRepo := comparisonpostgres.NewRepository(pg.DB, logger)
	comparisonModule := comparisonengine.NewModule(comparisonengine.Dependencies{
		Answers:   comparisonRepo,
		Questions: comparisonRepo,
		Entries:   comparisonRepo,
		Rand:      nil, // nil selects the locked global source
		Clock:     comparisonpostgres.SystemClock{},
		IDGen:     comparisonpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	server := httpserver.New(catalogModule, comparisonModule, logger, httpserver.Options{
		Addr:        normalizeAddr(cfg.HTTPPort),
		BaseURL:     cfg.BaseURL,
		UploadToken: cfg.UploadToken,
	})
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, db.Options{
		MaxOpenConns: cfg.PostgresMaxOpenConns,
		MaxIdleConns: cfg.PostgresMaxIdleConns,
	})
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := comparisonpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     comparisonpostgres.SystemClock{},
			BatchSize: cfg.OutboxRelayBatch,
			Logger:    logger,
		},
		pollInterval: cfg.OutboxRelayInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
