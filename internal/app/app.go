package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/practicefeed-backend/internal/data/db"
	"github.com/yungbote/practicefeed-backend/internal/importer"
	"github.com/yungbote/practicefeed-backend/internal/observability"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics

	dbService *db.Service
}

// New connects storage and wires repos and services. The HTTP surface and
// background jobs are only built by Serve.
func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	dbService, err := db.NewService(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := dbService.AutoMigrateAll(); err != nil {
			_ = dbService.Close()
			log.Sync()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	metrics := observability.Init(log, cfg.MetricsEnabled)
	theDB := dbService.DB()
	reposet := wireRepos(theDB, log, cfg, clients)
	serviceset := wireServices(theDB, log, cfg, reposet, clients, metrics)

	return &App{
		Log:       log,
		DB:        theDB,
		Cfg:       cfg,
		Clients:   clients,
		Repos:     reposet,
		Services:  serviceset,
		Metrics:   metrics,
		dbService: dbService,
	}, nil
}

func (a *App) Migrate() error {
	if err := a.dbService.AutoMigrateAll(); err != nil {
		return err
	}
	a.Log.Info("Migrations applied", "driver", a.dbService.Driver())
	return nil
}

// Import upserts every valid row of a question bank file. Invalid rows are
// reported in the result and skipped.
func (a *App) Import(ctx context.Context, path, sheet string) (*importer.Result, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return a.importFrom(ctx, path, sheet, f)
}

func (a *App) importFrom(ctx context.Context, path, sheet string, r io.Reader) (*importer.Result, int, error) {
	res, err := importer.ReadFile(path, sheet, r)
	if err != nil {
		return nil, 0, err
	}
	for _, msg := range res.Errors {
		a.Log.Warn("Skipped question row", "file", path, "reason", msg)
	}
	n, err := a.Services.Question.Import(ctx, res.Questions)
	if err != nil {
		return res, 0, err
	}
	ids := make([]string, 0, len(res.Questions))
	for _, q := range res.Questions {
		ids = append(ids, q.ID)
	}
	a.Services.Engagement.Invalidate(ctx, ids...)
	return res, n, nil
}

// Serve runs the HTTP server and background jobs until ctx is cancelled,
// then drains in-flight requests.
func (a *App) Serve(ctx context.Context) error {
	shutdownOtel := observability.InitOTel(ctx, a.Log, observability.OtelConfig{
		Enabled:     a.Cfg.OtelEnabled,
		ServiceName: a.Cfg.OtelServiceName,
		Environment: a.Cfg.Environment,
		Version:     a.Cfg.Version,
		Endpoint:    a.Cfg.OtelEndpoint,
		Headers:     observability.ParseHeaders(a.Cfg.OtelHeaders),
		Insecure:    a.Cfg.OtelInsecure,
		SampleRatio: a.Cfg.OtelSampleRatio,
	})

	middleware, err := wireMiddleware(a.Log, a.Cfg)
	if err != nil {
		return err
	}
	handlers := wireHandlers(a.Log, a.Services, a.Metrics)
	server := wireServer(a.Log, a.Cfg, handlers, middleware, a.Metrics)

	sched, err := wireJobs(a.Log, a.Cfg, a.Repos, a.Services)
	if err != nil {
		return err
	}

	bgCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.Metrics.StartDBCollector(bgCtx, a.Log, a.DB, 0)
	a.Metrics.StartRedisCollector(bgCtx, a.Log, a.Cfg.RedisAddr, 0)
	if sched != nil {
		sched.Start()
		defer sched.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", "port", a.Cfg.Port, "feed_scan_mode", a.Cfg.FeedScanMode)
		errCh <- server.Run(":" + a.Cfg.Port)
	}()

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
		a.Log.Info("Shutting down")
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("http shutdown: %w", err))
	}
	if err := shutdownOtel(shutdownCtx); err != nil {
		a.Log.Warn("otel shutdown failed", "error", err)
	}
	return runErr
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
