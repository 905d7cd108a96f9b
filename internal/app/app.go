package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/slideforge-backend/internal/data/db"
	apphttp "github.com/yungbote/slideforge-backend/internal/http"
	"github.com/yungbote/slideforge-backend/internal/observability"
	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	Metrics  *observability.Metrics
	Server   *apphttp.Server

	dbService    *db.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return NewWithConfig(log, cfg)
}

// NewWithConfig wires the application from an already loaded config.
func NewWithConfig(log *logger.Logger, cfg Config) (*App, error) {
	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		Enabled:     cfg.Observability.OtelEnabled,
		ServiceName: cfg.Observability.ServiceName,
		Environment: cfg.Observability.Environment,
		Version:     cfg.Observability.Version,
	})
	metrics := observability.Init(log, cfg.Observability.MetricsEnabled)

	dbs, err := db.NewService(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbs.AutoMigrateAll(); err != nil {
		_ = dbs.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := dbs.DB()

	clients, err := wireClients(log, cfg, metrics)
	if err != nil {
		_ = dbs.Close()
		log.Sync()
		return nil, err
	}
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients, metrics)
	server := wireHTTP(theDB, log, cfg, serviceset, clients.Hub, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		Metrics:      metrics,
		Server:       server,
		dbService:    dbs,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background pieces: the metrics listener and, with a
// Redis bus, the forwarder that feeds remote messages into the local hub.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Metrics != nil {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.Observability.MetricsAddr)
	}
	if a.Clients.Bus != nil {
		if err := a.Clients.Bus.StartForwarder(ctx, a.Clients.Hub.Broadcast); err != nil {
			return fmt.Errorf("start SSE forwarder: %w", err)
		}
	}
	return nil
}

// Run serves HTTP until ctx is done, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTP.Addr)
		errCh <- a.Server.Run()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.Log.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Clients.Bus != nil {
		if err := a.Clients.Bus.Close(); err != nil {
			a.Log.Warn("SSE bus close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
