package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/db"
	"github.com/yungbote/roadmap-backend/internal/http"
	"github.com/yungbote/roadmap-backend/internal/observability"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/realtime"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics
	SSEHub   *realtime.SSEHub
	Server   *http.Server

	otelShutdown func(context.Context) error
}

// New opens and migrates the configured database, then wires everything on top of it.
func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	theDB, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(theDB, log); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return NewWithDB(ctx, log, cfg, theDB)
}

// NewWithDB wires the app over an already migrated database.
func NewWithDB(ctx context.Context, log *logger.Logger, cfg Config, theDB *gorm.DB) (*App, error) {
	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = otelShutdown(ctx)
		return nil, err
	}

	metrics := observability.NewMetrics()
	hub := realtime.NewSSEHub(log)
	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, clients, hub, metrics)
	if err != nil {
		clients.Close()
		_ = otelShutdown(ctx)
		return nil, err
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if _, err := serviceset.User.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			clients.Close()
			_ = otelShutdown(ctx)
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	handlerset := wireHandlers(theDB, log, serviceset, hub, metrics)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(cfg, log, metrics, handlerset, middleware)
	server.OnShutdown(hub.CloseAll)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		SSEHub:       hub,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP (and the redis forwarder when configured) until ctx is cancelled,
// then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	// the forwarder goroutine stops with gctx
	if a.Clients.SSEBus != nil {
		if err := a.Clients.SSEBus.StartForwarder(gctx, a.SSEHub.Broadcast); err != nil {
			return fmt.Errorf("sse forwarder: %w", err)
		}
	}

	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.Addr())
		return a.Server.Run()
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Log.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.Server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	a.Log.Sync()
}
