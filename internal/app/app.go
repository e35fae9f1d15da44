// Package app provides the main application lifecycle management for the
// publisher service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/flavor-emperor/publisher/internal/api"
	"github.com/flavor-emperor/publisher/internal/config"
	"github.com/flavor-emperor/publisher/internal/database"
	"github.com/flavor-emperor/publisher/internal/generator"
	"github.com/flavor-emperor/publisher/internal/hashnode"
	"github.com/flavor-emperor/publisher/internal/images"
	"github.com/flavor-emperor/publisher/internal/logger"
	"github.com/flavor-emperor/publisher/internal/metrics"
	"github.com/flavor-emperor/publisher/internal/pipeline"
	"github.com/flavor-emperor/publisher/internal/storage"
)

const (
	// DefaultShutdownTimeout is the default timeout for graceful shutdown.
	DefaultShutdownTimeout = 30 * time.Second

	redisPingTimeout = 5 * time.Second
)

// App represents the publisher application with all its dependencies.
type App struct {
	config      *config.Config
	logger      logger.Logger
	db          *sqlx.DB
	redisClient *redis.Client
	httpServer  *http.Server
	version     string
}

// Options contains configuration for creating a new App.
type Options struct {
	Config  *config.Config
	Version string
}

// New creates a new App instance with all dependencies initialized.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	appLogger, err := logger.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	appLogger = appLogger.With(
		logger.String("service", "publisher"),
		logger.String("version", opts.Version),
	)

	db, err := database.NewPostgresConnection(&cfg.Database)
	if err != nil {
		_ = appLogger.Sync()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if migrateErr := database.RunMigrations(db, appLogger); migrateErr != nil {
		_ = db.Close()
		_ = appLogger.Sync()
		return nil, fmt.Errorf("run migrations: %w", migrateErr)
	}

	repo := database.NewPostRepository(db)

	// Metrics are optional; without a Redis address outcomes are simply
	// not tracked.
	var tracker metrics.Tracker = metrics.NopTracker{}
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if pingErr := redisClient.Ping(ctx).Err(); pingErr != nil {
			_ = db.Close()
			_ = appLogger.Sync()
			return nil, fmt.Errorf("connect to Redis: %w", pingErr)
		}

		tracker = metrics.NewRedisTracker(redisClient, appLogger)
	}

	// Generator and storage credentials are checked per call, not at
	// startup, so a partially configured process still serves its other
	// routes.
	gen := generator.New(&cfg.LLM, appLogger)

	platform, err := hashnode.NewClient(&cfg.Hashnode, cfg.Pipeline.RequestTimeout, appLogger)
	if err != nil {
		_ = db.Close()
		_ = appLogger.Sync()
		return nil, fmt.Errorf("create hashnode client: %w", err)
	}

	uploader, err := storage.New(&cfg.Storage, cfg.Pipeline.RequestTimeout, appLogger)
	if err != nil {
		_ = db.Close()
		_ = appLogger.Sync()
		return nil, fmt.Errorf("create storage uploader: %w", err)
	}
	resolver := images.NewResolver(uploader, appLogger)

	pipe := pipeline.New(pipeline.Deps{
		Content:          gen,
		Images:           resolver,
		Platform:         platform,
		Recorder:         repo,
		Metrics:          tracker,
		Logger:           appLogger,
		FallbackImageURL: cfg.Pipeline.FallbackImageURL,
	})

	router := api.NewRouter(pipe, resolver, tracker, repo, cfg.Pipeline.RunTimeout, appLogger, opts.Version)
	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router.Engine(cfg.Debug),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		config:      cfg,
		logger:      appLogger,
		db:          db,
		redisClient: redisClient,
		httpServer:  httpServer,
		version:     opts.Version,
	}, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		a.logger.Info("Starting HTTP server",
			logger.String("address", a.config.Server.Address),
			logger.Bool("debug", a.config.Debug),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	return a.waitForShutdown(ctx, serverErr)
}

// waitForShutdown handles graceful shutdown on signal, context
// cancellation or server error.
func (a *App) waitForShutdown(ctx context.Context, serverErr chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownErr error

	select {
	case sig := <-sigChan:
		a.logger.Info("Shutting down gracefully",
			logger.String("signal", sig.String()),
		)
		a.shutdownHTTPServer()
		<-serverErr

	case <-ctx.Done():
		a.logger.Info("Context cancelled, shutting down")
		a.shutdownHTTPServer()
		<-serverErr

	case err := <-serverErr:
		if err != nil {
			a.logger.Error("Server error", logger.Error(err))
			shutdownErr = err
		}
	}

	a.logger.Info("Service stopped")
	return shutdownErr
}

// shutdownHTTPServer gracefully shuts down the HTTP server.
func (a *App) shutdownHTTPServer() {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown error", logger.Error(err))
	} else {
		a.logger.Info("HTTP server stopped")
	}
}

// Close cleans up resources.
func (a *App) Close() error {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("Failed to close Redis client", logger.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("Failed to close database connection", logger.Error(err))
		}
	}
	return a.logger.Sync()
}

// Logger returns the application logger.
func (a *App) Logger() logger.Logger {
	return a.logger
}
