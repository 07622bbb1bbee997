package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/odnar/internal/api"
	"github.com/Harshitk-cp/odnar/internal/buildconfig"
	"github.com/Harshitk-cp/odnar/internal/config"
	"github.com/Harshitk-cp/odnar/internal/store"
	"github.com/Harshitk-cp/odnar/internal/store/sqlite"
	"github.com/Harshitk-cp/odnar/migrations"
	"go.uber.org/zap"
)

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}

	logger := newLogger(config.LogLevel())
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	storage, closeStorage := openStorage(ctx, logger)
	defer closeStorage()

	app := api.NewApp(storage, logger)

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting",
			zap.String("addr", addr),
			zap.String("version", buildconfig.Version()),
			zap.String("commit", buildconfig.Commit()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	// Let detached analyzer runs finish before the stores close.
	app.Analyzer.Wait()

	logger.Info("server stopped")
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger, err := cfg.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

func openStorage(ctx context.Context, logger *zap.Logger) (api.Storage, func()) {
	switch config.StorageDriver() {
	case config.StorageSQLite:
		path := config.SQLitePath()
		db, err := sqlite.Open(ctx, path)
		if err != nil {
			logger.Fatal("failed to open sqlite database", zap.String("path", path), zap.Error(err))
		}
		if err := sqlite.RunMigrations(ctx, db, migrations.SQLite(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		logger.Info("connected to database", zap.String("driver", config.StorageSQLite), zap.String("path", path))
		return api.SQLiteStorage(db), func() { _ = db.Close() }

	default:
		dbURL := config.DatabaseURL()
		if dbURL == "" {
			logger.Fatal("DATABASE_URL is required")
		}
		pool, err := store.Open(ctx, dbURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := store.RunMigrations(ctx, pool, migrations.Postgres(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		logger.Info("connected to database", zap.String("driver", config.StoragePostgres))
		return api.PostgresStorage(pool), pool.Close
	}
}
