package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/linebot/api"
	"github.com/garrettladley/linebot/internal/migrations/postgres"
	"github.com/garrettladley/linebot/internal/paths"
	xredis "github.com/garrettladley/linebot/internal/redis"
	"github.com/garrettladley/linebot/internal/server"
	"github.com/garrettladley/linebot/internal/server/handler"
	"github.com/garrettladley/linebot/internal/storage"
	"github.com/garrettladley/linebot/internal/xhttp/middleware"
	"github.com/garrettladley/linebot/internal/xslog"
	"github.com/garrettladley/linebot/receiver"
)

const (
	keyPort        = "port"
	keyPath        = "path"
	keyWebhookPath = "webhook_path"
	keyEcho        = "echo"
	keyGracePeriod = "grace_period"

	shutdownGracePeriod = 2 * time.Second
	shutdownTimeout     = 30 * time.Second
)

func main() {
	_ = godotenv.Load()

	logger := xslog.NewLoggerFromEnv(os.Stdout)
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", xslog.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := server.ReadConfig()
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	dedup, err := initDeduper(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize dedup store: %w", err)
	}
	defer func() {
		if err := dedup.Close(); err != nil {
			logger.ErrorContext(ctx, "failed to close dedup store", xslog.Error(err))
		}
	}()

	eventLog, err := initEventLog(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize event log: %w", err)
	}
	defer func() {
		if err := eventLog.Close(); err != nil {
			logger.ErrorContext(ctx, "failed to close event log", xslog.Error(err))
		}
	}()

	callbackCfg := handler.CallbackConfig{
		Deduper:  dedup,
		EventLog: eventLog,
		DedupTTL: cfg.DedupTTL,
	}
	if cfg.Echo {
		opts := append(cfg.LINE.ClientOptions(), api.WithLogger(logger))
		callbackCfg.Sender = api.New(cfg.LINE.API(), opts...)
	}

	callbackHandler := handler.NewCallback(callbackCfg)
	eventsHandler := handler.NewEvents(eventLog)

	verify := receiver.Middleware(cfg.LINE.Secret,
		receiver.WithMaxBodyBytes(cfg.Webhook.MaxBodyBytes),
		receiver.WithReadTimeout(cfg.Webhook.ReadTimeout),
	)

	mux := server.NewMux(server.Routes{
		WebhookPath: cfg.Webhook.Path,
		Webhook:     verify(http.HandlerFunc(callbackHandler.HandleCallback)),
		Events:      http.HandlerFunc(eventsHandler.HandleRecent),
		Health:      handler.Health(dedup),
	})

	wrapped := middleware.Chain(mux,
		middleware.Recovery,
		middleware.RequestID(middleware.WithTrustedInbound()),
		middleware.Logger(logger),
		middleware.Logging,
		middleware.SecurityHeaders,
	)

	shutdownCoordinator := server.NewShutdownCoordinator(shutdownGracePeriod)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           wrapped,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return shutdownCoordinator.BaseContext()
		},
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		logger.InfoContext(ctx, "starting server",
			xslog.Version(),
			slog.String(keyPort, cfg.Port),
			slog.String(keyWebhookPath, cfg.Webhook.Path),
			slog.Bool(keyEcho, cfg.Echo))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.InfoContext(ctx, "shutdown signal received, initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		shutdownCoordinator.InitiateShutdown(shutdownCtx)
		logger.InfoContext(ctx, "grace period complete, shutting down server",
			slog.Duration(keyGracePeriod, shutdownGracePeriod))

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.InfoContext(ctx, "server stopped")
	return nil
}

func initDeduper(ctx context.Context, cfg server.Config, logger *slog.Logger) (storage.Deduper, error) {
	if !cfg.Redis.Enabled() {
		logger.InfoContext(ctx, "initializing in-memory dedup store")
		return storage.NewMemoryDeduper(), nil
	}

	logger.InfoContext(ctx, "initializing Redis dedup store")
	client, err := xredis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	return storage.NewRedisDeduper(storage.RedisConfig{Client: client}), nil
}

func initEventLog(ctx context.Context, cfg server.Config, logger *slog.Logger) (storage.EventLog, error) {
	if !cfg.UsePostgres() {
		path := cfg.SQLite.Path
		if path == "" {
			var err error
			if path, err = paths.EventDB(); err != nil {
				return nil, err
			}
		}
		logger.InfoContext(ctx, "initializing SQLite event log", slog.String(keyPath, path))
		return storage.OpenSQLiteEventLog(ctx, path)
	}

	logger.InfoContext(ctx, "initializing PostgreSQL event log")
	pool, err := initPostgres(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return storage.NewPostgresEventLog(pool), nil
}

func initPostgres(ctx context.Context, cfg server.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	if err := postgres.Apply(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return pool, nil
}
