package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/vidcatalog/internal/api/handler"
	"github.com/hszk-dev/vidcatalog/internal/api/middleware"
	"github.com/hszk-dev/vidcatalog/internal/config"
	"github.com/hszk-dev/vidcatalog/internal/domain/repository"
	"github.com/hszk-dev/vidcatalog/internal/infrastructure/bootstrap"
	"github.com/hszk-dev/vidcatalog/internal/infrastructure/cache"
	"github.com/hszk-dev/vidcatalog/internal/infrastructure/memory"
	"github.com/hszk-dev/vidcatalog/internal/infrastructure/postgres"
	"github.com/hszk-dev/vidcatalog/internal/infrastructure/queue"
	"github.com/hszk-dev/vidcatalog/internal/infrastructure/storage"
	"github.com/hszk-dev/vidcatalog/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var checks []handler.HealthCheck

	// Repository
	var repo repository.VideoRepository
	switch cfg.Store.Backend {
	case config.StorePostgres:
		pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		defer pgClient.Close()

		if err := postgres.EnsureSchema(ctx, pgClient.Pool()); err != nil {
			return err
		}
		repo = postgres.NewVideoRepository(pgClient.Pool())
		checks = append(checks, handler.HealthCheck{Name: "postgres", Check: pgClient.Ping})
		logger.Info("connected to PostgreSQL")
	default:
		repo = memory.NewVideoRepository()
		logger.Info("using in-memory catalog store")
	}

	// Event publisher
	var publisher repository.EventPublisher = queue.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		defer func() { _ = queueClient.Close() }()

		publisher = queueClient
		checks = append(checks, handler.HealthCheck{Name: "rabbitmq", Check: queueClient.Ping})
		logger.Info("connected to RabbitMQ")
	}

	videoService := usecase.NewVideoService(repo, publisher)

	// Cache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = redisClient.Close() }()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}

		videoService = usecase.NewCachedVideoService(
			videoService,
			cache.NewRedisVideoCache(redisClient),
			usecase.CachedVideoServiceConfig{CacheTTL: cfg.Redis.CacheTTL},
		)
		checks = append(checks, handler.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
		logger.Info("connected to Redis", slog.Duration("cache_ttl", cfg.Redis.CacheTTL))
	}

	// Bootstrap catalog
	var source repository.CatalogSource
	if cfg.MinIO.Enabled {
		storageClient, err := storage.NewClient(ctx, storage.ClientConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to MinIO: %w", err)
		}
		checks = append(checks, handler.HealthCheck{Name: "minio", Check: storageClient.Ping})
		logger.Info("connected to MinIO")

		if cfg.Bootstrap.ObjectKey != "" {
			source = storageClient.Source(cfg.Bootstrap.ObjectKey)
		}
	} else if cfg.Bootstrap.Path != "" {
		source = bootstrap.NewFileSource(cfg.Bootstrap.Path)
	}

	if source != nil {
		if err := importCatalog(ctx, logger, videoService, source); err != nil {
			return err
		}
	}

	r := setupRouter(logger, videoService, checks)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// importCatalog loads the bootstrap catalog. A missing, unreadable or
// malformed catalog is logged and the service starts with whatever loaded.
// Only cancellation stops startup.
func importCatalog(ctx context.Context, logger *slog.Logger, svc usecase.VideoService, source repository.CatalogSource) error {
	report, err := usecase.ImportCatalog(ctx, svc, source)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("catalog import interrupted: %w", err)
	case errors.Is(err, repository.ErrCatalogNotFound):
		logger.Warn("bootstrap catalog not found, starting empty", slog.String("source", source.Describe()))
		return nil
	case err != nil:
		logger.Error("bootstrap catalog could not be imported",
			slog.String("source", source.Describe()),
			slog.Int("loaded", report.Loaded),
			slog.String("error", err.Error()),
		)
		return nil
	}

	logger.Info("bootstrap catalog imported",
		slog.String("source", report.Source),
		slog.Int("loaded", report.Loaded),
		slog.Int("skipped", len(report.Skipped)),
	)
	return nil
}

func setupRouter(logger *slog.Logger, svc usecase.VideoService, checks []handler.HealthCheck) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/health", handler.Health(checks...))
	r.Handle("/metrics", promhttp.Handler())

	r.Route(handler.BasePath, handler.NewVideoHandler(svc).Routes)

	return r
}
