// Command seed uploads a catalog file to the MinIO bucket read by the API at
// startup. The file is checked to be a JSON array before upload.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hszk-dev/vidcatalog/internal/config"
	"github.com/hszk-dev/vidcatalog/internal/infrastructure/storage"
	"github.com/hszk-dev/vidcatalog/internal/wire"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	file := flag.String("file", cfg.Bootstrap.Path, "local catalog file to upload")
	key := flag.String("key", cfg.Bootstrap.ObjectKey, "object key in the bucket")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	entries, err := wire.DecodeCatalog(data)
	if err != nil {
		return fmt.Errorf("%s is not a catalog: %w", *file, err)
	}

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

	if err := storageClient.Upload(ctx, *key, bytes.NewReader(data), "application/json"); err != nil {
		return err
	}

	logger.Info("catalog uploaded",
		slog.String("file", *file),
		slog.String("source", storageClient.Source(*key).Describe()),
		slog.Int("entries", len(entries)),
	)
	return nil
}
