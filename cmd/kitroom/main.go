package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/vbonduro/kitroom/internal/config"
	"github.com/vbonduro/kitroom/internal/db"
	"github.com/vbonduro/kitroom/internal/logging"
	"github.com/vbonduro/kitroom/internal/metrics"
	"github.com/vbonduro/kitroom/internal/photostore"
	"github.com/vbonduro/kitroom/internal/photostore/local"
	s3store "github.com/vbonduro/kitroom/internal/photostore/s3"
	"github.com/vbonduro/kitroom/internal/service"
	"github.com/vbonduro/kitroom/internal/store"
	"github.com/vbonduro/kitroom/internal/store/memory"
	"github.com/vbonduro/kitroom/internal/store/sqlite"
	"github.com/vbonduro/kitroom/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, closer, err := newBackend(cfg, logger)
	if err != nil {
		logger.Error("failed to open record store", "error", err)
		return
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Error("failed to close record store", "error", err)
		}
	}()

	photos, err := newPhotoStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize photo store", "error", err)
		return
	}

	m := metrics.New(cfg.MetricsNamespace)
	images := service.NewImages(photos, cfg.ThumbnailMaxPx, logger)
	ledger := service.NewLedgerService(backend, images, m, logger)
	roster := service.NewRosterService(backend, images, logger)
	memos := service.NewMemoService(backend, logger)

	server := web.NewServer(web.Services{
		Ledger:  ledger,
		Roster:  roster,
		Memos:   memos,
		Records: service.NewRecords(ledger, roster, memos),
		Images:  images,
		Health:  backend,
	}, m, logger)

	if err := server.ListenAndServe(ctx, cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
	}
}

func newBackend(cfg *config.Config, logger *slog.Logger) (store.Backend, io.Closer, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		logger.Warn("using in-memory record store; data is lost on exit")
		return memory.NewBackend(), io.NopCloser(nil), nil
	case config.StoreSQLite:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using SQLite record store", "path", cfg.DBPath)
		return sqlite.NewBackend(database), database, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

func newPhotoStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (photostore.PhotoStore, error) {
	switch cfg.PhotoBackend {
	case config.PhotosLocal:
		logger.Info("using local photo store", "path", cfg.PhotoPath)
		return local.New(cfg.PhotoPath)
	case config.PhotosS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("PHOTO_S3_BUCKET is required when PHOTO_BACKEND=s3")
		}
		logger.Info("using S3 photo store", "bucket", cfg.S3Bucket, "endpoint", cfg.S3Endpoint)
		return s3store.New(ctx, s3store.Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			PathStyle:       cfg.S3PathStyle,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
		})
	default:
		return nil, fmt.Errorf("unknown PHOTO_BACKEND %q", cfg.PhotoBackend)
	}
}
