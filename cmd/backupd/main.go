package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roamio/backupd/internal/api"
	"github.com/roamio/backupd/internal/collection"
	"github.com/roamio/backupd/internal/config"
	"github.com/roamio/backupd/internal/core"
	"github.com/roamio/backupd/internal/db"
	"github.com/roamio/backupd/internal/logging"
	"github.com/roamio/backupd/internal/metrics"
	"github.com/roamio/backupd/internal/scheduler"
	"github.com/roamio/backupd/internal/store"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	migrateDirFlag := flag.String("migrate-dir", "migrations", "Migration files directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	if *migrateFlag {
		logger.Info().Str("dir", *migrateDirFlag).Msg("running database migrations")
		if err := db.RunMigrations(logger, cfg.DatabaseURL, *migrateDirFlag); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	metrics.RegisterPgxPoolMetrics(pool)

	collections, err := collection.Load(cfg.CollectionsFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load collection set")
	}
	logger.Info().Strs("collections", collections.Names()).Msg("collection set loaded")

	var blobs store.BlobStore
	switch cfg.BlobStorage {
	case config.BlobStorageS3:
		blobs = store.NewS3BlobStore(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
		logger.Info().Str("bucket", cfg.S3Bucket).Msg("using s3 blob storage")
	default:
		blobs = store.NewFSBlobStore(cfg.BackupDir)
		logger.Info().Str("dir", cfg.BackupDir).Msg("using filesystem blob storage")
	}

	catalog := store.NewPGCatalogStore(pool)
	docs := store.NewPGDocumentStore(pool)
	services := core.NewServices(logger, collections, docs, blobs, catalog, cfg.AutoBackupEnabled)

	if cfg.AutoBackupEnabled {
		go scheduler.New(logger, services.Backup, cfg.AutoBackupInterval).Run(ctx)
	}

	srv := api.NewServer(logger, pool, services)

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting backup API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}
