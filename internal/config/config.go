package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// BlobStorageFS keeps artifacts in a local directory.
	BlobStorageFS = "fs"
	// BlobStorageS3 keeps artifacts in an S3 bucket.
	BlobStorageS3 = "s3"
)

type Config struct {
	DatabaseURL    string
	HTTPListenAddr string
	LogLevel       string
	ServiceName    string

	// BlobStorage selects where artifact blobs are persisted: "fs" or "s3".
	BlobStorage string
	BackupDir   string
	S3Endpoint  string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	// CollectionsFile optionally overrides the built-in collection set.
	CollectionsFile string

	AutoBackupEnabled  bool
	AutoBackupInterval time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		HTTPListenAddr:  getEnv("HTTP_LISTEN_ADDR", ":8090"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ServiceName:     getEnv("SERVICE_NAME", "backupd"),
		BlobStorage:     getEnv("BLOB_STORAGE", BlobStorageFS),
		BackupDir:       getEnv("BACKUP_DIR", "./backups"),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
		CollectionsFile: getEnv("COLLECTIONS_FILE", ""),
	}

	enabled, err := strconv.ParseBool(getEnv("AUTO_BACKUP_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("parse AUTO_BACKUP_ENABLED: %w", err)
	}
	cfg.AutoBackupEnabled = enabled

	interval, err := time.ParseDuration(getEnv("AUTO_BACKUP_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("parse AUTO_BACKUP_INTERVAL: %w", err)
	}
	cfg.AutoBackupInterval = interval

	return cfg, nil
}

// Validate checks that the config is complete enough to run the service.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch c.BlobStorage {
	case BlobStorageFS:
		if c.BackupDir == "" {
			return fmt.Errorf("BACKUP_DIR is required for fs blob storage")
		}
	case BlobStorageS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for s3 blob storage")
		}
		if c.S3AccessKey == "" || c.S3SecretKey == "" {
			return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required for s3 blob storage")
		}
	default:
		return fmt.Errorf("unknown BLOB_STORAGE %q (want fs or s3)", c.BlobStorage)
	}
	if c.AutoBackupEnabled && c.AutoBackupInterval <= 0 {
		return fmt.Errorf("AUTO_BACKUP_INTERVAL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
