package model

import (
	"strings"
	"time"
)

// BackupCatalogEntry is one row in the backup catalog. It describes a single
// artifact blob; the blob itself lives in the blob store under Filename.
type BackupCatalogEntry struct {
	ID             string    `json:"id"`
	Filename       string    `json:"filename"`
	Type           string    `json:"type"`
	Description    string    `json:"description"`
	SizeBytes      int64     `json:"size_bytes"`
	TotalDocuments int64     `json:"total_documents"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

const (
	BackupTypeManual    = "manual"
	BackupTypeAutomatic = "automatic"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// DocumentRecord is one stored document: the collection-scoped id plus an
// arbitrary JSON-compatible payload.
type DocumentRecord struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

// CollectionOutcome reports what happened to a single collection during a
// backup or restore. Error is empty on success; a non-empty Error never
// aborts the surrounding operation.
type CollectionOutcome struct {
	Name      string `json:"name"`
	Documents int64  `json:"documents"`
	Error     string `json:"error,omitempty"`
}

// CatalogStats aggregates over all catalog entries.
type CatalogStats struct {
	TotalBackups   int64
	TotalSizeBytes int64
	LastBackup     *time.Time
}

// BackupStats is the stats payload returned to API clients.
type BackupStats struct {
	TotalBackups      int64      `json:"totalBackups"`
	TotalSize         int64      `json:"totalSize"`
	LastBackup        *time.Time `json:"lastBackup,omitempty"`
	AutoBackupEnabled bool       `json:"autoBackupEnabled"`
}

var filenameReplacer = strings.NewReplacer(":", "-", ".", "-")

// BackupFilename derives the artifact filename from the backup's creation
// time: backup_<RFC3339 UTC, ':' and '.' replaced by '-'>.json.
func BackupFilename(t time.Time) string {
	return "backup_" + filenameReplacer.Replace(t.UTC().Format(time.RFC3339)) + ".json"
}
