package core

import (
	"github.com/rs/zerolog"

	"github.com/roamio/backupd/internal/collection"
	"github.com/roamio/backupd/internal/store"
)

type Services struct {
	Backup  *BackupService
	Restore *RestoreService
}

func NewServices(logger zerolog.Logger, collections *collection.Set, docs store.DocumentStore, blobs store.BlobStore, catalog store.CatalogStore, autoBackupEnabled bool) *Services {
	return &Services{
		Backup:  NewBackupService(logger, collections, docs, blobs, catalog, autoBackupEnabled),
		Restore: NewRestoreService(logger, docs, blobs, catalog),
	}
}
