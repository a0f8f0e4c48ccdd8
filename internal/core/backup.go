package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/roamio/backupd/internal/collection"
	"github.com/roamio/backupd/internal/model"
	"github.com/roamio/backupd/internal/platform"
	"github.com/roamio/backupd/internal/store"
)

// readConcurrency bounds how many collections are scanned at once during a
// backup. Collections are disjoint, so concurrent reads are safe.
const readConcurrency = 4

// BackupService builds artifacts from the live collections and manages the
// backup catalog.
type BackupService struct {
	logger            zerolog.Logger
	collections       *collection.Set
	docs              store.DocumentStore
	blobs             store.BlobStore
	catalog           store.CatalogStore
	autoBackupEnabled bool
}

func NewBackupService(logger zerolog.Logger, collections *collection.Set, docs store.DocumentStore, blobs store.BlobStore, catalog store.CatalogStore, autoBackupEnabled bool) *BackupService {
	return &BackupService{
		logger:            logger.With().Str("component", "backup").Logger(),
		collections:       collections,
		docs:              docs,
		blobs:             blobs,
		catalog:           catalog,
		autoBackupEnabled: autoBackupEnabled,
	}
}

// BackupResult is the outcome of one Create call: the catalog entry plus the
// per-collection outcomes behind its document count.
type BackupResult struct {
	Entry    model.BackupCatalogEntry  `json:"entry"`
	Outcomes []model.CollectionOutcome `json:"outcomes"`
}

// Create scans every configured collection, persists the artifact blob and
// writes the catalog entry. A collection whose read fails is recorded as
// empty and the backup still completes; only serialization or storage
// failures abort the operation, and those never leave a catalog entry
// behind.
func (s *BackupService) Create(ctx context.Context, backupType, description string) (*BackupResult, error) {
	if backupType == "" {
		backupType = model.BackupTypeManual
	}

	names := s.collections.Names()
	docsByName := make([][]model.DocumentRecord, len(names))
	outcomes := make([]model.CollectionOutcome, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for i, name := range names {
		g.Go(func() error {
			docs, err := s.docs.ListDocuments(gctx, name)
			if err != nil {
				s.logger.Warn().Err(err).Str("collection", name).Msg("collection read failed, backing up as empty")
				docsByName[i] = []model.DocumentRecord{}
				outcomes[i] = model.CollectionOutcome{Name: name, Error: err.Error()}
				return nil
			}
			docsByName[i] = docs
			outcomes[i] = model.CollectionOutcome{Name: name, Documents: int64(len(docs))}
			return nil
		})
	}
	// Goroutines record failures as outcomes and never return an error.
	_ = g.Wait()

	now := time.Now().UTC().Truncate(time.Second)
	artifact := &model.BackupArtifact{
		Collections: make(map[string][]model.DocumentRecord, len(names)),
		Order:       names,
	}
	var totalDocuments int64
	for i, name := range names {
		artifact.Collections[name] = docsByName[i]
		totalDocuments += outcomes[i].Documents
	}
	artifact.Metadata = model.ArtifactMetadata{
		CreatedAt:      now,
		Type:           backupType,
		Description:    description,
		Version:        model.ArtifactVersion,
		TotalDocuments: totalDocuments,
	}

	blob, err := artifact.Encode()
	if err != nil {
		return nil, err
	}

	entry := model.BackupCatalogEntry{
		ID:             platform.NewID(),
		Filename:       model.BackupFilename(now),
		Type:           backupType,
		Description:    description,
		SizeBytes:      int64(len(blob)),
		TotalDocuments: totalDocuments,
		Status:         model.StatusCompleted,
		CreatedAt:      now,
	}

	if err := s.blobs.Put(ctx, entry.Filename, blob); err != nil {
		return nil, fmt.Errorf("persist artifact %s: %w", entry.Filename, err)
	}

	// The catalog entry is written only after the blob is durable: a missing
	// blob with a present entry is the only divergence that can occur.
	if err := s.catalog.Insert(ctx, &entry); err != nil {
		return nil, fmt.Errorf("catalog backup %s: %w", entry.ID, err)
	}

	backupsCreatedTotal.WithLabelValues(backupType).Inc()
	backupDocumentsTotal.Add(float64(totalDocuments))

	s.logger.Info().
		Str("backup_id", entry.ID).
		Str("filename", entry.Filename).
		Int64("size_bytes", entry.SizeBytes).
		Int64("total_documents", totalDocuments).
		Msg("backup created")

	return &BackupResult{Entry: entry, Outcomes: outcomes}, nil
}

// List returns all catalog entries, newest first.
func (s *BackupService) List(ctx context.Context) ([]model.BackupCatalogEntry, error) {
	return s.catalog.List(ctx)
}

// Stats aggregates the catalog.
func (s *BackupService) Stats(ctx context.Context) (*model.BackupStats, error) {
	cs, err := s.catalog.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &model.BackupStats{
		TotalBackups:      cs.TotalBackups,
		TotalSize:         cs.TotalSizeBytes,
		LastBackup:        cs.LastBackup,
		AutoBackupEnabled: s.autoBackupEnabled,
	}, nil
}

// Download resolves a catalog entry and returns it together with its raw
// artifact blob.
func (s *BackupService) Download(ctx context.Context, id string) (*model.BackupCatalogEntry, []byte, error) {
	entry, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	blob, err := s.blobs.Get(ctx, entry.Filename)
	if err != nil {
		return nil, nil, err
	}
	return entry, blob, nil
}

// Delete removes the artifact blob best-effort, then the catalog entry
// unconditionally. Only a missing catalog entry is an error.
func (s *BackupService) Delete(ctx context.Context, id string) error {
	entry, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, entry.Filename); err != nil {
		s.logger.Warn().Err(err).Str("filename", entry.Filename).Msg("blob delete failed, removing catalog entry anyway")
	}

	if err := s.catalog.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("backup_id", id).Str("filename", entry.Filename).Msg("backup deleted")
	return nil
}
