package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/roamio/backupd/internal/model"
	"github.com/roamio/backupd/internal/store"
)

// RestoreService replaces live collection contents with the contents of a
// previously produced artifact. Restore is destructive: documents not in the
// artifact are gone once their collection is processed.
type RestoreService struct {
	logger  zerolog.Logger
	docs    store.DocumentStore
	blobs   store.BlobStore
	catalog store.CatalogStore
}

func NewRestoreService(logger zerolog.Logger, docs store.DocumentStore, blobs store.BlobStore, catalog store.CatalogStore) *RestoreService {
	return &RestoreService{
		logger:  logger.With().Str("component", "restore").Logger(),
		docs:    docs,
		blobs:   blobs,
		catalog: catalog,
	}
}

// RestoreResult reports how much of the artifact was applied. Clients must
// inspect the counts, not just request success: a collection that failed is
// skipped, not fatal.
type RestoreResult struct {
	RestoredCollections int64                     `json:"restored_collections"`
	RestoredDocuments   int64                     `json:"restored_documents"`
	Outcomes            []model.CollectionOutcome `json:"outcomes,omitempty"`
}

// FromCatalog restores the artifact referenced by a catalog entry. It
// returns store.ErrNotFound when the entry is absent, and also when the
// entry exists but its blob was deleted out-of-band; in that case no
// collection is touched.
func (s *RestoreService) FromCatalog(ctx context.Context, id string) (*RestoreResult, error) {
	entry, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	blob, err := s.blobs.Get(ctx, entry.Filename)
	if err != nil {
		return nil, err
	}

	artifact, err := model.DecodeArtifact(blob)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("backup_id", id).Str("filename", entry.Filename).Msg("restoring from catalog")
	return s.apply(ctx, artifact), nil
}

// FromUpload restores directly from uploaded artifact bytes; no catalog
// entry is read or required. The bytes must carry both required top-level
// keys or nothing is written (model.ErrInvalidFormat).
func (s *RestoreService) FromUpload(ctx context.Context, data []byte) (*RestoreResult, error) {
	artifact, err := model.DecodeArtifact(data)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("size_bytes", len(data)).Msg("restoring from upload")
	return s.apply(ctx, artifact), nil
}

// apply replaces each collection the artifact contains, in the artifact's
// own key order. A failed collection is logged and skipped; the counts only
// reflect collections that were fully rewritten.
func (s *RestoreService) apply(ctx context.Context, artifact *model.BackupArtifact) *RestoreResult {
	result := &RestoreResult{Outcomes: make([]model.CollectionOutcome, 0, len(artifact.Order))}

	for _, name := range artifact.Order {
		written, err := s.docs.ReplaceCollection(ctx, name, artifact.Collections[name])
		if err != nil {
			s.logger.Warn().Err(err).Str("collection", name).Msg("collection restore failed, continuing")
			result.Outcomes = append(result.Outcomes, model.CollectionOutcome{Name: name, Documents: written, Error: err.Error()})
			continue
		}
		result.RestoredCollections++
		result.RestoredDocuments += written
		result.Outcomes = append(result.Outcomes, model.CollectionOutcome{Name: name, Documents: written})
	}

	restoresTotal.Inc()
	restoredDocumentsTotal.Add(float64(result.RestoredDocuments))

	s.logger.Info().
		Int64("restored_collections", result.RestoredCollections).
		Int64("restored_documents", result.RestoredDocuments).
		Msg("restore finished")

	return result
}
