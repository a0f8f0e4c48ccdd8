package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/roamio/backupd/internal/model"
)

// PGDocumentStore implements DocumentStore over the documents table, where
// each collection is the set of rows sharing a collection name and documents
// carry a JSONB payload.
type PGDocumentStore struct {
	db DB
}

func NewPGDocumentStore(db DB) *PGDocumentStore {
	return &PGDocumentStore{db: db}
}

func (s *PGDocumentStore) ListDocuments(ctx context.Context, collection string) ([]model.DocumentRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, data FROM documents WHERE collection = $1 ORDER BY id`, collection)
	if err != nil {
		return nil, fmt.Errorf("list documents in %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []model.DocumentRecord{}
	for rows.Next() {
		var d model.DocumentRecord
		if err := rows.Scan(&d.ID, &d.Data); err != nil {
			return nil, fmt.Errorf("scan document in %s: %w", collection, err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents in %s: %w", collection, err)
	}
	return docs, nil
}

func (s *PGDocumentStore) ReplaceCollection(ctx context.Context, collection string, docs []model.DocumentRecord) (int64, error) {
	existing, err := s.ListDocuments(ctx, collection)
	if err != nil {
		return 0, err
	}

	// Delete everything currently in the collection, one id per queued
	// operation, committed in BatchSize chunks.
	for start := 0; start < len(existing); start += BatchSize {
		batch := &pgx.Batch{}
		for _, d := range existing[start:min(start+BatchSize, len(existing))] {
			batch.Queue(`DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, d.ID)
		}
		if err := s.sendBatch(ctx, batch); err != nil {
			return 0, fmt.Errorf("delete documents in %s: %w", collection, err)
		}
	}

	// Write back the artifact's documents with their original ids.
	var written int64
	for start := 0; start < len(docs); start += BatchSize {
		batch := &pgx.Batch{}
		chunk := docs[start:min(start+BatchSize, len(docs))]
		for _, d := range chunk {
			batch.Queue(`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`,
				collection, d.ID, d.Data)
		}
		if err := s.sendBatch(ctx, batch); err != nil {
			return written, fmt.Errorf("write documents to %s: %w", collection, err)
		}
		written += int64(len(chunk))
	}

	return written, nil
}

// sendBatch commits one batch and surfaces the first per-operation error.
func (s *PGDocumentStore) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch op %d: %w", i, err)
		}
	}
	return results.Close()
}
