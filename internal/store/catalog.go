package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/roamio/backupd/internal/model"
)

// PGCatalogStore implements CatalogStore over the backups table.
type PGCatalogStore struct {
	db DB
}

func NewPGCatalogStore(db DB) *PGCatalogStore {
	return &PGCatalogStore{db: db}
}

func (s *PGCatalogStore) Insert(ctx context.Context, entry *model.BackupCatalogEntry) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO backups (id, filename, type, description, size_bytes, total_documents, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.Filename, entry.Type, entry.Description,
		entry.SizeBytes, entry.TotalDocuments, entry.Status, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert backup %s: %w", entry.ID, err)
	}
	return nil
}

func (s *PGCatalogStore) List(ctx context.Context) ([]model.BackupCatalogEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, filename, type, description, size_bytes, total_documents, status, created_at
		 FROM backups ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	defer rows.Close()

	entries := []model.BackupCatalogEntry{}
	for rows.Next() {
		var e model.BackupCatalogEntry
		if err := rows.Scan(&e.ID, &e.Filename, &e.Type, &e.Description,
			&e.SizeBytes, &e.TotalDocuments, &e.Status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan backup: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate backups: %w", err)
	}
	return entries, nil
}

func (s *PGCatalogStore) GetByID(ctx context.Context, id string) (*model.BackupCatalogEntry, error) {
	var e model.BackupCatalogEntry
	err := s.db.QueryRow(ctx,
		`SELECT id, filename, type, description, size_bytes, total_documents, status, created_at
		 FROM backups WHERE id = $1`, id,
	).Scan(&e.ID, &e.Filename, &e.Type, &e.Description,
		&e.SizeBytes, &e.TotalDocuments, &e.Status, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("backup %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get backup %s: %w", id, err)
	}
	return &e, nil
}

func (s *PGCatalogStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM backups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete backup %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("backup %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *PGCatalogStore) Stats(ctx context.Context) (*model.CatalogStats, error) {
	var stats model.CatalogStats
	var last *time.Time
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(size_bytes), 0), MAX(created_at) FROM backups`,
	).Scan(&stats.TotalBackups, &stats.TotalSizeBytes, &last)
	if err != nil {
		return nil, fmt.Errorf("backup stats: %w", err)
	}
	stats.LastBackup = last
	return &stats, nil
}
