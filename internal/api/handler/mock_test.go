package handler

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/roamio/backupd/internal/collection"
	"github.com/roamio/backupd/internal/core"
	"github.com/roamio/backupd/internal/model"
	"github.com/roamio/backupd/internal/store"
)

// In-memory stores backing the core services under test.

type memBlobStore struct {
	blobs map[string][]byte
}

func (s *memBlobStore) Put(_ context.Context, name string, data []byte) error {
	s.blobs[name] = data
	return nil
}

func (s *memBlobStore) Get(_ context.Context, name string) ([]byte, error) {
	data, ok := s.blobs[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

func (s *memBlobStore) Delete(_ context.Context, name string) error {
	delete(s.blobs, name)
	return nil
}

type memCatalogStore struct {
	entries []model.BackupCatalogEntry
}

func (s *memCatalogStore) Insert(_ context.Context, entry *model.BackupCatalogEntry) error {
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *memCatalogStore) List(context.Context) ([]model.BackupCatalogEntry, error) {
	out := make([]model.BackupCatalogEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *memCatalogStore) GetByID(_ context.Context, id string) (*model.BackupCatalogEntry, error) {
	for _, e := range s.entries {
		if e.ID == id {
			entry := e
			return &entry, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memCatalogStore) Delete(_ context.Context, id string) error {
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *memCatalogStore) Stats(context.Context) (*model.CatalogStats, error) {
	stats := &model.CatalogStats{}
	for _, e := range s.entries {
		stats.TotalBackups++
		stats.TotalSizeBytes += e.SizeBytes
		if stats.LastBackup == nil || e.CreatedAt.After(*stats.LastBackup) {
			t := e.CreatedAt
			stats.LastBackup = &t
		}
	}
	return stats, nil
}

type memDocStore struct {
	collections map[string][]model.DocumentRecord
	failList    bool
}

func (s *memDocStore) ListDocuments(_ context.Context, collection string) ([]model.DocumentRecord, error) {
	if s.failList {
		return nil, errors.New("document store unavailable")
	}
	docs := s.collections[collection]
	out := make([]model.DocumentRecord, len(docs))
	copy(out, docs)
	return out, nil
}

func (s *memDocStore) ReplaceCollection(_ context.Context, collection string, docs []model.DocumentRecord) (int64, error) {
	replacement := make([]model.DocumentRecord, len(docs))
	copy(replacement, docs)
	s.collections[collection] = replacement
	return int64(len(replacement)), nil
}

// testEnv bundles the stores and services one handler test needs.
type testEnv struct {
	blobs   *memBlobStore
	catalog *memCatalogStore
	docs    *memDocStore
	handler *Backup
}

func newTestEnv() *testEnv {
	blobs := &memBlobStore{blobs: make(map[string][]byte)}
	catalog := &memCatalogStore{}
	docs := &memDocStore{collections: make(map[string][]model.DocumentRecord)}

	services := core.NewServices(zerolog.Nop(), collection.DefaultSet(), docs, blobs, catalog, false)
	return &testEnv{
		blobs:   blobs,
		catalog: catalog,
		docs:    docs,
		handler: NewBackup(services.Backup, services.Restore),
	}
}
