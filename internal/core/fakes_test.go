package core

import (
	"context"
	"sort"

	"github.com/roamio/backupd/internal/model"
	"github.com/roamio/backupd/internal/store"
)

// ---------- Fake blob store ----------

type fakeBlobStore struct {
	blobs  map[string][]byte
	putErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (s *fakeBlobStore) Put(_ context.Context, name string, data []byte) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.blobs[name] = data
	return nil
}

func (s *fakeBlobStore) Get(_ context.Context, name string) ([]byte, error) {
	data, ok := s.blobs[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

func (s *fakeBlobStore) Delete(_ context.Context, name string) error {
	delete(s.blobs, name)
	return nil
}

// failingDeleteBlobStore wraps fakeBlobStore so Delete always fails.
type failingDeleteBlobStore struct {
	*fakeBlobStore
	deleteErr error
}

func (s *failingDeleteBlobStore) Delete(context.Context, string) error {
	return s.deleteErr
}

// ---------- Fake catalog store ----------

type fakeCatalogStore struct {
	entries   []model.BackupCatalogEntry
	insertErr error
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{}
}

func (s *fakeCatalogStore) Insert(_ context.Context, entry *model.BackupCatalogEntry) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *fakeCatalogStore) List(context.Context) ([]model.BackupCatalogEntry, error) {
	out := make([]model.BackupCatalogEntry, len(s.entries))
	copy(out, s.entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeCatalogStore) GetByID(_ context.Context, id string) (*model.BackupCatalogEntry, error) {
	for _, e := range s.entries {
		if e.ID == id {
			entry := e
			return &entry, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeCatalogStore) Delete(_ context.Context, id string) error {
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *fakeCatalogStore) Stats(context.Context) (*model.CatalogStats, error) {
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

// ---------- Fake document store ----------

type fakeDocumentStore struct {
	collections  map[string][]model.DocumentRecord
	listErr      map[string]error
	replaceErr   map[string]error
	replaceCalls []string
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{
		collections: make(map[string][]model.DocumentRecord),
		listErr:     make(map[string]error),
		replaceErr:  make(map[string]error),
	}
}

func (s *fakeDocumentStore) ListDocuments(_ context.Context, collection string) ([]model.DocumentRecord, error) {
	if err := s.listErr[collection]; err != nil {
		return nil, err
	}
	docs := s.collections[collection]
	out := make([]model.DocumentRecord, len(docs))
	copy(out, docs)
	return out, nil
}

func (s *fakeDocumentStore) ReplaceCollection(_ context.Context, collection string, docs []model.DocumentRecord) (int64, error) {
	s.replaceCalls = append(s.replaceCalls, collection)
	if err := s.replaceErr[collection]; err != nil {
		return 0, err
	}
	replacement := make([]model.DocumentRecord, len(docs))
	copy(replacement, docs)
	s.collections[collection] = replacement
	return int64(len(replacement)), nil
}
