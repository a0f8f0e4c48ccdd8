package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FSBlobStore keeps artifact blobs as files in a single directory.
type FSBlobStore struct {
	dir string
}

func NewFSBlobStore(dir string) *FSBlobStore {
	return &FSBlobStore{dir: dir}
}

func (s *FSBlobStore) path(name string) string {
	// Blob names are derived from timestamps, but never trust them as paths.
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *FSBlobStore) Put(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	if err := os.WriteFile(s.path(name), data, 0o640); err != nil {
		return fmt.Errorf("write blob %s: %w", name, err)
	}
	return nil
}

func (s *FSBlobStore) Get(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("blob %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("read blob %s: %w", name, err)
	}
	return data, nil
}

func (s *FSBlobStore) Delete(_ context.Context, name string) error {
	if err := os.Remove(s.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob %s: %w", name, err)
	}
	return nil
}
