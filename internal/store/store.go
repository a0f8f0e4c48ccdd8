// Package store defines the storage boundaries of the backup service and
// their concrete implementations: artifact blobs (filesystem or S3), the
// backup catalog (Postgres), and the live document collections (Postgres).
package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/roamio/backupd/internal/model"
)

// ErrNotFound is returned when a catalog entry or artifact blob does not
// exist. Callers must handle catalog/blob divergence explicitly: a catalog
// entry whose blob was deleted out-of-band still yields ErrNotFound from the
// blob store.
var ErrNotFound = errors.New("not found")

// BatchSize caps how many operations are queued into a single batch against
// the document store. Batches are committed sequentially.
const BatchSize = 500

// BlobStore persists artifact blobs under their filename.
type BlobStore interface {
	Put(ctx context.Context, name string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
	// Delete removes a blob. A missing blob is not an error.
	Delete(ctx context.Context, name string) error
}

// CatalogStore is CRUD over backup catalog entries.
type CatalogStore interface {
	Insert(ctx context.Context, entry *model.BackupCatalogEntry) error
	List(ctx context.Context) ([]model.BackupCatalogEntry, error)
	GetByID(ctx context.Context, id string) (*model.BackupCatalogEntry, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*model.CatalogStats, error)
}

// DocumentStore reads and replaces whole document collections.
type DocumentStore interface {
	ListDocuments(ctx context.Context, collection string) ([]model.DocumentRecord, error)
	// ReplaceCollection deletes every document currently in the collection
	// and writes back the given records with their original ids, in batches
	// of at most BatchSize. The delete/rewrite sequence is not transactional;
	// a crash between the two leaves the collection empty. Returns the number
	// of documents written.
	ReplaceCollection(ctx context.Context, collection string, docs []model.DocumentRecord) (int64, error)
}

// DB is the subset of pgxpool.Pool the Postgres stores need.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}
