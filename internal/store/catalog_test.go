package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roamio/backupd/internal/model"
)

func testEntry(now time.Time) *model.BackupCatalogEntry {
	return &model.BackupCatalogEntry{
		ID:             "test-backup-1",
		Filename:       "backup_2025-06-01T12-00-00Z.json",
		Type:           model.BackupTypeManual,
		Description:    "test",
		SizeBytes:      1024,
		TotalDocuments: 7,
		Status:         model.StatusCompleted,
		CreatedAt:      now,
	}
}

func TestPGCatalogStore_Insert(t *testing.T) {
	db := &mockDB{}
	s := NewPGCatalogStore(db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.CommandTag{}, nil)

	err := s.Insert(ctx, testEntry(time.Now()))
	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestPGCatalogStore_Insert_Error(t *testing.T) {
	db := &mockDB{}
	s := NewPGCatalogStore(db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.CommandTag{}, errors.New("db error"))

	err := s.Insert(ctx, testEntry(time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert backup")
}

func TestPGCatalogStore_List(t *testing.T) {
	db := &mockDB{}
	s := NewPGCatalogStore(db)
	ctx := context.Background()
	now := time.Now().Truncate(time.Microsecond)

	rows := newMockRows(func(dest ...any) error {
		*(dest[0].(*string)) = "test-backup-1"
		*(dest[1].(*string)) = "backup_2025-06-01T12-00-00Z.json"
		*(dest[2].(*string)) = model.BackupTypeManual
		*(dest[3].(*string)) = ""
		*(dest[4].(*int64)) = 1024
		*(dest[5].(*int64)) = 7
		*(dest[6].(*string)) = model.StatusCompleted
		*(dest[7].(*time.Time)) = now
		return nil
	})
	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(rows, nil)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "test-backup-1", entries[0].ID)
	assert.Equal(t, int64(7), entries[0].TotalDocuments)
}

func TestPGCatalogStore_List_Empty(t *testing.T) {
	db := &mockDB{}
	s := NewPGCatalogStore(db)
	ctx := context.Background()

	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(newEmptyMockRows(), nil)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}

func TestPGCatalogStore_GetByID_NotFound(t *testing.T) {
	db := &mockDB{}
	s := NewPGCatalogStore(db)
	ctx := context.Background()

	row := &mockRow{scanFunc: func(...any) error { return pgx.ErrNoRows }}
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).Return(row)

	_, err := s.GetByID(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPGCatalogStore_Delete(t *testing.T) {
	db := &mockDB{}
	s := NewPGCatalogStore(db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.NewCommandTag("DELETE 1"), nil)

	require.NoError(t, s.Delete(ctx, "test-backup-1"))
	db.AssertExpectations(t)
}

func TestPGCatalogStore_Delete_NotFound(t *testing.T) {
	db := &mockDB{}
	s := NewPGCatalogStore(db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).Return(pgconn.NewCommandTag("DELETE 0"), nil)

	err := s.Delete(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPGCatalogStore_Stats(t *testing.T) {
	db := &mockDB{}
	s := NewPGCatalogStore(db)
	ctx := context.Background()
	now := time.Now().Truncate(time.Microsecond)

	row := &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*int64)) = 3
		*(dest[1].(*int64)) = 4096
		*(dest[2].(**time.Time)) = &now
		return nil
	}}
	db.On("QueryRow", ctx, mock.AnythingOfType("string"), mock.Anything).Return(row)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalBackups)
	assert.Equal(t, int64(4096), stats.TotalSizeBytes)
	require.NotNil(t, stats.LastBackup)
	assert.Equal(t, now, *stats.LastBackup)
}
