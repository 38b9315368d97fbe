package sqlkv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/storage"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&Entry{}))
	return db
}

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	s := New(db, "storefront")

	var _ storage.Store = s

	_, err := s.Get(ctx, storage.KeyLocalPosts)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Set(ctx, storage.KeyLocalPosts, `[{"id":1}]`))
	require.NoError(t, s.Set(ctx, storage.KeyLocalPosts, `[{"id":2}]`))

	got, err := s.Get(ctx, storage.KeyLocalPosts)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":2}]`, got)

	var count int64
	require.NoError(t, db.Model(&Entry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "set must upsert a single row")

	require.NoError(t, s.Remove(ctx, storage.KeyLocalPosts))
	_, err = s.Get(ctx, storage.KeyLocalPosts)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, s.Remove(ctx, storage.KeyLocalPosts))
}

func TestStoreNamespacingAndTimestamps(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	fixed := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

	s := New(db, "tenant")
	s.now = func() time.Time { return fixed }
	require.NoError(t, s.Set(ctx, storage.KeyCart, "{}"))

	var row Entry
	require.NoError(t, db.Take(&row).Error)
	assert.Equal(t, "tenant:cart", row.StorageKey)
	assert.True(t, fixed.Equal(row.UpdatedAt))

	other := New(db, "")
	_, err := other.Get(ctx, storage.KeyCart)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
