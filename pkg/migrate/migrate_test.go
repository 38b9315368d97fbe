package migrate

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/config"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, ValidateEmbedded())
}

func TestValidateRejectsBadFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"m/bad-name.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	assert.Error(t, Validate(fsys, "m"))

	fsys = fstest.MapFS{
		"m/20260101000000_a.sql": {Data: []byte("-- +goose Up\n")},
	}
	assert.ErrorContains(t, Validate(fsys, "m"), "+goose Down")

	fsys = fstest.MapFS{
		"m/20260101000000_a.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"m/20260101000000_b.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	assert.ErrorContains(t, Validate(fsys, "m"), "duplicate")

	fsys = fstest.MapFS{
		"m/20260101000000_a.sql": {Data: []byte("-- +goose Down\n-- +goose Up\n")},
	}
	assert.ErrorContains(t, Validate(fsys, "m"), "must come before")

	fsys = fstest.MapFS{
		"m/20260101000000_a.sql": {Data: []byte("-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n")},
	}
	assert.ErrorContains(t, Validate(fsys, "m"), "up section")
}

func TestRunUpCreatesLocalStorageTable(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	require.NoError(t, Run(ctx, sqlDB, config.DBDriverSQLite, "up"))
	assert.True(t, conn.Migrator().HasTable("local_storage"))

	version, err := Version(ctx, sqlDB, config.DBDriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(20260301120000), version)

	require.NoError(t, MigrateToVersion(ctx, sqlDB, config.DBDriverSQLite, "0"))
	assert.False(t, conn.Migrator().HasTable("local_storage"))
}

func TestGooseDialect(t *testing.T) {
	d, err := gooseDialect(config.DBDriverPostgres)
	require.NoError(t, err)
	assert.Equal(t, "postgres", d)

	d, err = gooseDialect(config.DBDriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", d)

	_, err = gooseDialect("mysql")
	assert.Error(t, err)
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	path, err := CreateSQLMigration(dir, "Add Reviews Index!", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20260301120000_add_reviews_index.sql"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- +goose Up")
	assert.Contains(t, string(body), "-- +goose Down")

	_, err = CreateSQLMigration(dir, "Add Reviews Index!", now)
	assert.ErrorContains(t, err, "already exists")

	_, err = CreateSQLMigration(dir, "!!!", now)
	assert.Error(t, err)

	require.NoError(t, Validate(os.DirFS(dir), "."))
}
