package repositories

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inkwell/app/config"
)

func openTestSQLite(t *testing.T) *Store {
	t.Helper()
	db, err := OpenGorm(config.StorageConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "blog.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	store := NewGormStore(db)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	testStore(t, openTestSQLite(t))
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := openTestSQLite(t)
	db := store.Posts.(*GormPostRepository).db
	assert.NoError(t, Migrate(db))
	for _, table := range []string{"users", "tags", "posts", "comments", "post_tags"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestOpen(t *testing.T) {
	t.Run("badger in memory", func(t *testing.T) {
		store, err := Open(config.StorageConfig{Driver: config.DriverBadger}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &BadgerPostRepository{}, store.Posts)
		assert.NoError(t, store.Close())
	})

	t.Run("sqlite", func(t *testing.T) {
		store, err := Open(config.StorageConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "open.db"),
		}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &GormPostRepository{}, store.Posts)
		assert.NoError(t, store.Close())
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(config.StorageConfig{Driver: "mongo"}, zap.NewNop())
		assert.Error(t, err)
	})
}
