package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/foco-financeiro/internal/common"
	"github.com/Veraticus/foco-financeiro/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "session.db")

	store, err := Open(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, dbPath
}

func TestSQLiteStorage_PutGetDelete(t *testing.T) {
	store, _ := createTestStorage(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.Put(ctx, "a", "1"))
	require.NoError(t, store.Put(ctx, "a", "2"))

	value, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", value)

	require.NoError(t, store.Delete(ctx, "a"))
	require.NoError(t, store.Delete(ctx, "a"))

	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_RejectsEmptyKey(t *testing.T) {
	store, _ := createTestStorage(t)

	err := store.Put(context.Background(), "  ", "x")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestSQLiteStorage_MigrateIsIdempotent(t *testing.T) {
	store, _ := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, SchemaVersion(), version)
}

func TestSQLiteStorage_RejectsNewerSchema(t *testing.T) {
	store, _ := createTestStorage(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, "PRAGMA user_version = 99")
	require.NoError(t, err)

	err = store.Migrate(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestTokenSlot_SurvivesReopen(t *testing.T) {
	store, dbPath := createTestStorage(t)
	ctx := context.Background()

	slot := NewTokenSlot(store)
	token, err := slot.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, slot.SetToken(ctx, "T1"))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	token, err = NewTokenSlot(reopened).Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "T1", token)

	require.NoError(t, NewTokenSlot(reopened).ClearToken(ctx))
	token, err = NewTokenSlot(reopened).Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestTokenSlot_Backends(t *testing.T) {
	sqliteStore, _ := createTestStorage(t)

	backends := map[string]service.KeyValueStore{
		"sqlite": sqliteStore,
		"memory": NewMemoryStorage(),
	}

	for name, backend := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			slot := NewTokenSlot(backend)

			require.NoError(t, slot.SetToken(ctx, "abc"))
			got, err := backend.Get(ctx, TokenKey)
			require.NoError(t, err)
			assert.Equal(t, "abc", got)

			require.NoError(t, slot.ClearToken(ctx))
			token, err := slot.Token(ctx)
			require.NoError(t, err)
			assert.Empty(t, token)
		})
	}
}
