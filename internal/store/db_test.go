package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPutGetDelete(t *testing.T) {
	db := openTemp(t)

	_, ok, err := db.Get("auth_token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.Put("auth_token", "abc"))
	require.NoError(t, db.Put("auth_token", "def"))

	v, ok, err := db.Get("auth_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "def", v)

	require.NoError(t, db.Delete("auth_token"))
	require.NoError(t, db.Delete("auth_token"))
	_, ok, err = db.Get("auth_token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReopenKeepsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Put("last_username", "alice"))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	v, ok, err := db.Get("last_username")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice", v)
}
