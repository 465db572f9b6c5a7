package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bbowlby22/oxproxion/core"
)

// Interface compliance (compile-time assertion)
var (
	_ core.StateStore = (*FileStore)(nil)
	_ core.StateStore = (*InMemoryStore)(nil)
)

type testDoc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(testDoc{Name: "sync", Count: 3}))

	var got testDoc
	require.NoError(t, store.Load(&got))
	assert.Equal(t, testDoc{Name: "sync", Count: 3}, got)
}

func TestFileStore_MissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	var got testDoc
	err := store.Load(&got)
	assert.ErrorIs(t, err, core.ErrStateNotFound)
}

func TestFileStore_NoTempResidue(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "state.json"))
	require.NoError(t, store.Save(testDoc{Name: "a"}))
	require.NoError(t, store.Save(testDoc{Name: "b"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}

func TestFileStore_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var got testDoc
	err := NewFileStore(path).Load(&got)

	var perr *core.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "load", perr.Op)
}

func TestInMemoryStore_RoundTripAndFailure(t *testing.T) {
	store := NewInMemoryStore()

	var got testDoc
	assert.ErrorIs(t, store.Load(&got), core.ErrStateNotFound)

	require.NoError(t, store.Save(testDoc{Name: "x", Count: 1}))
	require.NoError(t, store.Load(&got))
	assert.Equal(t, 1, got.Count)

	store.FailSaves(errors.New("disk full"))
	err := store.Save(testDoc{Name: "y"})
	var perr *core.PersistenceError
	require.ErrorAs(t, err, &perr)

	// Prior document is untouched by the failed save.
	require.NoError(t, store.Load(&got))
	assert.Equal(t, "x", got.Name)
}
