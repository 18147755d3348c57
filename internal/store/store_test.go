package store

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSaveAndLoad(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save("widgets", fixture{Name: "beer", Count: 3}))

	var got fixture
	require.NoError(t, s.Load("widgets", &got))
	assert.Equal(t, "beer", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestLoadMissingKey(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	var got fixture
	err = s.Load("nope", &got)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.False(t, s.Exists("nope"))
}

func TestReopenLoadsFromDisk(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save("widgets", fixture{Name: "rum", Count: 7}))

	reopened, err := Open(dir)
	require.NoError(t, err)

	var got fixture
	require.NoError(t, reopened.Load("widgets", &got))
	assert.Equal(t, "rum", got.Name)
	assert.Equal(t, 7, got.Count)
}

func TestSaveOverwrites(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save("widgets", fixture{Count: 1}))
	require.NoError(t, s.Save("widgets", fixture{Count: 2}))

	var got fixture
	require.NoError(t, s.Load("widgets", &got))
	assert.Equal(t, 2, got.Count)
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save("widgets", fixture{}))
	require.NoError(t, s.Delete("widgets"))
	assert.False(t, s.Exists("widgets"))
	assert.NoFileExists(t, filepath.Join(dir, "widgets.json"))

	// Deleting an absent key is a no-op
	assert.NoError(t, s.Delete("widgets"))
}

func TestClearAll(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save("a", fixture{}))
	require.NoError(t, s.Save("b", fixture{}))
	require.NoError(t, s.ClearAll())
	assert.Empty(t, s.Keys())
}

func TestSubscribeSignalsEveryWrite(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	var seen []string
	s.Subscribe(func(key string) { seen = append(seen, key) })

	require.NoError(t, s.Save("a", fixture{Count: 1}))
	require.NoError(t, s.Save("b", fixture{Count: 2}))
	require.NoError(t, s.Save("a", fixture{Count: 3}))

	assert.Equal(t, []string{"a", "b", "a"}, seen)
}

func TestSubscribeSignalsRemovals(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save("a", fixture{Count: 1}))
	require.NoError(t, s.Save("b", fixture{Count: 2}))

	var seen []string
	s.Subscribe(func(key string) { seen = append(seen, key) })

	require.NoError(t, s.Delete("a"))
	assert.Equal(t, []string{"a"}, seen)

	// Deleting an absent key signals nothing.
	require.NoError(t, s.Delete("a"))
	assert.Equal(t, []string{"a"}, seen)

	seen = nil
	require.NoError(t, s.ClearAll())
	assert.ElementsMatch(t, []string{"b"}, seen)
}

func TestClearAllThenRestoreSignalsDroppedKeys(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save("keep", fixture{Count: 1}))
	require.NoError(t, s.Save("drop", fixture{Count: 2}))

	seen := make(map[string]int)
	s.Subscribe(func(key string) { seen[key]++ })

	// Replace the whole store with a dump that lacks "drop": a
	// subscriber must be told about "drop" so it can purge its copy.
	dump := map[string]json.RawMessage{"keep": json.RawMessage(`{"count":9}`)}
	require.NoError(t, s.ClearAll())
	require.NoError(t, s.Restore(dump))

	assert.Equal(t, 1, seen["drop"])
	assert.Equal(t, 2, seen["keep"])
	assert.False(t, s.Exists("drop"))
}

func TestDumpRestoreRoundTrip(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save("widgets", fixture{Name: "gin", Count: 4}))
	require.NoError(t, s.Save("tags", []string{"x", "y"}))

	dump := s.Dump()

	fresh, err := Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, fresh.Restore(dump))

	// Restored blobs are byte for byte what was dumped
	restored := fresh.Dump()
	require.Len(t, restored, len(dump))
	for key, blob := range dump {
		assert.Equal(t, []byte(blob), []byte(restored[key]), "key %s", key)
	}
}

func TestDumpIsACopy(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save("widgets", fixture{Count: 1}))
	dump := s.Dump()
	dump["widgets"] = json.RawMessage(`{"count":999}`)

	var got fixture
	require.NoError(t, s.Load("widgets", &got))
	assert.Equal(t, 1, got.Count)
}
