package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_StoreAndRetrieve(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Store("accounts/alpha.json", []byte(`{"username":"alpha"}`)))

	data, err := store.Retrieve("accounts/alpha.json")
	require.NoError(t, err)
	assert.Equal(t, `{"username":"alpha"}`, string(data))
}

func TestLocalStorage_StoreOverwrites(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Store("a.json", []byte("one")))
	require.NoError(t, store.Store("a.json", []byte("two")))

	data, err := store.Retrieve("a.json")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestLocalStorage_List(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Store("accounts/alpha.json", []byte("{}")))
	require.NoError(t, store.Store("accounts/beta.json", []byte("{}")))
	require.NoError(t, store.Store("reports/latest.json", []byte("{}")))

	names, err := store.List("accounts/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"accounts/alpha.json", "accounts/beta.json"}, names)

	all, err := store.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLocalStorage_Delete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Store("a.json", []byte("x")))
	require.NoError(t, store.Delete("a.json"))

	_, err = store.Retrieve("a.json")
	assert.Error(t, err)

	// Deleting a missing blob is fine.
	assert.NoError(t, store.Delete("a.json"))
}

func TestLocalStorage_RejectsEscapingNames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Store("../outside.json", []byte("x")))
	_, err = store.Retrieve("../../etc/passwd")
	assert.Error(t, err)
	assert.Error(t, store.Store("", []byte("x")))
}

func TestNewLocalStorage_RequiresDir(t *testing.T) {
	_, err := NewLocalStorage("")
	assert.Error(t, err)
}
