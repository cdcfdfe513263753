package accounts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tickerpulse/ticker-tweets-api/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	backend, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewStore(backend)
}

func TestStore_UpsertAndLoadAll(t *testing.T) {
	store := newTestStore(t)

	acct := cookieAccount("alpha")
	acct.State = StateActive
	acct.LastUsedAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Upsert(acct))
	require.NoError(t, store.Upsert(cookieAccount("beta")))

	records, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	byName := map[string]Account{}
	for _, record := range records {
		byName[record.Username] = record
	}
	assert.Equal(t, StateActive, byName["alpha"].State)
	assert.True(t, byName["alpha"].LastUsedAt.Equal(acct.LastUsedAt))
	assert.Equal(t, "tok-alpha", byName["alpha"].Credentials.Cookies["auth_token"])
}

func TestStore_UpsertIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	acct := cookieAccount("alpha")
	require.NoError(t, store.Upsert(acct))

	acct.State = StateInactive
	acct.LastError = "credentials rejected"
	require.NoError(t, store.Upsert(acct))

	records, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, StateInactive, records[0].State)
	assert.Equal(t, "credentials rejected", records[0].LastError)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Upsert(cookieAccount("alpha")))
	require.NoError(t, store.Delete("alpha"))

	records, err := store.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_LoadAllSkipsCorruptRecords(t *testing.T) {
	backend, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	store := NewStore(backend)

	require.NoError(t, store.Upsert(cookieAccount("alpha")))
	require.NoError(t, backend.Store("accounts/broken.json", []byte("not json")))

	records, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alpha", records[0].Username)
}

func TestPool_PersistsThroughStore(t *testing.T) {
	backend, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	pool := NewPool(NewStore(backend))
	require.NoError(t, pool.Register(cookieAccount("alpha")))
	require.NoError(t, pool.ReportSuccess("alpha"))

	// A fresh pool over the same backend sees the persisted state.
	restored := NewPool(NewStore(backend))
	require.NoError(t, restored.Load())

	infos := restored.Snapshot()
	require.Len(t, infos, 1)
	assert.Equal(t, "alpha", infos[0].Username)
	assert.Equal(t, StateActive, infos[0].State)
	assert.True(t, restored.HasActive())
}
