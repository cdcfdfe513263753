package accounts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tickerpulse/ticker-tweets-api/internal/storage"
)

const storePrefix = "accounts/"

// Store persists account records as one JSON blob per username on top of the
// generic blob storage layer, so the same accounts survive restarts whether
// the backing store is the local filesystem or Azure Blob Storage.
type Store struct {
	storage storage.Interface
}

// Ensure Store implements Persister
var _ Persister = (*Store)(nil)

// NewStore creates an account store over the given storage backend.
func NewStore(backend storage.Interface) *Store {
	return &Store{storage: backend}
}

// Upsert writes the record for acct.Username, replacing any previous version.
func (s *Store) Upsert(acct Account) error {
	data, err := json.Marshal(acct)
	if err != nil {
		return fmt.Errorf("failed to marshal account %s: %w", acct.Username, err)
	}
	return s.storage.Store(s.filename(acct.Username), data)
}

// LoadAll reads every persisted account record. Records that fail to decode
// are skipped with a logged error rather than aborting the load.
func (s *Store) LoadAll() ([]Account, error) {
	names, err := s.storage.List(storePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list account records: %w", err)
	}

	var records []Account
	for _, name := range names {
		data, err := s.storage.Retrieve(name)
		if err != nil {
			logrus.Errorf("Failed to read account record %s: %v", name, err)
			continue
		}

		var acct Account
		if err := json.Unmarshal(data, &acct); err != nil {
			logrus.Errorf("Skipping corrupt account record %s: %v", name, err)
			continue
		}
		if acct.Username == "" {
			logrus.Errorf("Skipping account record %s: missing username", name)
			continue
		}
		records = append(records, acct)
	}

	return records, nil
}

// Delete removes the record for username. Explicit operator action only; the
// pool never deletes accounts on its own.
func (s *Store) Delete(username string) error {
	return s.storage.Delete(s.filename(username))
}

func (s *Store) filename(username string) string {
	return storePrefix + strings.ToLower(username) + ".json"
}
