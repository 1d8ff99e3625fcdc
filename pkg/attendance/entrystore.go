package attendance

import (
	json "github.com/json-iterator/go"

	"github.com/followme/attendance-cli/pkg/logger"
	"github.com/followme/attendance-cli/pkg/settings"
	"github.com/followme/attendance-cli/pkg/store"
)

const storeKey = "scanned_tags"

// EntryStore persists the attendance queue in the plain store. Loads run a
// category migration: entries whose category no longer exists in the
// settings dictionary are rewritten to the default category and the repaired
// list is persisted once.
type EntryStore struct {
	kv       *store.Store
	settings *settings.Store
}

// NewEntryStore creates an entry store over the given plain store.
func NewEntryStore(kv *store.Store, settingsStore *settings.Store) *EntryStore {
	return &EntryStore{kv: kv, settings: settingsStore}
}

// Load loads all entries, migrating stale categories.
func (s *EntryStore) Load() ([]Entry, error) {
	data, err := s.kv.Get(storeKey)
	if err != nil {
		return nil, err
	}
	if data == "" {
		return []Entry{}, nil
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		logger.Warn("Discarding unreadable entry list", "err", err)
		return []Entry{}, nil
	}

	return s.migrateCategories(entries)
}

func (s *EntryStore) migrateCategories(entries []Entry) ([]Entry, error) {
	cfg, err := s.settings.Load()
	if err != nil {
		return entries, nil
	}

	migrated := false
	for i := range entries {
		if !cfg.HasCategory(entries[i].Category) {
			entries[i].Category = settings.DefaultCategory
			migrated = true
		}
	}

	if migrated {
		logger.Info("Migrated entries with stale categories")
		if err := s.Save(entries); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// Save overwrites the persisted entry list.
func (s *EntryStore) Save(entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.kv.Put(storeKey, string(data))
}

// Clear deletes all persisted entries.
func (s *EntryStore) Clear() error {
	return s.kv.Delete(storeKey)
}
