package settings

import (
	"fmt"

	json "github.com/json-iterator/go"

	"github.com/followme/attendance-cli/pkg/store"
)

const storeKey = "app_settings"

// DefaultCategory is the category key that always exists and cannot be
// deleted or renamed.
const DefaultCategory = "Main"

// Settings holds the remote API connection configuration.
type Settings struct {
	APIBaseURL    string            `json:"api"`
	APIKey        string            `json:"key"`
	Username      string            `json:"username"`
	Password      string            `json:"password"`
	AuthRoute     string            `json:"authRoute"`
	ValidateRoute string            `json:"validateRoute"`
	MainRoute     string            `json:"mainRoute"`
	Extensions    map[string]string `json:"extensions"`
	Categories    map[string]string `json:"categories"`
}

// Default returns first-run settings.
func Default() *Settings {
	return &Settings{
		Extensions: map[string]string{},
		Categories: map[string]string{DefaultCategory: DefaultCategory},
	}
}

// normalize repairs a loaded settings value so the invariants hold even if
// the stored blob predates them.
func (s *Settings) normalize() {
	if s.Extensions == nil {
		s.Extensions = map[string]string{}
	}
	if s.Categories == nil {
		s.Categories = map[string]string{}
	}
	if _, ok := s.Categories[DefaultCategory]; !ok {
		s.Categories[DefaultCategory] = DefaultCategory
	}
}

// SetCategory adds or relabels a category.
func (s *Settings) SetCategory(key, label string) error {
	if key == "" {
		return fmt.Errorf("category key cannot be empty")
	}
	if key == DefaultCategory && label != DefaultCategory {
		return fmt.Errorf("the %q category cannot be renamed", DefaultCategory)
	}
	s.Categories[key] = label
	return nil
}

// RemoveCategory deletes a category. The default category is protected.
func (s *Settings) RemoveCategory(key string) error {
	if key == DefaultCategory {
		return fmt.Errorf("the %q category cannot be deleted", DefaultCategory)
	}
	if _, ok := s.Categories[key]; !ok {
		return fmt.Errorf("unknown category %q", key)
	}
	delete(s.Categories, key)
	return nil
}

// HasCategory reports whether key is a known category.
func (s *Settings) HasCategory(key string) bool {
	_, ok := s.Categories[key]
	return ok
}

// Store persists Settings in the secure store.
type Store struct {
	store *store.Store
}

// NewStore creates a settings store backed by the given store.
func NewStore(s *store.Store) *Store {
	return &Store{store: s}
}

// Load loads settings, falling back to defaults when absent or unreadable.
func (st *Store) Load() (*Settings, error) {
	data, err := st.store.Get(storeKey)
	if err != nil {
		return nil, err
	}
	if data == "" {
		return Default(), nil
	}

	var s Settings
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return Default(), nil
	}
	s.normalize()
	return &s, nil
}

// Save overwrites the stored settings.
func (st *Store) Save(s *Settings) error {
	s.normalize()
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return st.store.Put(storeKey, string(data))
}
