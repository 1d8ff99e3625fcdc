package store

import (
	"os"
	"path/filepath"
	"sync"

	json "github.com/json-iterator/go"
)

// Store is a string key-value store persisted as a single JSON file.
// Every write rewrites the whole file, so the on-disk state is always a
// complete snapshot. The host platform's storage encryption stands in for
// the original secure store; file permissions are the only local guard.
type Store struct {
	path string
	mode os.FileMode
	mu   sync.Mutex
}

// NewSecure creates a store for sensitive blobs (owner read/write only).
func NewSecure(path string) *Store {
	return &Store{path: path, mode: 0600}
}

// NewPlain creates a store for non-sensitive blobs.
func NewPlain(path string) *Store {
	return &Store{path: path, mode: 0644}
}

// Get returns the value for key, or "" if the key is absent.
func (s *Store) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

// Put stores value under key.
func (s *Store) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value
	return s.write(values)
}

// Delete removes key from the store. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.write(values)
}

func (s *Store) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		// A corrupt store is treated as empty rather than wedging the app
		return map[string]string{}, nil
	}
	return values, nil
}

// write replaces the snapshot via a temp file and rename, so a crash
// mid-write can never leave a partial file where the previous snapshot was.
func (s *Store) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), s.mode); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
