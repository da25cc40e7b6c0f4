package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps all entries in one JSON object on disk (mode 0600).
// The file is rewritten through a temp file and rename on every change.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by path. The file is created lazily.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("storage: file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("storage: create directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// load returns the current entries. A file that is not a JSON object of strings is reported
// as an error rather than silently replaced.
func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", s.path, err)
	}
	entries := make(map[string]string)
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", s.path, err)
	}
	return entries, nil
}

func (s *FileStore) save(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".stationdesk-*")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := entries[key]
	return v, ok, nil
}

func (s *FileStore) Put(_ context.Context, entries ...Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.load()
	if err != nil {
		return err
	}
	for _, e := range entries {
		current[e.Key] = e.Value
	}
	return s.save(current)
}

// Delete removes keys. An unreadable file is replaced, so clearing always recovers.
func (s *FileStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.load()
	if err != nil {
		current = make(map[string]string)
	}
	for _, k := range keys {
		delete(current, k)
	}
	return s.save(current)
}

func (s *FileStore) Close() error { return nil }
