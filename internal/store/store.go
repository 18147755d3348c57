// Package store is a thin key/value layer holding one JSON blob per
// logical entity key, persisted to disk and cached in memory. Every
// successful write or removal emits a change signal scoped to the key;
// readers that care about an entity subscribe and re-pull on receipt.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var ErrKeyNotFound = errors.New("key not found")

// Store serializes values as JSON under string keys. Writes replace the
// whole blob for a key; concurrent writers are last-write-wins.
type Store struct {
	mu        sync.Mutex
	dir       string
	cache     map[string][]byte
	listeners []func(key string)
}

// Open loads any existing blobs from dir (creating it if needed).
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{
		dir:   dir,
		cache: make(map[string][]byte),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		s.cache[strings.TrimSuffix(name, ".json")] = data
	}

	return s, nil
}

// Subscribe registers fn to be called with the key of every successful
// write. Callbacks run synchronously on the writer's goroutine and must
// not call back into the store's write path.
func (s *Store) Subscribe(fn func(key string)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Save serializes v and writes it under key, then signals the change.
func (s *Store) Save(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.SaveRaw(key, data)
}

// SaveRaw writes an already-serialized blob under key.
func (s *Store) SaveRaw(key string, data []byte) error {
	s.mu.Lock()
	if err := s.writeFile(key, data); err != nil {
		s.mu.Unlock()
		return err
	}
	s.cache[key] = data
	listeners := make([]func(string), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(key)
	}
	return nil
}

// Load deserializes the blob under key into out. Returns ErrKeyNotFound
// when the key has never been written.
func (s *Store) Load(key string, out interface{}) error {
	s.mu.Lock()
	data, ok := s.cache[key]
	s.mu.Unlock()
	if !ok {
		return ErrKeyNotFound
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}

// Exists reports whether key holds a value.
func (s *Store) Exists(key string) bool {
	s.mu.Lock()
	_, ok := s.cache[key]
	s.mu.Unlock()
	return ok
}

// Delete removes key and its file, signaling the change like a write.
// Removing an absent key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	if _, ok := s.cache[key]; !ok {
		s.mu.Unlock()
		return nil
	}
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		s.mu.Unlock()
		return err
	}
	delete(s.cache, key)
	listeners := make([]func(string), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(key)
	}
	return nil
}

// ClearAll removes every key, signaling each removal so subscribers
// see cleared keys the same way they see writes.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	removed := make([]string, 0, len(s.cache))
	for key := range s.cache {
		if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
			s.mu.Unlock()
			return err
		}
		delete(s.cache, key)
		removed = append(removed, key)
	}
	listeners := make([]func(string), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		for _, key := range removed {
			fn(key)
		}
	}
	return nil
}

// Keys returns every key currently holding a value.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.cache))
	for key := range s.cache {
		keys = append(keys, key)
	}
	return keys
}

// Dump returns a copy of every raw blob, keyed as stored. Used by the
// export path so dumps round-trip byte-equivalently.
func (s *Store) Dump() map[string]json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	dump := make(map[string]json.RawMessage, len(s.cache))
	for key, data := range s.cache {
		blob := make([]byte, len(data))
		copy(blob, data)
		dump[key] = blob
	}
	return dump
}

// Restore writes every blob in dump, replacing whatever each key held.
// Change signals fire per key.
func (s *Store) Restore(dump map[string]json.RawMessage) error {
	for key, data := range dump {
		if err := s.SaveRaw(key, data); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// writeFile persists atomically: write a temp file, then rename over
// the target so a crash never leaves a half-written blob.
func (s *Store) writeFile(key string, data []byte) error {
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(key))
}
