package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileKV keeps every key in one JSON file. It is the default backend for
// development and single-node deployments. Values must be valid JSON, which
// holds for every caller here since they store serialized collections.
type FileKV struct {
	path string
	mu   sync.Mutex
}

// NewFileKV creates a file-backed KV at path. The file is created lazily on
// the first Set.
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

func (f *FileKV) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file kv read: %w", err)
	}

	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &m); err != nil {
		// A corrupt file reads as empty; the next Set rewrites it whole.
		return map[string]json.RawMessage{}, nil
	}
	return m, nil
}

// Get returns the value stored under key, or (nil, nil) when absent.
func (f *FileKV) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, err := f.load()
	if err != nil {
		return nil, err
	}
	v, ok := m[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

// Set stores value under key, rewriting the whole file atomically.
func (f *FileKV) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, err := f.load()
	if err != nil {
		return err
	}
	m[key] = json.RawMessage(value)

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("file kv marshal: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("file kv write: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("file kv rename: %w", err)
	}
	return nil
}

// Ping checks that the directory holding the file is writable.
func (f *FileKV) Ping(ctx context.Context) error {
	dir := filepath.Dir(f.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("file kv ping: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("file kv ping: %s is not a directory", dir)
	}
	return nil
}
