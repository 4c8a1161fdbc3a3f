package routecache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultFilePath is where FileStore writes when no path is given.
const DefaultFilePath = "bootstrap/cache/routes.yaml"

// FileStore keeps the table in a single YAML file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFilePath
	}
	return &FileStore{path: path}
}

// Path returns the cache file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (*Table, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("routecache: read %s: %w", s.path, err)
	}
	return Decode(data)
}

// Save writes to a temporary file in the same directory and renames it
// over the cache file.
func (s *FileStore) Save(ctx context.Context, t *Table) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("routecache: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".routes-*.yaml")
	if err != nil {
		return fmt.Errorf("routecache: create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("routecache: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("routecache: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("routecache: rename to %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("routecache: remove %s: %w", s.path, err)
	}
	return nil
}
