package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStore keeps one loose file per key in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store backed by it.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("cache directory must be specified")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the loose file location of key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key)
}

// Read returns the content of key unchanged, or ErrNotFound.
func (s *FileStore) Read(key string) (string, error) {
	b, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read cache %s: %w", key, err)
	}
	return string(b), nil
}

// Write persists content for key through a temporary file so readers never see a partial entry.
func (s *FileStore) Write(key, content string) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-"+key+"-*")
	if err != nil {
		return fmt.Errorf("write cache %s: %w", key, err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache %s: %w", key, err)
	}
	return nil
}

// Keys lists loose entries whose key satisfies match, sorted by name.
// Hidden files, including interrupted writes, are skipped.
func (s *FileStore) Keys(match func(key string) bool) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list cache %s: %w", s.dir, err)
	}
	var keys []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if match == nil || match(e.Name()) {
			keys = append(keys, e.Name())
		}
	}
	sort.Strings(keys)
	return keys, nil
}
