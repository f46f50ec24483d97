package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no entry exists for a key.
	ErrNotFound = errors.New("cache entry not found")
)

// Store is a memo of raw page content keyed by a deterministic key.
type Store interface {
	Read(key string) (string, error)
	Write(key, content string) error
}

// FetchFunc obtains content for a key that is not cached yet.
type FetchFunc func(ctx context.Context) (string, error)

// GetOrFetch returns the cached content for key, or calls fetch, persists its
// result verbatim and returns it. fetched reports whether fetch was called.
func GetOrFetch(ctx context.Context, s Store, key string, fetch FetchFunc) (content string, fetched bool, err error) {
	content, err = s.Read(key)
	if err == nil {
		return content, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", false, err
	}

	content, err = fetch(ctx)
	if err != nil {
		return "", true, err
	}
	if err := s.Write(key, content); err != nil {
		return "", true, err
	}
	return content, true, nil
}
