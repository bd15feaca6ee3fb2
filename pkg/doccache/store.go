// Package doccache provides on-disk caching of raw upstream documentation
// blobs.
//
// Each entry is the unmodified JSON document for one module of one release
// line, stored at <dir>/<version>/<module>.json. Entries are written once on
// first fetch and read thereafter; with the default TTL of 0 they never
// expire. Reads are not locked: concurrent runs against the same directory
// are not a supported scenario and may race on writes (last writer wins).
package doccache

import (
	"os"
	"path/filepath"
	"time"

	"nodediff/pkg/errors"
)

// Store is a read-through cache for raw module documents, keyed by
// (version, module).
type Store interface {
	// Get retrieves the raw document for module under version.
	// The second return value reports whether an entry was found.
	Get(version, module string) ([]byte, bool, error)

	// Set stores the raw document for module under version, overwriting
	// any existing entry.
	Set(version, module string, data []byte) error
}

// DirStore implements Store on the local filesystem.
//
// Cache entries have a time-to-live based on file modification time.
// A TTL of 0 means entries never expire.
type DirStore struct {
	dir string
	ttl time.Duration
}

// NewDirStore creates a Store rooted at dir with the given TTL.
// The directory is created if it doesn't exist.
func NewDirStore(dir string, ttl time.Duration) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirStore{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory.
func (s *DirStore) Dir() string { return s.dir }

// TTL returns the time-to-live for cache entries.
func (s *DirStore) TTL() time.Duration { return s.ttl }

// Get retrieves the cached document for (version, module).
//
// Return values indicate three distinct outcomes:
//   - (data, true, nil): entry found and fresh
//   - (nil, false, nil): no entry, or entry exceeded its TTL
//   - (nil, false, err): invalid module name or I/O error
func (s *DirStore) Get(version, module string) ([]byte, bool, error) {
	path, err := s.path(version, module)
	if err != nil {
		return nil, false, err
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if s.ttl > 0 && time.Since(info.ModTime()) > s.ttl {
		return nil, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores data for (version, module), resetting the entry's
// modification time and thereby its TTL.
func (s *DirStore) Set(version, module string, data []byte) error {
	path, err := s.path(version, module)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// path maps a cache key to <dir>/<version>/<module>.json.
// Both components are validated since they come from scraped input and
// become file names.
func (s *DirStore) path(version, module string) (string, error) {
	if err := errors.ValidateModuleName(version); err != nil {
		return "", err
	}
	if err := errors.ValidateModuleName(module); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, version, module+".json"), nil
}

// Ensure DirStore implements Store.
var _ Store = (*DirStore)(nil)

// NullStore is a no-op Store that never stores anything.
// Used when caching is disabled via --no-cache.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore { return &NullStore{} }

// Get always reports a miss.
func (NullStore) Get(version, module string) ([]byte, bool, error) { return nil, false, nil }

// Set does nothing.
func (NullStore) Set(version, module string, data []byte) error { return nil }

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
