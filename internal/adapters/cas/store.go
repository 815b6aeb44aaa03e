// Package cas implements the content-addressed fingerprint store backing
// clean and build-avoidance.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/zerr"
	"rulerbuild.com/ruler/internal/core/domain"
	"rulerbuild.com/ruler/internal/core/ports"
)

var _ ports.CacheStore = (*Store)(nil)

// Store implements ports.CacheStore using a blob directory keyed by
// fingerprint plus a flat JSON manifest of production records. The store is
// the only component with write access to its directory; a mutex serializes
// concurrent mutation within a process.
type Store struct {
	dir      string
	mu       sync.RWMutex
	manifest map[string]domain.Fingerprint
}

// NewStore opens (creating if necessary) the store rooted at the given state
// directory.
func NewStore(dir string) (*Store, error) {
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(domain.CachePath(dir), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create cache directory"), "dir", dir)
	}

	s := &Store{
		dir:      dir,
		manifest: make(map[string]domain.Fingerprint),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(domain.MemoryPath(s.dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read production manifest")
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &s.manifest); err != nil {
		return zerr.Wrap(err, "failed to unmarshal production manifest")
	}
	return nil
}

// save persists the manifest. Callers must hold the mutex.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.manifest, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal production manifest")
	}
	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(domain.MemoryPath(s.dir), data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to write production manifest")
	}
	return nil
}

func (s *Store) blobPath(fp domain.Fingerprint) string {
	return filepath.Join(domain.CachePath(s.dir), fp.String())
}

// Store inserts the bytes under the fingerprint. Re-storing an existing
// fingerprint is a no-op success, so two rules producing bit-identical
// outputs share one entry.
func (s *Store) Store(fp domain.Fingerprint, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.blobPath(fp)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	//nolint:gosec // Blob path is derived from a hex fingerprint
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to store cache entry"), "fingerprint", fp.String())
	}
	return nil
}

// Recover returns the bytes stored under the fingerprint, or nil, nil when
// absent. The entry remains in the cache.
func (s *Store) Recover(fp domain.Fingerprint) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	//nolint:gosec // Blob path is derived from a hex fingerprint
	data, err := os.ReadFile(s.blobPath(fp))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read cache entry"), "fingerprint", fp.String())
	}
	return data, nil
}

// Contains reports whether an entry exists for the fingerprint.
func (s *Store) Contains(fp domain.Fingerprint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.blobPath(fp))
	return err == nil
}

// Displace moves the file at path into the cache under the fingerprint. When
// an entry already exists for the fingerprint the file is simply removed,
// matching the idempotent-store contract.
func (s *Store) Displace(fp domain.Fingerprint, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob := s.blobPath(fp)
	if _, err := os.Stat(blob); err == nil {
		if err := os.Remove(path); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to remove displaced file"), "path", path)
		}
		return nil
	}

	if err := os.Rename(path, blob); err == nil {
		return nil
	}
	// Rename fails across filesystems; fall back to copy and remove.
	data, err := os.ReadFile(path) //nolint:gosec // Path is a declared target
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read file for displacement"), "path", path)
	}
	//nolint:gosec // Blob path is derived from a hex fingerprint
	if err := os.WriteFile(blob, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to store displaced file"), "fingerprint", fp.String())
	}
	if err := os.Remove(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove displaced file"), "path", path)
	}
	return nil
}

// LastProduction returns the fingerprint the target at path was last
// produced under, if recorded.
func (s *Store) LastProduction(path string) (domain.Fingerprint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fp, ok := s.manifest[path]
	return fp, ok
}

// RememberProduction records the production fingerprint for the target at
// path and persists the manifest.
func (s *Store) RememberProduction(path string, fp domain.Fingerprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.manifest[path] = fp
	return s.save()
}
