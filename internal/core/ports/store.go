package ports

import "rulerbuild.com/ruler/internal/core/domain"

// CacheStore defines the interface for the persistent, content-addressed
// store of previously produced or displaced target files. Implementations
// must serialize concurrent mutation internally.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CacheStore interface {
	// Store inserts the bytes under the fingerprint. Re-storing an existing
	// fingerprint is a no-op success.
	Store(fp domain.Fingerprint, data []byte) error

	// Recover returns the bytes stored under the fingerprint, or nil, nil
	// when no entry exists. The entry is read, not removed.
	Recover(fp domain.Fingerprint) ([]byte, error)

	// Displace stores the current bytes of the file at path under the
	// fingerprint, then removes the file from its build location.
	Displace(fp domain.Fingerprint, path string) error

	// Contains reports whether an entry exists for the fingerprint.
	Contains(fp domain.Fingerprint) bool

	// LastProduction returns the fingerprint the target at path was last
	// produced under, if recorded.
	LastProduction(path string) (domain.Fingerprint, bool)

	// RememberProduction records that the target at path was produced under
	// the fingerprint. The record persists across invocations.
	RememberProduction(path string, fp domain.Fingerprint) error
}

// StoreFactory opens a CacheStore rooted at a state directory. The directory
// is only known per invocation (it is a CLI flag), so components receive the
// factory and open the store late.
type StoreFactory interface {
	Open(dir string) (CacheStore, error)
}
