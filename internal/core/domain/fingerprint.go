package domain

import "fmt"

// Fingerprint is the deterministic cache key derived from a rule's command,
// one target path, and the content digest of every source at production
// time. Two fingerprints are equal iff command, target identity, and every
// source's content are pairwise equal. The textual form is the 16-character
// lowercase hex encoding of a 64-bit digest, safe for use as a file name in
// the cache directory.
type Fingerprint string

// NewFingerprint formats a 64-bit digest as a Fingerprint.
func NewFingerprint(sum uint64) Fingerprint {
	return Fingerprint(fmt.Sprintf("%016x", sum))
}

// String returns the hex form of the fingerprint.
func (f Fingerprint) String() string {
	return string(f)
}
