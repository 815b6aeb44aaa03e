// Package fs provides filesystem content hashing and rule fingerprinting.
package fs

import (
	"encoding/binary"
	"errors"
	"io"
	iofs "io/fs"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
	"rulerbuild.com/ruler/internal/core/domain"
	"rulerbuild.com/ruler/internal/core/ports"
)

var _ ports.Fingerprinter = (*Hasher)(nil)

// Hasher computes whole-file content digests and rule fingerprints.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// FileDigest computes the XXHash of a file's content.
func (h *Hasher) FileDigest(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// RuleFingerprint computes the fingerprint of one target of a rule: a single
// digest over the command arguments, the target path, and every source's
// path and content digest, with NUL separators between fields and sections.
// Equal fingerprints require equal command, target identity, and source
// content.
func (h *Hasher) RuleFingerprint(rule *domain.Rule, target domain.InternedString) (domain.Fingerprint, error) {
	hasher := xxhash.New()

	for _, arg := range rule.Command {
		_, _ = hasher.WriteString(arg)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	_, _ = hasher.WriteString(target.String())
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.Write([]byte{0})

	for _, src := range rule.Sources {
		path := src.String()
		if _, err := os.Stat(path); errors.Is(err, iofs.ErrNotExist) {
			return "", zerr.With(zerr.Wrap(domain.ErrMissingSource, "cannot fingerprint rule"), "path", path)
		}
		digest, err := h.FileDigest(path)
		if err != nil {
			return "", err
		}
		_, _ = hasher.WriteString(path)
		_, _ = hasher.Write([]byte{0})
		if err := binary.Write(hasher, binary.LittleEndian, digest); err != nil {
			return "", zerr.Wrap(err, "failed to write digest")
		}
	}

	return domain.NewFingerprint(hasher.Sum64()), nil
}
