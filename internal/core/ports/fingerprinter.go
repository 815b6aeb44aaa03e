package ports

import "rulerbuild.com/ruler/internal/core/domain"

// Fingerprinter defines the interface for computing content digests and rule
// fingerprints.
//
//go:generate go run go.uber.org/mock/mockgen -source=fingerprinter.go -destination=mocks/mock_fingerprinter.go -package=mocks
type Fingerprinter interface {
	// FileDigest computes the content digest of the file at path.
	FileDigest(path string) (uint64, error)

	// RuleFingerprint computes the fingerprint of one target of a rule from
	// the rule's command, the target path, and the current content of every
	// source. It returns domain.ErrMissingSource when a source cannot be
	// read.
	RuleFingerprint(rule *domain.Rule, target domain.InternedString) (domain.Fingerprint, error)
}
