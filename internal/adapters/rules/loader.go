package rules

import (
	"os"
	"unicode/utf8"

	"go.trai.ch/zerr"
	"rulerbuild.com/ruler/internal/core/domain"
	"rulerbuild.com/ruler/internal/core/ports"
)

var _ ports.RulesLoader = (*FileRulesLoader)(nil)

// FileRulesLoader implements ports.RulesLoader by reading a rules file from
// disk.
type FileRulesLoader struct{}

// NewLoader creates a new FileRulesLoader.
func NewLoader() *FileRulesLoader {
	return &FileRulesLoader{}
}

// Load reads the rules file at path, parses it, and builds the dependence
// graph. Producer conflicts surface here, before any execution.
func (l *FileRulesLoader) Load(path string) (*domain.Graph, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read rules file"), "path", path)
	}
	if !utf8.Valid(data) {
		return nil, zerr.With(zerr.Wrap(domain.ErrRuleSyntax, "rules file is not valid UTF-8"), "path", path)
	}

	parsed, err := Parse(string(data))
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	g := domain.NewGraph()
	for _, r := range parsed {
		if err := g.AddRule(r); err != nil {
			return nil, zerr.With(err, "path", path)
		}
	}
	return g, nil
}
