// Package rules implements the rules-file parser and the RulesLoader adapter.
package rules

import (
	"strings"

	"go.trai.ch/zerr"
	"rulerbuild.com/ruler/internal/core/domain"
)

// terminator is the line that closes each of the three rule sections.
const terminator = ":"

// Parse converts rules-file text into the ordered rule sequence.
//
// Grammar: a rule is three sections, targets, sources and command, each a run
// of non-empty lines closed by a line containing exactly ":". Rules are
// separated by a blank line. Blank (or whitespace-only) lines inside a
// section are malformed.
func Parse(content string) ([]*domain.Rule, error) {
	lines := strings.Split(content, "\n")
	// A trailing newline leaves one empty trailing element; drop it so it
	// is not mistaken for a rule separator check below.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	var result []*domain.Rule
	i := 0
	for {
		for i < len(lines) && blank(lines[i]) {
			i++
		}
		if i >= len(lines) {
			break
		}

		rule, next, err := parseRule(lines, i)
		if err != nil {
			return nil, err
		}
		result = append(result, rule)
		i = next

		if i < len(lines) && !blank(lines[i]) {
			return nil, syntaxError("rules must be separated by a blank line", i+1)
		}
	}

	return result, nil
}

// parseRule reads one rule starting at index i and returns the rule and the
// index of the first line after it.
func parseRule(lines []string, i int) (*domain.Rule, int, error) {
	start := i + 1

	targets, i, err := parseSection(lines, i)
	if err != nil {
		return nil, 0, err
	}
	sources, i, err := parseSection(lines, i)
	if err != nil {
		return nil, 0, err
	}
	command, i, err := parseSection(lines, i)
	if err != nil {
		return nil, 0, err
	}

	switch {
	case len(targets) == 0:
		return nil, 0, syntaxError("rule has no targets", start)
	case len(command) == 0 && len(sources) > 0:
		return nil, 0, syntaxError("rule with sources has no command", start)
	case len(command) == 0 && len(sources) == 0:
		return nil, 0, syntaxError("rule declares a leaf target with no sources and no command", start)
	}

	return &domain.Rule{
		Targets: intern(targets),
		Sources: intern(sources),
		Command: command,
		Line:    start,
	}, i, nil
}

// parseSection collects entry lines until the terminator. Blank lines and
// end of input before the terminator are malformed.
func parseSection(lines []string, i int) ([]string, int, error) {
	var entries []string
	for ; i < len(lines); i++ {
		line := strings.TrimSuffix(lines[i], "\r")
		if line == terminator {
			return entries, i + 1, nil
		}
		if blank(line) {
			return nil, 0, syntaxError("blank line inside rule section", i+1)
		}
		entries = append(entries, line)
	}
	return nil, 0, syntaxError("section not terminated by ':' before end of input", len(lines))
}

func blank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func syntaxError(msg string, line int) error {
	return zerr.With(zerr.Wrap(domain.ErrRuleSyntax, msg), "line", line)
}

func intern(entries []string) []domain.InternedString {
	if len(entries) == 0 {
		return nil
	}
	res := make([]domain.InternedString, len(entries))
	for i, e := range entries {
		res[i] = domain.NewInternedString(e)
	}
	return res
}
