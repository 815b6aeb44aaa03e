package rules_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"rulerbuild.com/ruler/internal/adapters/rules"
	"rulerbuild.com/ruler/internal/core/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		check   func(t *testing.T, parsed []*domain.Rule)
	}{
		{
			name:    "empty input",
			content: "",
			want:    0,
		},
		{
			name:    "blank lines only",
			content: "\n\n   \n",
			want:    0,
		},
		{
			name:    "single rule",
			content: "out\n:\na.c\n:\ncc a.c -o out\n:\n",
			want:    1,
			check: func(t *testing.T, parsed []*domain.Rule) {
				r := parsed[0]
				assert.Equal(t, "out", r.Targets[0].String())
				assert.Equal(t, "a.c", r.Sources[0].String())
				assert.Equal(t, []string{"cc a.c -o out"}, r.Command)
				assert.Equal(t, 1, r.Line)
			},
		},
		{
			name:    "one argument per line",
			content: "out\n:\na.c\n:\ncc\na.c\n-o\nout\n:\n",
			want:    1,
			check: func(t *testing.T, parsed []*domain.Rule) {
				assert.Equal(t, []string{"cc", "a.c", "-o", "out"}, parsed[0].Command)
			},
		},
		{
			name:    "multiple targets and sources",
			content: "a.out\nb.out\n:\nx.c\ny.c\n:\ngen\n:\n",
			want:    1,
			check: func(t *testing.T, parsed []*domain.Rule) {
				assert.Len(t, parsed[0].Targets, 2)
				assert.Len(t, parsed[0].Sources, 2)
			},
		},
		{
			name:    "two rules separated by blank line",
			content: "a.o\n:\na.c\n:\ncc\n:\n\nb.o\n:\nb.c\n:\ncc\n:\n",
			want:    2,
			check: func(t *testing.T, parsed []*domain.Rule) {
				assert.Equal(t, "a.o", parsed[0].Targets[0].String())
				assert.Equal(t, "b.o", parsed[1].Targets[0].String())
				assert.Equal(t, 8, parsed[1].Line)
			},
		},
		{
			name:    "empty sources",
			content: "stamp\n:\n:\ntouch stamp\n:\n",
			want:    1,
			check: func(t *testing.T, parsed []*domain.Rule) {
				assert.Empty(t, parsed[0].Sources)
				assert.False(t, parsed[0].NoOp())
			},
		},
		{
			name:    "crlf line endings",
			content: "out\r\n:\r\na.c\r\n:\r\ncc\r\n:\r\n",
			want:    1,
		},
		{
			name:    "no trailing newline",
			content: "out\n:\na.c\n:\ncc\n:",
			want:    1,
		},
		{
			name:    "multiple blank lines between rules",
			content: "a\n:\n:\ntouch a\n:\n\n\n\nb\n:\n:\ntouch b\n:\n",
			want:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := rules.Parse(tt.content)
			require.NoError(t, err)
			require.Len(t, parsed, tt.want)
			if tt.check != nil {
				tt.check(t, parsed)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantLine int
	}{
		{
			name:     "rule without targets",
			content:  ":\na.c\n:\ncc\n:\n",
			wantLine: 1,
		},
		{
			name:     "unterminated section",
			content:  "out\n:\na.c\n",
			wantLine: 3,
		},
		{
			name:     "missing command section",
			content:  "out\n:\na.c\n:\n",
			wantLine: 4,
		},
		{
			name:     "rules not separated by blank line",
			content:  "a\n:\n:\ntouch a\n:\nb\n:\n:\ntouch b\n:\n",
			wantLine: 6,
		},
		{
			name:     "blank line inside section",
			content:  "out\n\n:\na.c\n:\ncc\n:\n",
			wantLine: 2,
		},
		{
			name:     "sources without command",
			content:  "out\n:\na.c\n:\n:\n",
			wantLine: 1,
		},
		{
			name:     "no sources and no command",
			content:  "out\n:\n:\n:\n",
			wantLine: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rules.Parse(tt.content)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrRuleSyntax)

			var zErr *zerr.Error
			require.ErrorAs(t, err, &zErr)
			assert.Equal(t, tt.wantLine, zErr.Metadata()["line"])
		})
	}
}

func TestFileRulesLoader_Load(t *testing.T) {
	dir := t.TempDir()
	loader := rules.NewLoader()

	t.Run("builds graph from file", func(t *testing.T) {
		path := filepath.Join(dir, "build.rules")
		content := "prog\n:\na.o\n:\ncc\na.o\n-o\nprog\n:\n\na.o\n:\na.c\n:\ncc\n-c\na.c\n:\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		graph, err := loader.Load(path)
		require.NoError(t, err)
		assert.Equal(t, 2, graph.RuleCount())

		producer, ok := graph.ProducerOf(domain.NewInternedString("prog"))
		require.True(t, ok)
		assert.Equal(t, "prog", producer.Targets[0].String())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(filepath.Join(dir, "nope.rules"))
		require.Error(t, err)
	})

	t.Run("duplicate target fails before execution", func(t *testing.T) {
		path := filepath.Join(dir, "dup.rules")
		content := "out\n:\na.c\n:\ncc\n:\n\nout\n:\nb.c\n:\ncc\n:\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := loader.Load(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrTargetConflict)
	})

	t.Run("rejects invalid utf8", func(t *testing.T) {
		path := filepath.Join(dir, "bad.rules")
		require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00}, 0o644))

		_, err := loader.Load(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrRuleSyntax)
	})
}
