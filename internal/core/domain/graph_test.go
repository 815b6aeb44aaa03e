package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"rulerbuild.com/ruler/internal/core/domain"
)

func path(s string) domain.InternedString {
	return domain.NewInternedString(s)
}

func rule(targets, sources []string, command ...string) *domain.Rule {
	r := &domain.Rule{Command: command}
	for _, t := range targets {
		r.Targets = append(r.Targets, path(t))
	}
	for _, s := range sources {
		r.Sources = append(r.Sources, path(s))
	}
	return r
}

func TestGraph_AddRule_Conflict(t *testing.T) {
	g := domain.NewGraph()

	require.NoError(t, g.AddRule(rule([]string{"out"}, []string{"a.c"}, "cc", "a.c", "-o", "out")))

	err := g.AddRule(rule([]string{"out"}, []string{"b.c"}, "cc", "b.c", "-o", "out"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTargetConflict)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "out", zErr.Metadata()["target"])

	// The conflicting rule must not be registered.
	assert.Equal(t, 1, g.RuleCount())
}

func TestGraph_AddRule_NoTargets(t *testing.T) {
	g := domain.NewGraph()
	err := g.AddRule(rule(nil, []string{"a.c"}, "cc"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRuleSyntax)
}

func TestGraph_Closure_Cycle(t *testing.T) {
	tests := []struct {
		name  string
		rules []*domain.Rule
	}{
		{
			name: "self loop",
			rules: []*domain.Rule{
				rule([]string{"a"}, []string{"a"}, "touch", "a"),
			},
		},
		{
			name: "two node cycle",
			rules: []*domain.Rule{
				rule([]string{"a"}, []string{"b"}, "gen", "a"),
				rule([]string{"b"}, []string{"a"}, "gen", "b"),
			},
		},
		{
			name: "three node cycle",
			rules: []*domain.Rule{
				rule([]string{"a"}, []string{"b"}, "gen", "a"),
				rule([]string{"b"}, []string{"c"}, "gen", "b"),
				rule([]string{"c"}, []string{"a"}, "gen", "c"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := domain.NewGraph()
			for _, r := range tt.rules {
				require.NoError(t, g.AddRule(r))
			}

			_, err := g.Closure([]domain.InternedString{path("a")})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrCycleDetected)

			var zErr *zerr.Error
			require.ErrorAs(t, err, &zErr)
			cycle, ok := zErr.Metadata()["cycle"].(string)
			require.True(t, ok)
			assert.NotEmpty(t, cycle)
		})
	}
}

func TestGraph_Closure_Order(t *testing.T) {
	// prog depends on a.o and b.o, each compiled from its own source.
	g := domain.NewGraph()
	require.NoError(t, g.AddRule(rule([]string{"prog"}, []string{"a.o", "b.o"}, "cc", "a.o", "b.o", "-o", "prog")))
	require.NoError(t, g.AddRule(rule([]string{"a.o"}, []string{"a.c"}, "cc", "-c", "a.c")))
	require.NoError(t, g.AddRule(rule([]string{"b.o"}, []string{"b.c"}, "cc", "-c", "b.c")))

	order, err := g.Closure([]domain.InternedString{path("prog")})
	require.NoError(t, err)
	require.Len(t, order, 3)

	pos := make(map[string]int)
	for i, r := range order {
		pos[r.Targets[0].String()] = i
	}
	assert.Less(t, pos["a.o"], pos["prog"])
	assert.Less(t, pos["b.o"], pos["prog"])
}

func TestGraph_Closure_Partial(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddRule(rule([]string{"a.o"}, []string{"a.c"}, "cc", "-c", "a.c")))
	require.NoError(t, g.AddRule(rule([]string{"b.o"}, []string{"b.c"}, "cc", "-c", "b.c")))

	order, err := g.Closure([]domain.InternedString{path("a.o")})
	require.NoError(t, err)
	require.Len(t, order, 1)
	assert.Equal(t, "a.o", order[0].Targets[0].String())
}

func TestGraph_Closure_SharedDependency(t *testing.T) {
	// Diamond: both a.o and b.o depend on gen.h, whose producer must appear
	// exactly once, before both.
	g := domain.NewGraph()
	require.NoError(t, g.AddRule(rule([]string{"gen.h"}, []string{"gen.in"}, "gen", "gen.in")))
	require.NoError(t, g.AddRule(rule([]string{"a.o"}, []string{"a.c", "gen.h"}, "cc", "-c", "a.c")))
	require.NoError(t, g.AddRule(rule([]string{"b.o"}, []string{"b.c", "gen.h"}, "cc", "-c", "b.c")))

	order, err := g.Closure([]domain.InternedString{path("a.o"), path("b.o")})
	require.NoError(t, err)
	require.Len(t, order, 3)
	assert.Equal(t, "gen.h", order[0].Targets[0].String())
}

func TestGraph_Closure_LeafTarget(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddRule(rule([]string{"a.o"}, []string{"a.c"}, "cc", "-c", "a.c")))

	// Requesting a path with no producer yields an empty closure; the
	// caller decides whether that is an error.
	order, err := g.Closure([]domain.InternedString{path("a.c")})
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestGraph_Targets(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddRule(rule([]string{"a", "b"}, nil, "gen")))
	require.NoError(t, g.AddRule(rule([]string{"c"}, nil, "gen")))

	var names []string
	for _, tgt := range g.Targets() {
		names = append(names, tgt.String())
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestRule_Name(t *testing.T) {
	r := rule([]string{"a", "b"}, nil, "gen")
	assert.Equal(t, "a b", r.Name())
}

func TestRule_NoOp(t *testing.T) {
	assert.True(t, rule([]string{"a"}, nil).NoOp())
	assert.False(t, rule([]string{"a"}, nil, "touch", "a").NoOp())
}

func TestErrorsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(domain.ErrBuildFailed, domain.ErrTargetNotFound))
	assert.False(t, errors.Is(domain.ErrRuleSyntax, domain.ErrTargetConflict))
}
