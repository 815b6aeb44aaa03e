package domain

import (
	"go.trai.ch/zerr"
)

// Graph is the dependence graph built from a parsed rules file. Nodes are
// file paths; an edge runs from every source path to every target path of a
// rule. Each path has at most one producing rule. The graph is immutable
// after construction.
type Graph struct {
	rules     []*Rule
	producers map[InternedString]*Rule
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		producers: make(map[InternedString]*Rule),
	}
}

// AddRule validates the rule and registers it as the producer of each of its
// targets. It returns ErrTargetConflict if a target already has a producer.
func (g *Graph) AddRule(r *Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	for _, t := range r.Targets {
		if _, exists := g.producers[t]; exists {
			return zerr.With(zerr.Wrap(ErrTargetConflict, "cannot add rule"), "target", t.String())
		}
	}
	for _, t := range r.Targets {
		g.producers[t] = r
	}
	g.rules = append(g.rules, r)
	return nil
}

// ProducerOf returns the rule producing the given path. A path with no
// producer is a leaf, supplied externally.
func (g *Graph) ProducerOf(path InternedString) (*Rule, bool) {
	r, ok := g.producers[path]
	return r, ok
}

// Rules returns all rules in declaration order.
func (g *Graph) Rules() []*Rule {
	return g.rules
}

// RuleCount returns the number of rules in the graph.
func (g *Graph) RuleCount() int {
	return len(g.rules)
}

// Targets returns every declared target path in declaration order. This is
// the default target set for build and the full set for clean.
func (g *Graph) Targets() []InternedString {
	var targets []InternedString
	for _, r := range g.rules {
		targets = append(targets, r.Targets...)
	}
	return targets
}

// Visit colors for the depth-first closure traversal.
const (
	unvisited = iota
	visiting
	visited
)

// Closure returns the rules transitively required to produce the requested
// targets, topologically sorted with dependencies before dependents. Ties
// among independently-ready rules are broken by first-encountered order from
// the request list, so the result is deterministic. It returns
// ErrCycleDetected when a producer cycle (self-loops included) is reached.
func (g *Graph) Closure(targets []InternedString) ([]*Rule, error) {
	state := make(map[*Rule]int, len(g.rules))
	order := make([]*Rule, 0, len(g.rules))
	var path []InternedString

	var visit func(target InternedString, r *Rule) error
	visit = func(target InternedString, r *Rule) error {
		state[r] = visiting
		path = append(path, target)

		for _, src := range r.Sources {
			producer, ok := g.producers[src]
			if !ok {
				continue // leaf source
			}
			switch state[producer] {
			case visiting:
				return cycleError(path, src)
			case unvisited:
				if err := visit(src, producer); err != nil {
					return err
				}
			}
		}

		state[r] = visited
		path = path[:len(path)-1]
		order = append(order, r)
		return nil
	}

	for _, target := range targets {
		producer, ok := g.producers[target]
		if !ok {
			continue // leaf, nothing to produce
		}
		if state[producer] == unvisited {
			if err := visit(target, producer); err != nil {
				return nil, err
			}
		}
	}

	return order, nil
}

// cycleError constructs an error describing the cycle reached at dep,
// attaching the path sequence as metadata.
func cycleError(path []InternedString, dep InternedString) error {
	start := 0
	for i, node := range path {
		if node == dep {
			start = i
			break
		}
	}
	cycle := ""
	for i := start; i < len(path); i++ {
		cycle += path[i].String() + " -> "
	}
	cycle += dep.String()
	return zerr.With(zerr.Wrap(ErrCycleDetected, "cannot order rules"), "cycle", cycle)
}
