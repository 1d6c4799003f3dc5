package graph

import (
	"sort"
	"strings"
)

// Sort puts g in canonical order, in place: nested cuts are sorted first,
// then atoms are sorted lexicographically and cuts by their serialization.
func (g *Graph) Sort() {
	sort.Strings(g.Atoms)
	for _, sg := range g.Subgraphs {
		sg.Sort()
	}

	keys := make(map[*Graph]string, len(g.Subgraphs))
	for _, sg := range g.Subgraphs {
		keys[sg] = sg.String()
	}
	sort.SliceStable(g.Subgraphs, func(i, j int) bool {
		return keys[g.Subgraphs[i]] < keys[g.Subgraphs[j]]
	})
}

// Canonical returns a sorted copy of g, leaving g untouched.
func (g *Graph) Canonical() *Graph {
	c := g.Clone()
	c.Sort()
	return c
}

// Compare orders two graphs by their canonical serialization and returns
// -1, 0 or +1.
func Compare(a, b *Graph) int {
	return strings.Compare(a.key(), b.key())
}

// Equal reports whether g and other are the same graph up to the order of
// their elements.
func (g *Graph) Equal(other *Graph) bool {
	if g == nil || other == nil {
		return g == other
	}
	return Compare(g, other) == 0
}

// Less reports whether g sorts before other in canonical order.
func (g *Graph) Less(other *Graph) bool {
	return Compare(g, other) < 0
}

// isCanonical reports whether g is already sorted at every level.
func (g *Graph) isCanonical() bool {
	if !sort.StringsAreSorted(g.Atoms) {
		return false
	}
	for i, sg := range g.Subgraphs {
		if !sg.isCanonical() {
			return false
		}
		if i > 0 && g.Subgraphs[i-1].String() > sg.String() {
			return false
		}
	}
	return true
}

// key is the canonical serialization of g without copying when g is
// already sorted.
func (g *Graph) key() string {
	if g.isCanonical() {
		return g.String()
	}
	return g.Canonical().String()
}
