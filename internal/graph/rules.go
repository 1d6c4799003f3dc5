package graph

import (
	"fmt"
	"strings"
)

// Rule identifies one of the structural inference rules.
type Rule int

const (
	RuleDoubleCut Rule = iota
	RuleErasure
	RuleDeiteration
)

// Rules lists every supported rule in a stable order.
var Rules = []Rule{RuleDoubleCut, RuleErasure, RuleDeiteration}

func (r Rule) String() string {
	switch r {
	case RuleDoubleCut:
		return "double-cut"
	case RuleErasure:
		return "erasure"
	case RuleDeiteration:
		return "deiteration"
	default:
		return "?"
	}
}

// ParseRule returns the rule named name, as printed by Rule.String.
func ParseRule(name string) (Rule, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, r := range Rules {
		if r.String() == n {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRule, name)
}

// Sites returns the paths at which rule may be applied to g.
func (g *Graph) Sites(rule Rule) ([]Path, error) {
	switch rule {
	case RuleDoubleCut:
		return g.PossibleDoubleCuts(), nil
	case RuleErasure:
		return g.PossibleErasures(0), nil
	case RuleDeiteration:
		return g.PossibleDeiterations(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownRule, int(rule))
	}
}

// Apply applies rule at where and returns the resulting graph. Apply only
// checks the shape required to carry out the rewrite; use Sites to check that
// where is a legal site.
func (g *Graph) Apply(rule Rule, where Path) (*Graph, error) {
	switch rule {
	case RuleDoubleCut:
		return g.DoubleCut(where)
	case RuleErasure:
		return g.Erase(where)
	case RuleDeiteration:
		return g.Deiterate(where)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownRule, int(rule))
	}
}

// isDoubleCut reports whether g holds exactly one nested cut and nothing else.
func (g *Graph) isDoubleCut() bool {
	return g.NumSubgraphs() == 1 && g.Size() == 1
}

// PossibleDoubleCuts returns the path of every cut in g whose only content is
// another cut.
func (g *Graph) PossibleDoubleCuts() []Path {
	var paths []Path
	for i, sg := range g.Subgraphs {
		if sg.isDoubleCut() {
			paths = append(paths, Path{i})
		}
		for _, p := range sg.PossibleDoubleCuts() {
			paths = append(paths, p.prepend(i))
		}
	}
	return paths
}

// DoubleCut removes the double cut at where: the content of the inner cut
// moves into the node holding the outer cut, and both cuts disappear.
func (g *Graph) DoubleCut(where Path) (*Graph, error) {
	out := g.Clone()
	parent, idx, err := out.Lookup(where)
	if err != nil {
		return nil, err
	}
	if idx.Kind != CutElement {
		return nil, fmt.Errorf("%w: %s addresses an atom", ErrNotDoubleCut, where)
	}
	outer := parent.Subgraphs[idx.Pos]
	if !outer.isDoubleCut() {
		return nil, fmt.Errorf("%w: %s addresses %s", ErrNotDoubleCut, where, outer)
	}
	inner := outer.Subgraphs[0]

	parent.remove(idx)
	parent.Subgraphs = append(parent.Subgraphs, inner.Subgraphs...)
	parent.Atoms = append(parent.Atoms, inner.Atoms...)
	return out, nil
}

// PossibleErasures returns the paths of the elements of g that may be
// erased, g itself sitting at nesting level level. The children of a node at
// an even level are erasable, except the only element of a cut.
func (g *Graph) PossibleErasures(level int) []Path {
	var paths []Path
	for i, sg := range g.Subgraphs {
		for _, p := range sg.PossibleErasures(level + 1) {
			paths = append(paths, p.prepend(i))
		}
	}

	if level%2 != 0 {
		return paths
	}
	if g.Size() == 1 && !g.IsRoot {
		return paths
	}
	for i := 0; i < g.Size(); i++ {
		paths = append(paths, Path{i})
	}
	return paths
}

// Erase removes the element at where.
func (g *Graph) Erase(where Path) (*Graph, error) {
	return g.removeAt(where)
}

// PossibleDeiterations returns the paths of the elements of g that duplicate
// an element enclosing them. For each element of a node, every equal element
// found in that node or below it is a candidate, except the first one that
// sits directly in the node, which is kept as the original.
func (g *Graph) PossibleDeiterations() []Path {
	var paths []Path
	seen := make(map[string]struct{})
	add := func(ps ...Path) {
		for _, p := range ps {
			k := p.String()
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			paths = append(paths, p)
		}
	}

	for i, sg := range g.Subgraphs {
		add(withoutOriginal(g.findCut(sg.key(), false))...)
		for _, p := range sg.PossibleDeiterations() {
			add(p.prepend(i))
		}
	}
	for _, a := range g.Atoms {
		add(withoutOriginal(g.findAtom(a, false))...)
	}
	return paths
}

// withoutOriginal drops the first direct occurrence from occ. A lone
// occurrence has nothing to be deiterated against.
func withoutOriginal(occ []Path) []Path {
	if len(occ) < 2 {
		return nil
	}
	for i, p := range occ {
		if len(p) == 1 {
			out := make([]Path, 0, len(occ)-1)
			out = append(out, occ[:i]...)
			return append(out, occ[i+1:]...)
		}
	}
	return occ
}

// Deiterate removes the duplicate element at where.
func (g *Graph) Deiterate(where Path) (*Graph, error) {
	return g.removeAt(where)
}

func (g *Graph) removeAt(where Path) (*Graph, error) {
	out := g.Clone()
	parent, idx, err := out.Lookup(where)
	if err != nil {
		return nil, err
	}
	parent.remove(idx)
	return out, nil
}
