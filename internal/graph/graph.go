package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// Graph is a node of an existential graph: either the sheet of assertion
// (IsRoot) or a cut. A node owns its atoms and nested cuts outright.
type Graph struct {
	IsRoot    bool
	Atoms     []string
	Subgraphs []*Graph
}

// NewSheet returns an empty sheet of assertion.
func NewSheet() *Graph {
	return &Graph{IsRoot: true}
}

// NewCut returns a cut holding the given atoms and nested cuts.
func NewCut(atoms []string, subgraphs ...*Graph) *Graph {
	return &Graph{Atoms: atoms, Subgraphs: subgraphs}
}

// NumAtoms returns the number of atoms directly inside g.
func (g *Graph) NumAtoms() int {
	return len(g.Atoms)
}

// NumSubgraphs returns the number of cuts directly inside g.
func (g *Graph) NumSubgraphs() int {
	return len(g.Subgraphs)
}

// Size returns the number of direct children of g, atoms and cuts alike.
func (g *Graph) Size() int {
	return g.NumAtoms() + g.NumSubgraphs()
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}
	c := &Graph{IsRoot: g.IsRoot}
	if g.Atoms != nil {
		c.Atoms = append(make([]string, 0, len(g.Atoms)), g.Atoms...)
	}
	if g.Subgraphs != nil {
		c.Subgraphs = make([]*Graph, len(g.Subgraphs))
		for i, sg := range g.Subgraphs {
			c.Subgraphs[i] = sg.Clone()
		}
	}
	return c
}

// At returns the i-th child of g under the cuts-then-atoms convention.
// A cut is returned as a copy, an atom is returned as a sheet holding only
// that atom, and an out of range index yields the empty sheet.
func (g *Graph) At(i int) *Graph {
	idx, err := g.Index(i)
	if err != nil {
		return NewSheet()
	}
	if idx.Kind == CutElement {
		return g.Subgraphs[idx.Pos].Clone()
	}
	return &Graph{IsRoot: true, Atoms: []string{g.Atoms[idx.Pos]}}
}

// ElementKind tells which of a node's two child lists an Index points into.
type ElementKind int

const (
	CutElement ElementKind = iota
	AtomElement
)

func (k ElementKind) String() string {
	switch k {
	case CutElement:
		return "cut"
	case AtomElement:
		return "atom"
	default:
		return "?"
	}
}

// Index is a child position tagged with the list it belongs to.
type Index struct {
	Kind ElementKind
	Pos  int
}

// Index decodes a flat child index of g into a tagged Index.
func (g *Graph) Index(i int) (Index, error) {
	switch {
	case i < 0 || i >= g.Size():
		return Index{}, fmt.Errorf("%w: index %d out of range for node of size %d", ErrInvalidPath, i, g.Size())
	case i < g.NumSubgraphs():
		return Index{Kind: CutElement, Pos: i}, nil
	default:
		return Index{Kind: AtomElement, Pos: i - g.NumSubgraphs()}, nil
	}
}

// Path addresses an element of a graph by successive child indices.
type Path []int

// String renders the path as comma separated indices, e.g. "0,2,1".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// Equal reports whether p and q hold the same indices.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// ParsePath parses the form produced by Path.String. Whitespace around the
// indices is ignored; an empty string is an error.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	fields := strings.Split(s, ",")
	p := make(Path, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%w: bad index %q", ErrInvalidPath, f)
		}
		p = append(p, v)
	}
	return p, nil
}

// prepend returns a new path made of head followed by p.
func (p Path) prepend(head int) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, head)
	return append(out, p...)
}

// Lookup resolves where against g. It returns the node holding the
// addressed element together with the element's tagged index in that node.
// Every index but the last must select a cut.
func (g *Graph) Lookup(where Path) (*Graph, Index, error) {
	if len(where) == 0 {
		return nil, Index{}, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	parent := g
	for depth, i := range where[:len(where)-1] {
		idx, err := parent.Index(i)
		if err != nil {
			return nil, Index{}, fmt.Errorf("at depth %d: %w", depth, err)
		}
		if idx.Kind != CutElement {
			return nil, Index{}, fmt.Errorf("%w: index %d at depth %d selects an atom", ErrInvalidPath, i, depth)
		}
		parent = parent.Subgraphs[idx.Pos]
	}
	last := where[len(where)-1]
	idx, err := parent.Index(last)
	if err != nil {
		return nil, Index{}, fmt.Errorf("at depth %d: %w", len(where)-1, err)
	}
	return parent, idx, nil
}

// Element returns the element addressed by where: a copy of the cut, or the
// atom wrapped in a sheet, matching At.
func (g *Graph) Element(where Path) (*Graph, error) {
	parent, idx, err := g.Lookup(where)
	if err != nil {
		return nil, err
	}
	return parent.At(flat(parent, idx)), nil
}

func flat(g *Graph, idx Index) int {
	if idx.Kind == CutElement {
		return idx.Pos
	}
	return g.NumSubgraphs() + idx.Pos
}

// remove deletes the element at idx from g.
func (g *Graph) remove(idx Index) {
	switch idx.Kind {
	case CutElement:
		g.Subgraphs = append(g.Subgraphs[:idx.Pos], g.Subgraphs[idx.Pos+1:]...)
	case AtomElement:
		g.Atoms = append(g.Atoms[:idx.Pos], g.Atoms[idx.Pos+1:]...)
	}
}
