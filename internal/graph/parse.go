package graph

import (
	"fmt"
	"strings"
)

const (
	sheetOpen  = '('
	sheetClose = ')'
	cutOpen    = '['
	cutClose   = ']'

	separator = ", "
)

// Parse builds a graph from its textual form. The outer bracket pair selects
// the node kind: "(...)" is a sheet of assertion and "[...]" a cut. The
// result is in canonical order.
func Parse(text string) (*Graph, error) {
	g, err := parseNode(strings.TrimSpace(text), 0)
	if err != nil {
		return nil, err
	}
	g.Sort()
	return g, nil
}

// MustParse is like Parse but panics if text is malformed.
func MustParse(text string) *Graph {
	g, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return g
}

// parseNode parses s, whose first byte sits at offset in the original input.
func parseNode(s string, offset int) (*Graph, error) {
	if len(s) < 2 {
		return nil, fmt.Errorf("%w: %q at offset %d is not a bracketed graph", ErrMalformed, s, offset)
	}

	g := &Graph{}
	switch lb, rb := s[0], s[len(s)-1]; {
	case lb == sheetOpen && rb == sheetClose:
		g.IsRoot = true
	case lb == cutOpen && rb == cutClose:
	default:
		return nil, fmt.Errorf("%w: unmatched outer brackets %q and %q at offset %d", ErrMalformed, lb, rb, offset)
	}

	elems, err := splitLevel(s[1:len(s)-1], offset+1)
	if err != nil {
		return nil, err
	}
	for _, e := range elems {
		switch e.text[0] {
		case cutOpen:
			sg, err := parseNode(e.text, e.offset)
			if err != nil {
				return nil, err
			}
			g.Subgraphs = append(g.Subgraphs, sg)
		case sheetOpen:
			return nil, fmt.Errorf("%w: nested sheet %q at offset %d", ErrMalformed, e.text, e.offset)
		default:
			if i := strings.IndexAny(e.text, ",[]()"); i >= 0 {
				return nil, fmt.Errorf("%w: atom %q contains %q at offset %d", ErrMalformed, e.text, e.text[i], e.offset+i)
			}
			g.Atoms = append(g.Atoms, e.text)
		}
	}
	return g, nil
}

type element struct {
	text   string
	offset int
}

// splitLevel splits s at the commas that are not enclosed in cut brackets and
// trims each element. An empty s has no elements.
func splitLevel(s string, offset int) ([]element, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var elems []element
	depth, start := 0, 0
	flush := func(end int) error {
		raw := s[start:end]
		text := strings.TrimSpace(raw)
		if text == "" {
			return fmt.Errorf("%w: empty element at offset %d", ErrMalformed, offset+start)
		}
		lead := len(raw) - len(strings.TrimLeft(raw, " \t\r\n"))
		elems = append(elems, element{text: text, offset: offset + start + lead})
		return nil
	}

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case cutOpen:
			depth++
		case cutClose:
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced %q at offset %d", ErrMalformed, cutClose, offset+i)
			}
		case ',':
			if depth == 0 {
				if err := flush(i); err != nil {
					return nil, err
				}
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: %d unclosed %q", ErrMalformed, depth, cutOpen)
	}
	if err := flush(len(s)); err != nil {
		return nil, err
	}
	return elems, nil
}

// String returns the serialized form of g: nested cuts first, then atoms,
// joined by ", " and wrapped in the node's brackets.
func (g *Graph) String() string {
	var sb strings.Builder
	g.write(&sb)
	return sb.String()
}

func (g *Graph) write(sb *strings.Builder) {
	lb, rb := byte(cutOpen), byte(cutClose)
	if g.IsRoot {
		lb, rb = sheetOpen, sheetClose
	}
	sb.WriteByte(lb)
	for i, sg := range g.Subgraphs {
		if i > 0 {
			sb.WriteString(separator)
		}
		sg.write(sb)
	}
	for i, a := range g.Atoms {
		if i > 0 || len(g.Subgraphs) > 0 {
			sb.WriteString(separator)
		}
		sb.WriteString(a)
	}
	sb.WriteByte(rb)
}
