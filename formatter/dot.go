package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gnoswap-labs/aegraph/internal/graph"
)

// Dot renders g as a GraphViz digraph. The sheet is a box, cuts are
// ellipses and atoms are plain labels; children follow the cuts-then-atoms
// order of the serialization.
func Dot(g *graph.Graph) string {
	var b strings.Builder
	b.WriteString("digraph aegraph {\n")
	next := 0
	writeDotNode(&b, g, -1, &next)
	b.WriteString("}\n")
	return b.String()
}

func writeDotNode(b *strings.Builder, g *graph.Graph, parent int, next *int) {
	id := *next
	*next++

	label, shape := "cut", "ellipse"
	if g.IsRoot {
		label, shape = "sheet", "box"
	}
	fmt.Fprintf(b, "\tn%d [label=%q, shape=%s];\n", id, label, shape)
	if parent >= 0 {
		fmt.Fprintf(b, "\tn%d -> n%d;\n", parent, id)
	}

	for _, sg := range g.Subgraphs {
		writeDotNode(b, sg, id, next)
	}
	for _, atom := range g.Atoms {
		atomID := *next
		*next++
		fmt.Fprintf(b, "\tn%d [label=%s, shape=plaintext];\n", atomID, strconv.Quote(atom))
		fmt.Fprintf(b, "\tn%d -> n%d;\n", id, atomID)
	}
}
