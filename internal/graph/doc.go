// Package graph implements Peirce's alpha Existential Graphs.
//
// A graph is a rooted tree with two node kinds. The top node is the sheet of
// assertion, written with parentheses, and every nested node is a cut,
// written with square brackets. Each node owns a list of atoms (propositional
// symbols) and a list of nested cuts:
//
//	(A, [B, C], [[D]])
//
// is a sheet holding the atom A, a cut around B and C, and a double cut
// around D.
//
// # Addressing
//
// Elements are addressed by a Path, a sequence of child indices starting at
// the top node. Within a node, indices first run over the nested cuts and then
// over the atoms: for a node with n cuts, index i < n selects Subgraphs[i] and
// index i >= n selects Atoms[i-n]. Index converts a flat index into a tagged
// one so the two namespaces never get mixed up past that point.
//
// # Rules
//
// Three structural rules of the calculus are supported, each as a query for
// applicable sites and an operation applying the rule at one site:
//
//   - double cut: PossibleDoubleCuts / DoubleCut
//   - erasure: PossibleErasures / Erase
//   - deiteration: PossibleDeiterations / Deiterate
//
// Rule applications never modify the receiver; they work on a deep copy and
// return it.
package graph
