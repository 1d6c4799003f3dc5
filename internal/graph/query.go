package graph

import "slices"

// ContainsAtom reports whether atom occurs anywhere in g.
func (g *Graph) ContainsAtom(atom string) bool {
	if slices.Contains(g.Atoms, atom) {
		return true
	}
	for _, sg := range g.Subgraphs {
		if sg.ContainsAtom(atom) {
			return true
		}
	}
	return false
}

// ContainsSubgraph reports whether a cut equal to sub occurs anywhere in g.
func (g *Graph) ContainsSubgraph(sub *Graph) bool {
	return g.containsKey(sub.key())
}

func (g *Graph) containsKey(key string) bool {
	for _, sg := range g.Subgraphs {
		if sg.key() == key || sg.containsKey(key) {
			return true
		}
	}
	return false
}

// PathsToAtom returns the path of every occurrence of atom in g. An atom
// that is the only element of its node is not counted as an occurrence.
func (g *Graph) PathsToAtom(atom string) []Path {
	return g.findAtom(atom, true)
}

// PathsToSubgraph returns the path of every cut in g equal to sub. As with
// PathsToAtom, a cut that is the only element of its node is skipped, and the
// search goes on inside it.
func (g *Graph) PathsToSubgraph(sub *Graph) []Path {
	return g.findCut(sub.key(), true)
}

func (g *Graph) findAtom(atom string, skipSingletons bool) []Path {
	var paths []Path
	if !skipSingletons || g.Size() > 1 {
		for i, a := range g.Atoms {
			if a == atom {
				paths = append(paths, Path{g.NumSubgraphs() + i})
			}
		}
	}
	for i, sg := range g.Subgraphs {
		if !sg.ContainsAtom(atom) {
			continue
		}
		for _, p := range sg.findAtom(atom, skipSingletons) {
			paths = append(paths, p.prepend(i))
		}
	}
	return paths
}

func (g *Graph) findCut(key string, skipSingletons bool) []Path {
	var paths []Path
	for i, sg := range g.Subgraphs {
		if sg.key() == key && (!skipSingletons || g.Size() > 1) {
			paths = append(paths, Path{i})
			continue
		}
		for _, p := range sg.findCut(key, skipSingletons) {
			paths = append(paths, p.prepend(i))
		}
	}
	return paths
}
