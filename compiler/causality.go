package compiler

// tarjanSCC computes the strongly connected components of g restricted to
// edges for which include returns true, using Tarjan's algorithm
// hand-written against the plain map[Id]map[Id]Label adjacency of
// depgraph.go — no third-party graph package appears anywhere in the
// retrieval pack (see DESIGN.md), so this mirrors yaegi's own preference
// for direct, explicit data-structure code over an external dependency
// for a concern the corpus never reaches for a library to solve.
//
// Every SCC is returned, including trivial (size-1) ones; callers that
// only care about non-trivial cycles filter by length, as
// buildDependencyGraph does.
func tarjanSCC(g *DepGraph, include func(Label) bool) [][]Id {
	t := &tarjanState{
		g:       g,
		include: include,
		index:   map[Id]int{},
		lowlink: map[Id]int{},
		onStack: map[Id]bool{},
	}
	for v := range g.Vertices {
		if _, visited := t.index[v]; !visited {
			t.strongConnect(v)
		}
	}
	return t.sccs
}

type tarjanState struct {
	g       *DepGraph
	include func(Label) bool

	counter int
	index   map[Id]int
	lowlink map[Id]int
	onStack map[Id]bool
	stack   []Id

	sccs [][]Id
}

func (t *tarjanState) strongConnect(v Id) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for w, label := range t.g.Edges[v] {
		if !t.include(label) {
			continue
		}
		if _, visited := t.index[w]; !visited {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var scc []Id
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}
