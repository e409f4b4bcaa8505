package compiler

// DepGraph is the per-component directed multigraph of the design notes: an
// adjacency map from a vertex Id to every Id it depends on (dep -> Label),
// grounded on yaegi's own hand-rolled scope/symbol adjacency — no graph
// library appears anywhere in the retrieval pack, so this is a plain
// `map[Id]map[Id]Label` rather than a third-party graph type (see
// DESIGN.md).
//
// Edge direction follows the design notes step 3 literally: "(dep, lhs, label)" is
// inserted as an edge from lhs to dep, i.e. Edges[lhs][dep] = label. lhs
// "depends on" dep.
type DepGraph struct {
	Vertices map[Id]bool
	Edges    map[Id]map[Id]Label
}

func newDepGraph() *DepGraph {
	return &DepGraph{Vertices: map[Id]bool{}, Edges: map[Id]map[Id]Label{}}
}

func (g *DepGraph) addVertex(id Id) {
	g.Vertices[id] = true
	if g.Edges[id] == nil {
		g.Edges[id] = map[Id]Label{}
	}
}

// addEdge inserts (or strengthens, per Label.Less tie-break) an edge
// lhs -> dep with label. Multiple computed deps for the same pair are
// merged by keeping the smaller label, matching the "minimum label" rule
// used throughout the design notes.
func (g *DepGraph) addEdge(lhs, dep Id, label Label) {
	g.addVertex(lhs)
	g.addVertex(dep)
	if existing, ok := g.Edges[lhs][dep]; ok {
		g.Edges[lhs][dep] = MinLabel(existing, label)
		return
	}
	g.Edges[lhs][dep] = label
}

// ReducedGraph exposes only (output, input) arcs of a component's full
// graph, per the design notes step 5: used by callers to compute a call
// site's dependency contribution without re-walking the callee's body.
type ReducedGraph struct {
	// Arcs[output][input] = minimum Weight label on an all-Weight path.
	Arcs map[Id]map[Id]Label
	// ContractArcs[a][b] = Contract, for every identifier pair mutually
	// reachable via a contract term (the design notes step 2's contract rule).
	ContractArcs map[Id]map[Id]bool
}

func newReducedGraph() *ReducedGraph {
	return &ReducedGraph{Arcs: map[Id]map[Id]Label{}, ContractArcs: map[Id]map[Id]bool{}}
}

func (r *ReducedGraph) setArc(output, input Id, label Label) {
	if r.Arcs[output] == nil {
		r.Arcs[output] = map[Id]Label{}
	}
	if existing, ok := r.Arcs[output][input]; ok {
		r.Arcs[output][input] = MinLabel(existing, label)
		return
	}
	r.Arcs[output][input] = label
}

// Lookup returns the label for the arc output -> input, if the caller
// previously recorded the component's reduced graph, per the design notes
// step 2's component-call dependency rule.
func (r *ReducedGraph) Lookup(output, input Id) (Label, bool) {
	if m, ok := r.Arcs[output]; ok {
		if l, ok := m[input]; ok {
			return l, true
		}
	}
	return Label{}, false
}

// computeExprDependencies fills e.Dependencies (write-once) and every
// descendant's, bottom-up, per the design notes step 2's propagation rules.
// called looks up a called component's reduced graph for the
// component-call rule.
func computeExprDependencies(ctx *Context, e *Expr, called func(comp Id) *ReducedGraph) map[Id]Label {
	if e == nil {
		return nil
	}
	if e.Dependencies != nil {
		return e.Dependencies
	}

	deps := map[Id]Label{}
	switch e.Kind {
	case EConst, EEnumLit, ELambda, ENoneEvent:
		// empty set

	case EIdent:
		deps[e.Ref] = WeightLabel(0)

	case EFby:
		// Children[0] is the initial constant, Children[1] the delayed expr.
		_ = computeExprDependencies(ctx, e.Children[0], called)
		sub := computeExprDependencies(ctx, e.Children[1], called)
		for id, l := range sub {
			deps[id] = deps[id].Add(l.Increment())
		}

	case ECall, EUnitaryCall:
		rg := called(e.CalledComponent)
		inputs := ctx.Syms.ComponentInputs(e.CalledComponent)
		outputs := ctx.Syms.ComponentOutputs(e.CalledComponent)
		outID := e.Ref
		if e.Kind == EUnitaryCall {
			outID = e.UnitaryOutputDep()
		} else if len(outputs) > 0 {
			outID = outputs[0]
		}
		for i, arg := range e.Children {
			argDeps := computeExprDependencies(ctx, arg, called)
			if i >= len(inputs) || rg == nil {
				continue
			}
			arcLabel, ok := rg.Lookup(outID, inputs[i])
			if !ok {
				continue
			}
			for d, l := range argDeps {
				mergeDep(deps, d, arcLabel.Add(l))
			}
		}

	default:
		for _, c := range e.Children {
			sub := computeExprDependencies(ctx, c, called)
			for id, l := range sub {
				mergeDep(deps, id, l)
			}
		}
		if e.Lambda != nil {
			_ = computeExprDependencies(ctx, e.Lambda.Body, called)
		}
		for _, a := range e.Arms {
			sub := computeExprDependencies(ctx, a.Body, called)
			for id, l := range sub {
				mergeDep(deps, id, l)
			}
			if a.Guard != nil {
				guardDeps := computeExprDependencies(ctx, a.Guard, called)
				for id, l := range guardDeps {
					mergeDep(deps, id, l)
				}
			}
		}
	}

	e.Dependencies = deps
	return deps
}

// mergeDep records label l for dep, keeping the smaller label when dep is
// already present — the same minimum-label rule addEdge applies.
func mergeDep(deps map[Id]Label, dep Id, l Label) {
	if existing, ok := deps[dep]; ok {
		deps[dep] = MinLabel(existing, l)
		return
	}
	deps[dep] = l
}

// UnitaryOutputDep resolves the Id whose reduced-graph row an
// EUnitaryCall's dependency computation should read. For a call not yet
// split into unitary form, this is just the single output bound to Ref.
func (e *Expr) UnitaryOutputDep() Id {
	if e.OutputName != "" {
		return e.Ref
	}
	return e.Ref
}

// AnalyzeDependencies runs the algorithm over every component,
// scheduling them "in reverse topological order of the component-call
// graph" via a worklist: a component is analyzed once every component it
// calls already has a cached ReducedGraph. A component whose call graph
// has a cycle (mutual recursion between components, which the design notes never
// sanctions since calls only ever reach already-declared components) is
// analyzed anyway once no more progress is possible, using whatever
// partial reduced graphs exist, rather than looping forever.
func AnalyzeDependencies(ctx *Context) {
	item := ctx.Stats.Start("depgraph")
	defer ctx.Stats.End(item)

	pending := map[Id]*Component{}
	for id, c := range ctx.Components {
		pending[id] = c
	}
	reducedOf := func(id Id) *ReducedGraph { return ctx.ReducedGraphs[id] }

	for len(pending) > 0 {
		progressed := false
		for id, comp := range pending {
			if calleesReady(comp, ctx.ReducedGraphs) {
				buildDependencyGraph(ctx, comp, reducedOf)
				ctx.ReducedGraphs[id] = comp.ReducedGraph
				delete(pending, id)
				progressed = true
			}
		}
		if !progressed {
			// Residual cycle in the call graph: analyze the rest with
			// whatever reduced graphs are available so far.
			for id, comp := range pending {
				buildDependencyGraph(ctx, comp, reducedOf)
				ctx.ReducedGraphs[id] = comp.ReducedGraph
				delete(pending, id)
			}
			break
		}
	}

	if ctx.Service != nil {
		analyzeServiceGraph(ctx)
	}
}

func calleesReady(comp *Component, ready map[Id]*ReducedGraph) bool {
	ok := true
	for _, s := range comp.Statements {
		s.WalkExprs(func(e *Expr) bool {
			if e.Kind == ECall || e.Kind == EUnitaryCall {
				if _, done := ready[e.CalledComponent]; !done {
					ok = false
				}
			}
			return true
		}, nil)
	}
	return ok
}

// analyzeServiceGraph builds the service-level dependency graph over its
// flow statements, per the Service definition ("graph (over
// statement ids)"). Causality is not enforced here: the service wires
// components together but the causality rule is scoped to
// components.
func analyzeServiceGraph(ctx *Context) {
	g := newDepGraph()
	reducedOf := func(id Id) *ReducedGraph { return ctx.ReducedGraphs[id] }
	for _, imp := range ctx.Service.Imports {
		g.addVertex(imp)
	}
	for _, exp := range ctx.Service.Exports {
		g.addVertex(exp)
	}
	for _, s := range ctx.Service.Statements {
		if s.Ref == invalidID {
			continue
		}
		g.addVertex(s.Ref)
		for dep, label := range computeExprDependencies(ctx, s.Expr, reducedOf) {
			g.addEdge(s.Ref, dep, label)
		}
	}
	ctx.Service.Graph = g
}

// buildDependencyGraph runs the full per-component algorithm.
// reducedOf resolves another (already-analyzed) component's Id to its
// ReducedGraph, as required by the component-call rule; components must
// be processed in reverse topological order of the call graph so every
// reducedOf lookup is ready (AnalyzeDependencies' worklist schedules that
// order).
func buildDependencyGraph(ctx *Context, comp *Component, reducedOf func(Id) *ReducedGraph) {
	g := newDepGraph()
	for _, in := range comp.Inputs {
		g.addVertex(in)
	}
	for _, out := range comp.Outputs {
		g.addVertex(out.ID)
	}

	for _, stmt := range comp.Statements {
		lhs := stmt.Ref
		if lhs == invalidID {
			continue
		}
		g.addVertex(lhs)
		deps := computeExprDependencies(ctx, stmt.Expr, reducedOf)
		for dep, label := range deps {
			g.addEdge(lhs, dep, label)
		}
	}

	for _, term := range comp.Contract {
		ids := contractIdentifiers(term)
		for _, a := range ids {
			for _, b := range ids {
				if a == b {
					continue
				}
				g.addEdge(a, b, ContractLabel)
			}
		}
	}

	comp.DependencyGraph = g

	for _, scc := range tarjanSCC(g, weightZeroOnly) {
		if len(scc) > 1 || selfLoopZeroWeight(g, scc[0]) {
			ctx.Errs.addSimple(ErrNotCausalComponent, comp.Loc, "component %q is not causal", comp.Name)
			break
		}
	}

	comp.ReducedGraph = buildReducedGraph(g, comp.Inputs, comp.Outputs)
}

func selfLoopZeroWeight(g *DepGraph, v Id) bool {
	if l, ok := g.Edges[v][v]; ok {
		return l.Kind == weightLabel && l.Weight == 0
	}
	return false
}

// weightZeroOnly restricts an edge iteration to Weight(0) edges, per the
// causality check's "subgraph containing only edges with label Weight(0)".
func weightZeroOnly(l Label) bool { return l.Kind == weightLabel && l.Weight == 0 }

// contractIdentifiers collects every identifier mentioned in a contract
// term, per the design notes step 2's contract rule.
func contractIdentifiers(e *Expr) []Id {
	var out []Id
	e.Walk(func(n *Expr) bool {
		if n.Kind == EIdent {
			out = append(out, n.Ref)
		}
		return true
	}, nil)
	return out
}

// buildReducedGraph computes, for every (output, input) pair, the minimum
// label over all-Weight paths (the design notes step 5), plus the separate
// contract-reachability relation.
func buildReducedGraph(g *DepGraph, inputs []Id, outputs []OutputBinding) *ReducedGraph {
	rg := newReducedGraph()
	for _, out := range outputs {
		dist := weightedShortestPaths(g, out.ID)
		for _, in := range inputs {
			if l, ok := dist[in]; ok {
				rg.setArc(out.ID, in, l)
			}
		}
		reach := contractReachable(g, out.ID)
		for _, in := range inputs {
			if reach[in] {
				if rg.ContractArcs[out.ID] == nil {
					rg.ContractArcs[out.ID] = map[Id]bool{}
				}
				rg.ContractArcs[out.ID][in] = true
			}
		}
	}
	return rg
}

// weightedShortestPaths computes, from source, the minimum-sum Weight
// label reachable at every vertex via edges with a weight label (Contract
// edges are not traversed here; they have their own reachability
// relation). This is a Bellman-Ford-style relaxation rather than
// Dijkstra's because summed weights are used purely as tie-break keys,
// not true non-negative distances requiring a priority queue — component
// graphs are small, so the simplicity wins here (see DESIGN.md).
func weightedShortestPaths(g *DepGraph, source Id) map[Id]Label {
	dist := map[Id]Label{source: WeightLabel(0)}
	changed := true
	for iter := 0; changed && iter < len(g.Vertices)+1; iter++ {
		changed = false
		for v := range g.Vertices {
			cur, ok := dist[v]
			if !ok {
				continue
			}
			for dep, label := range g.Edges[v] {
				if label.Kind != weightLabel {
					continue
				}
				cand := cur.Add(label)
				if existing, ok := dist[dep]; !ok || cand.Less(existing) {
					dist[dep] = cand
					changed = true
				}
			}
		}
	}
	delete(dist, source)
	return dist
}

// contractReachable computes the set of vertices reachable from source
// via any edge (Contract or Weight), matching "each identifier pair
// becomes mutually reachable via Contract": contract reachability is
// computed over the whole graph since a contract term's mutual edges are
// themselves plain graph edges.
func contractReachable(g *DepGraph, source Id) map[Id]bool {
	seen := map[Id]bool{}
	var stack []Id
	stack = append(stack, source)
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for dep := range g.Edges[v] {
			if !seen[dep] {
				seen[dep] = true
				stack = append(stack, dep)
			}
		}
	}
	delete(seen, source)
	return seen
}
