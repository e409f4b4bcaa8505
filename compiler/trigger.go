package compiler

// trigger.go implements the service-level trigger graph, in
// both strategies, behind a shared interface — grounded directly on
// original_source/compiler_ir2/src/ir1_into_ir2/trigger.rs's `Graph` enum
// dispatching to `EventIslesGraph`/`OnChangeGraph`.

// TriggerGraph answers, for a producing statement, which statements react
// when it fires.
type TriggerGraph interface {
	// Triggered returns every statement Id that reacts when src fires.
	Triggered(src Id) []Id
}

// onChangeGraph is the OnChange strategy: "the triggers graph is the
// dependency graph unchanged" — any change to a producer re-triggers all
// descendants.
type onChangeGraph struct {
	forward map[Id][]Id // src -> statements that consume src
}

func (g *onChangeGraph) Triggered(src Id) []Id { return g.forward[src] }

func buildOnChangeGraph(g *DepGraph) *onChangeGraph {
	forward := map[Id][]Id{}
	for lhs, edges := range g.Edges {
		for dep, label := range edges {
			if label.Kind != weightLabel {
				continue
			}
			forward[dep] = append(forward[dep], lhs)
		}
	}
	return &onChangeGraph{forward: forward}
}

// eventIslesGraph is the EventIsles strategy: starting from every
// Event<…>-typed flow, a DFS over the graph collects statements whose
// inputs all belong to (or transitively derive from) the same event.
type eventIslesGraph struct {
	isles map[Id][]Id // event flow Id -> ordered statement Ids in its isle
	// member indexes, for O(1) "is already in isle" checks during
	// construction, mirroring add_nodes_deps's "only add an edge to the
	// trigger subgraph if the neighbor is already a member" rule.
	member map[Id]map[Id]bool
}

func (g *eventIslesGraph) Triggered(src Id) []Id {
	var out []Id
	for event, members := range g.member {
		if members[src] {
			out = append(out, g.isles[event]...)
		}
	}
	return out
}

// buildEventIslesGraph constructs one isle per event-typed flow Id in
// events, per the design notes: a DFS over g starting at the event, adding a
// neighbor to the isle only when it is reachable through edges whose
// other endpoint is already an isle member (so a statement depending on
// two unrelated signals isn't pulled into an isle through one signal
// alone unless that signal itself is already part of the isle).
func buildEventIslesGraph(g *DepGraph, events []Id) *eventIslesGraph {
	eg := &eventIslesGraph{isles: map[Id][]Id{}, member: map[Id]map[Id]bool{}}

	forward := map[Id][]Id{} // dep -> consumers
	for lhs, edges := range g.Edges {
		for dep := range edges {
			forward[dep] = append(forward[dep], lhs)
		}
	}

	for _, ev := range events {
		members := map[Id]bool{ev: true}
		order := []Id{ev}
		stack := append([]Id{}, forward[ev]...)
		for len(stack) > 0 {
			n := len(stack) - 1
			cand := stack[n]
			stack = stack[:n]
			if members[cand] {
				continue
			}
			// add_nodes_deps rule: cand joins once at least one of its
			// dependencies is already a member (a vertex with no
			// dependencies always qualifies).
			if !allDepsSatisfied(g, cand, members) {
				continue
			}
			members[cand] = true
			order = append(order, cand)
			stack = append(stack, forward[cand]...)
		}
		eg.isles[ev] = order
		eg.member[ev] = members
	}
	return eg
}

func allDepsSatisfied(g *DepGraph, v Id, members map[Id]bool) bool {
	deps := g.Edges[v]
	if len(deps) == 0 {
		return true
	}
	anyMember := false
	for dep := range deps {
		if members[dep] {
			anyMember = true
		}
	}
	return anyMember
}

// BuildTriggerGraph selects and builds the configured strategy for a
// service, per the `propagation` option.
func BuildTriggerGraph(ctx *Context, svc *Service, strategy PropagationStrategy, eventFlows []Id) TriggerGraph {
	if svc.Graph == nil {
		return &onChangeGraph{forward: map[Id][]Id{}}
	}
	if strategy == PropagationEventIsles {
		return buildEventIslesGraph(svc.Graph, eventFlows)
	}
	return buildOnChangeGraph(svc.Graph)
}
