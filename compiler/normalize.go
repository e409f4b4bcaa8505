package compiler

// normalize.go implements the normal-form rewrite: repeated
// passes over a component's statements until a fixed point, mirroring
// original_source/compiler/src/frontend/normalizing/**'s structure one
// pass per concern (normal_form for hoisting, inlining/statement.rs for
// inline-when-needed) rather than one monolithic rewrite function.

// Normalize runs every normalization sub-pass to a fixed point, then
// unitary-node extraction, then inline-when-needed, over every component
// in ctx, per the design notes.
func Normalize(ctx *Context) {
	item := ctx.Stats.Start("normalize")
	defer ctx.Stats.End(item)

	for _, comp := range ctx.Components {
		desugarCallOutputAccess(comp)
	}
	for _, comp := range ctx.Components {
		registerRootFbyBuffers(ctx, comp)
		runToFixedPoint(func() bool {
			a := liftDelayedSubexpressions(ctx, comp)
			b := hoistComponentCalls(ctx, comp)
			return a || b
		})
	}

	extractUnitaryNodes(ctx)

	for _, comp := range ctx.Components {
		inlineWhenNeeded(ctx, comp)
	}

	computeCanonicalHashes(ctx)
}

func runToFixedPoint(step func() bool) {
	for i := 0; i < 64; i++ {
		if !step() {
			return
		}
	}
}

// desugarCallOutputAccess collapses `C(args).field` (parsed as
// EFieldAccess wrapping ECall) into a single EUnitaryCall node carrying
// OutputName, the HIR shape the design notes names directly
// ("component-call (with memory_id, called_component_id, inputs)").
func desugarCallOutputAccess(comp *Component) {
	for _, s := range comp.Statements {
		s.WalkExprs(nil, func(e *Expr) {
			for i, c := range e.Children {
				e.Children[i] = collapseCallAccess(c)
			}
		})
		if s.Expr != nil {
			s.Expr = collapseCallAccess(s.Expr)
		}
	}
}

func collapseCallAccess(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	if e.Kind == EFieldAccess && len(e.Children) == 1 && e.Children[0].Kind == ECall {
		call := e.Children[0]
		call.Kind = EUnitaryCall
		call.OutputName = e.Name
		return call
	}
	return e
}

// registerRootFbyBuffers materializes a buffer for each `let` whose rhs is
// itself a bare fby (`let n = 0 fby (n + tick);`) — the already-a-buffer-
// binding case liftDelayedSubexpressions's own doc comment assumes someone
// else handles. Unlike addBuffer (which mints a synthetic id for a fby
// found buried inside a larger expression), the root case reuses the
// let's own Ref as the buffer's Id: `n` already names the buffer.
func registerRootFbyBuffers(ctx *Context, comp *Component) {
	for _, s := range comp.Statements {
		if s.Kind != SLet || s.Expr == nil || s.Expr.Kind != EFby {
			continue
		}
		if s.Ref == invalidID {
			continue
		}
		comp.Memory.Buffers = append(comp.Memory.Buffers, BufferEntry{
			ID: s.Ref, Name: ctx.Syms.GetName(s.Ref), Typ: s.Expr.Typ, Initial: s.Expr.Children[0],
		})
	}
}

// liftDelayedSubexpressions implements the "lift delayed
// subexpressions" step: any `fby` not already the whole rhs of a
// statement is extracted into a fresh buffer. Returns whether it changed
// anything (for the fixed-point driver).
func liftDelayedSubexpressions(ctx *Context, comp *Component) bool {
	changed := false
	var newStmts []*Stmt
	for _, s := range comp.Statements {
		if s.Expr != nil && s.Expr.Kind != EFby {
			s.Expr, newStmts = liftFbyIn(ctx, comp, s.Expr, newStmts, &changed)
		}
	}
	if len(newStmts) > 0 {
		comp.Statements = append(newStmts, comp.Statements...)
	}
	return changed
}

// liftFbyIn walks e looking for fby subexpressions not at e's own root
// (the root case, a buffer binding, is handled by the caller passing
// a non-fby e only). Every fby found deeper is replaced by a reference to
// a freshly materialized buffer.
func liftFbyIn(ctx *Context, comp *Component, e *Expr, acc []*Stmt, changed *bool) (*Expr, []*Stmt) {
	if e == nil {
		return nil, acc
	}
	for i, c := range e.Children {
		e.Children[i], acc = liftFbyIn(ctx, comp, c, acc, changed)
	}
	if e.Lambda != nil {
		e.Lambda.Body, acc = liftFbyIn(ctx, comp, e.Lambda.Body, acc, changed)
	}
	if e.Kind != EFby {
		return e, acc
	}
	*changed = true
	initial, delayed := e.Children[0], e.Children[1]
	bufID := addBuffer(ctx, comp, e.Typ, initial)
	acc = append(acc, &Stmt{Kind: SLet, Span: e.Span, Ref: bufID,
		Pattern: &Pattern{Kind: PatIdent, Ref: bufID},
		Expr:    &Expr{Kind: EFby, Span: e.Span, Typ: e.Typ, Children: []*Expr{initial, delayed}}})
	return &Expr{Kind: EIdent, Span: e.Span, Ref: bufID, Typ: e.Typ}, acc
}

// hoistComponentCalls implements the "hoist component calls"
// step: a call whose result feeds a non-identity enclosing expression is
// extracted into a fresh statement, and every call argument is recursed
// on until it is a plain identifier.
func hoistComponentCalls(ctx *Context, comp *Component) bool {
	changed := false
	var newStmts []*Stmt
	for _, s := range comp.Statements {
		if s.Expr == nil {
			continue
		}
		if isCallKind(s.Expr.Kind) {
			s.Expr, newStmts = hoistCallArgs(ctx, comp, s.Expr, newStmts, &changed)
			continue
		}
		s.Expr, newStmts = hoistCallsIn(ctx, comp, s.Expr, newStmts, &changed)
	}
	if len(newStmts) > 0 {
		comp.Statements = append(newStmts, comp.Statements...)
	}
	return changed
}

func isCallKind(k ExprKind) bool { return k == ECall || k == EUnitaryCall }

// hoistCallsIn walks e (known not to itself be a statement-root call)
// replacing any nested call with a reference to a fresh statement that
// performs the call.
func hoistCallsIn(ctx *Context, comp *Component, e *Expr, acc []*Stmt, changed *bool) (*Expr, []*Stmt) {
	if e == nil {
		return nil, acc
	}
	for i, c := range e.Children {
		e.Children[i], acc = hoistCallsIn(ctx, comp, c, acc, changed)
	}
	if e.Lambda != nil {
		e.Lambda.Body, acc = hoistCallsIn(ctx, comp, e.Lambda.Body, acc, changed)
	}
	if !isCallKind(e.Kind) {
		return e, acc
	}
	*changed = true
	var call *Expr
	call, acc = hoistCallArgs(ctx, comp, e, acc, changed)
	tmp := ctx.Syms.InsertFresh(comp.Name+"_t", ScopeVeryLocal, call.Typ)
	acc = append(acc, &Stmt{Kind: SLet, Span: e.Span, Ref: tmp,
		Pattern: &Pattern{Kind: PatIdent, Ref: tmp}, Expr: call})
	return &Expr{Kind: EIdent, Span: e.Span, Ref: tmp, Typ: call.Typ}, acc
}

// hoistCallArgs recursively normalizes a call's own arguments until each
// is a plain identifier, per the design notes: "Arguments themselves are
// recursively normalized until each argument is a plain identifier."
func hoistCallArgs(ctx *Context, comp *Component, call *Expr, acc []*Stmt, changed *bool) (*Expr, []*Stmt) {
	for i, arg := range call.Children {
		if arg.Kind == EIdent {
			continue
		}
		*changed = true
		var normalized *Expr
		normalized, acc = hoistCallsIn(ctx, comp, arg, acc, changed)
		tmp := ctx.Syms.InsertFresh(comp.Name+"_a", ScopeVeryLocal, normalized.Typ)
		acc = append(acc, &Stmt{Kind: SLet, Span: arg.Span, Ref: tmp,
			Pattern: &Pattern{Kind: PatIdent, Ref: tmp}, Expr: normalized})
		call.Children[i] = &Expr{Kind: EIdent, Span: arg.Span, Ref: tmp, Typ: normalized.Typ}
	}
	return call, acc
}

// extractUnitaryNodes implements the "unitary-node extraction"
// step: every multi-output component is split into N single-output
// components, each retaining only statements transitively reachable (by
// Weight edges) from its output. Every caller's EUnitaryCall is rewritten
// to reference the matching unitary form.
func extractUnitaryNodes(ctx *Context) {
	multi := map[Id]*Component{}
	for id, c := range ctx.Components {
		if len(c.Outputs) > 1 {
			multi[id] = c
		}
	}
	if len(multi) == 0 {
		return
	}

	unitaryFor := map[Id]map[string]Id{} // original component Id -> output name -> unitary component Id

	for id, comp := range multi {
		unitaryFor[id] = map[string]Id{}
		for _, out := range comp.Outputs {
			reach := reachableStatements(comp, out.ID)
			newID := ctx.Syms.InsertFresh(comp.Name+"_"+out.Name, ScopeLocal, nil)
			ctx.Syms.SetComponentSignature(newID, comp.Inputs, []Id{out.ID})
			unitaryFor[id][out.Name] = newID
			ctx.Components[newID] = &Component{
				ID:         newID,
				Name:       comp.Name + "_" + out.Name,
				Inputs:     comp.Inputs,
				Outputs:    []OutputBinding{out},
				Statements: reach,
				Memory:     comp.Memory,
				Contract:   comp.Contract,
				Loc:        comp.Loc,
				UnitaryOf:     id,
				UnitaryOutput: out.ID,
			}
		}
		delete(ctx.Components, id)
	}

	rewrite := func(e *Expr) {
		if e == nil || e.Kind != EUnitaryCall {
			return
		}
		if byOut, ok := unitaryFor[e.CalledComponent]; ok {
			if newID, ok := byOut[e.OutputName]; ok {
				e.CalledComponent = newID
			}
		}
	}
	for _, comp := range ctx.Components {
		for _, s := range comp.Statements {
			s.WalkExprs(func(n *Expr) bool { rewrite(n); return true }, nil)
		}
	}
	if ctx.Service != nil {
		for _, s := range ctx.Service.Statements {
			s.WalkExprs(func(n *Expr) bool { rewrite(n); return true }, nil)
		}
	}
}

// reachableStatements returns, in original order, every statement whose
// lhs is transitively reachable (via Weight edges) from root, per
// the unitary-extraction retention rule.
func reachableStatements(comp *Component, root Id) []*Stmt {
	if comp.DependencyGraph == nil {
		return comp.Statements
	}
	reach := map[Id]bool{root: true}
	var stack []Id
	stack = append(stack, root)
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for dep, label := range comp.DependencyGraph.Edges[v] {
			if label.Kind != weightLabel {
				continue
			}
			if !reach[dep] {
				reach[dep] = true
				stack = append(stack, dep)
			}
		}
	}
	var out []*Stmt
	for _, s := range comp.Statements {
		if s.Ref != invalidID && reach[s.Ref] {
			out = append(out, s)
		}
	}
	return out
}

// inlineWhenNeeded implements the final step: if a unitary
// call's output identifier has a Weight-edge path back to itself in the
// *enclosing* component's graph, the call cannot remain a call (it would
// manifest as an illegal zero-weight-looking edge once IR1 closes the
// component boundary) and must be inlined: the callee's statements and
// memory are imported with fresh identifiers, inputs substituted, and the
// callee's memory entry removed.
func inlineWhenNeeded(ctx *Context, comp *Component) {
	if comp.DependencyGraph == nil {
		return
	}
	for _, s := range comp.Statements {
		s.WalkExprs(func(e *Expr) bool {
			if e.Kind != EUnitaryCall {
				return true
			}
			if !selfReachable(comp.DependencyGraph, s.Ref) {
				return true
			}
			inlineCall(ctx, comp, s, e)
			return false
		}, nil)
	}
}

// selfReachable reports whether v can reach itself via one or more
// Weight edges (a shifted causality loop, necessarily carrying at least
// one Weight(k>=1) hop since the Weight(0) subgraph is already known
// acyclic by the causality check).
func selfReachable(g *DepGraph, v Id) bool {
	seen := map[Id]bool{}
	var stack []Id
	for dep, label := range g.Edges[v] {
		if label.Kind == weightLabel {
			stack = append(stack, dep)
		}
	}
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		if cur == v {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		for dep, label := range g.Edges[cur] {
			if label.Kind == weightLabel {
				stack = append(stack, dep)
			}
		}
	}
	return false
}

// inlineCall imports callee's statements/memory into comp with fresh
// identifiers, substitutes inputs with the call's argument expressions,
// and rewrites the statement's rhs to reference the callee's (renamed)
// output identifier directly.
func inlineCall(ctx *Context, comp *Component, stmt *Stmt, call *Expr) {
	callee, ok := ctx.Components[call.CalledComponent]
	if !ok {
		return
	}
	rename := map[Id]Id{}
	for i, in := range callee.Inputs {
		if i < len(call.Children) && call.Children[i].Kind == EIdent {
			rename[in] = call.Children[i].Ref
		}
	}
	for _, b := range callee.Memory.Buffers {
		fresh := ctx.Syms.InsertFresh(b.Name, ScopeVeryLocal, b.Typ)
		rename[b.ID] = fresh
	}

	var imported []*Stmt
	for _, s := range callee.Statements {
		clone := s.Clone()
		renameStmt(clone, rename)
		imported = append(imported, clone)
	}
	comp.Statements = append(imported, comp.Statements...)

	outID := callee.UnitaryOutput
	if renamed, ok := rename[outID]; ok {
		outID = renamed
	}
	stmt.Expr = &Expr{Kind: EIdent, Span: call.Span, Ref: outID, Typ: call.Typ}

	for _, b := range callee.Memory.Buffers {
		newID := rename[b.ID]
		comp.Memory.Buffers = append(comp.Memory.Buffers, BufferEntry{
			ID: newID, Name: ctx.Syms.GetName(newID), Typ: b.Typ, Initial: b.Initial,
		})
	}
	delete(comp.Memory.CalledComponent, call.MemoryID)
}

func renameStmt(s *Stmt, rename map[Id]Id) {
	if s == nil {
		return
	}
	if id, ok := rename[s.Ref]; ok {
		s.Ref = id
	}
	renamePattern(s.Pattern, rename)
	renameExpr(s.Expr, rename)
	renameExpr(s.MatchScrutinee, rename)
	for _, a := range s.MatchArms {
		renamePattern(a.Pattern, rename)
		for _, sub := range a.Body {
			renameStmt(sub, rename)
		}
	}
	for _, w := range s.WhenArms {
		if w.Pattern != nil {
			renamePattern(w.Pattern, rename)
		}
		for _, sub := range w.Body {
			renameStmt(sub, rename)
		}
	}
}

func renamePattern(p *Pattern, rename map[Id]Id) {
	if p == nil {
		return
	}
	if id, ok := rename[p.Ref]; ok {
		p.Ref = id
	}
	for _, e := range p.Elems {
		renamePattern(e, rename)
	}
}

func renameExpr(e *Expr, rename map[Id]Id) {
	if e == nil {
		return
	}
	if id, ok := rename[e.Ref]; ok {
		e.Ref = id
	}
	for _, c := range e.Children {
		renameExpr(c, rename)
	}
	if e.Lambda != nil {
		renameExpr(e.Lambda.Body, rename)
	}
	for _, a := range e.Arms {
		renamePattern(a.Pattern, rename)
		renameExpr(a.Guard, rename)
		renameExpr(a.Body, rename)
	}
	for _, w := range e.WhenArms {
		if w.Pattern != nil {
			renamePattern(w.Pattern, rename)
		}
		for _, s := range w.Body {
			renameStmt(s, rename)
		}
	}
}
