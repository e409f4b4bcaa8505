package compiler

// ir1.go implements the HIR -> IR1 lowering of the design notes stage 7: "IR1
// makes memory explicit and closes the component boundary." Concretely,
// it turns a normalized Component's Memory and Statements into the three
// item kinds the design notes names for every buffer and called-component
// entry, ready for target-AST emission.

// StateField is one field of a component's generated state struct,
// the design notes: "a state-struct field `last_<name>: T`" for a buffer, or
// "a state-struct field `<slot>: <CalleeState>`" for a called component.
type StateField struct {
	Name       string
	Typ        *Type
	IsCalledComponent bool
	CalleeName string // set when IsCalledComponent
}

// InitStmt is one statement of the generated `init()` function.
type InitStmt struct {
	Field string
	// Either Expr (a constant/identifier-in-scope initial expression) or,
	// for a called component, CalleeInit names the callee's init function.
	Expr       *Expr
	CalleeInit string
}

// StepStmt is one statement of the generated `step()` function, in
// emission order: non-update statements first, then buffer updates
// ("ordering: buffer updates are emitted after all non-update
// statements", the design notes).
type StepStmt struct {
	IsBufferUpdate bool
	IsCalledStep   bool
	Field          string // buffer name, or called-component slot name
	Source         *Stmt  // the underlying HIR statement, for non-update/non-call steps
	CallArgs       []*Expr
	ResultField    string // output the statement binds, for SOutput
}

// IR1Component is the per-component explicit-memory form.
type IR1Component struct {
	Component  *Component
	StateFields []StateField
	InitStmts  []InitStmt
	StepStmts  []StepStmt
}

// LowerToIR1 materializes every component's memory per the design notes.
func LowerToIR1(ctx *Context) map[Id]*IR1Component {
	item := ctx.Stats.Start("ir1")
	defer ctx.Stats.End(item)

	out := map[Id]*IR1Component{}
	for id, comp := range ctx.Components {
		out[id] = lowerComponentToIR1(ctx, comp)
	}
	return out
}

func lowerComponentToIR1(ctx *Context, comp *Component) *IR1Component {
	ir1 := &IR1Component{Component: comp}

	for _, b := range comp.Memory.Buffers {
		fieldName := "last_" + b.Name
		ir1.StateFields = append(ir1.StateFields, StateField{Name: fieldName, Typ: b.Typ})
		ir1.InitStmts = append(ir1.InitStmts, InitStmt{Field: fieldName, Expr: b.Initial})
	}
	for memID, calleeID := range comp.Memory.CalledComponent {
		callee := ctx.Components[calleeID]
		slot := ctx.Syms.GetName(memID)
		calleeName := ""
		if callee != nil {
			calleeName = toCamelCase(callee.Name) + "State"
		}
		ir1.StateFields = append(ir1.StateFields, StateField{Name: slot, IsCalledComponent: true, CalleeName: calleeName})
		ir1.InitStmts = append(ir1.InitStmts, InitStmt{Field: slot, CalleeInit: calleeName})
	}

	var updates []StepStmt
	for _, s := range comp.Statements {
		switch {
		case s.Kind == SLet && isBufferStmt(comp, s):
			name := ctx.Syms.GetName(s.Ref)
			updates = append(updates, StepStmt{IsBufferUpdate: true, Field: "last_" + name, Source: s})
		case containsCall(s.Expr):
			ir1.StepStmts = append(ir1.StepStmts, lowerCallStmt(ctx, comp, s))
		default:
			ir1.StepStmts = append(ir1.StepStmts, StepStmt{Source: s, ResultField: outputFieldOf(ctx, s)})
		}
	}
	ir1.StepStmts = append(ir1.StepStmts, updates...)
	return ir1
}

func isBufferStmt(comp *Component, s *Stmt) bool {
	for _, b := range comp.Memory.Buffers {
		if b.ID == s.Ref {
			return true
		}
	}
	return false
}

func containsCall(e *Expr) bool {
	return e != nil && (e.Kind == ECall || e.Kind == EUnitaryCall)
}

func lowerCallStmt(ctx *Context, comp *Component, s *Stmt) StepStmt {
	if _, ok := comp.Memory.CalledComponent[s.Expr.MemoryID]; !ok {
		registerCalledComponent(comp, s.Expr.MemoryID, s.Expr.CalledComponent)
	}
	slot := ctx.Syms.GetName(s.Expr.MemoryID)
	return StepStmt{IsCalledStep: true, Field: slot, Source: s, CallArgs: s.Expr.Children, ResultField: outputFieldOf(ctx, s)}
}

func outputFieldOf(ctx *Context, s *Stmt) string {
	if s.Kind == SOutput {
		return s.Name
	}
	return ctx.Syms.GetName(s.Ref)
}
