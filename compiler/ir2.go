package compiler

// ir2.go implements the IR1 -> IR2 lowering of the design notes stage 7's
// second half: given a service's statements and its already-built
// dependency graph, materialize the runtime-loop schedule — an ordered
// list of InputHandlers, one per reactive entry point, each carrying the
// ordered statement Ids it triggers — grounded on
// original_source/compiler_ir2/src/ir1_into_ir2/trigger.rs and
// original_source/compiler_ir2/src/execution_machine/runtime_loop.rs.

// EntryKind distinguishes what drives an InputHandler.
type EntryKind int

const (
	EntryImport EntryKind = iota // an imported flow changed
	EntryTimer                   // the periodic service timer fired
)

// InputHandler is one entry point of the generated runtime loop: "when
// Source fires, run Triggered in order."
type InputHandler struct {
	Kind      EntryKind
	Source    Id // the import Id (EntryImport) or invalidID (EntryTimer)
	Triggered []Id
}

// IR2Service is the materialized service ready for target-AST emission.
type IR2Service struct {
	Service  *Service
	Handlers []InputHandler
	// TimerMs is the tick period for EntryTimer, set only when a service
	// statement reads time(): MaxMs when a time range was declared, else 1;
	// 0 when no statement reads time().
	TimerMs int
	// MinMs is the declared minimum-delay bound (the first element of a
	// `@ [min_ms, max_ms]` time range): runtimeloop.go's generated loop
	// coalesces a trigger arriving less than MinMs after the previous one
	// rather than re-running the service's statements for it. 0 when no
	// time range was declared.
	MinMs int
	// WatchdogMs is the declared maximum-delay bound: the generated loop
	// injects a service_timeout export after WatchdogMs of inactivity.
	// Distinct from TimerMs, which paces a `time()` read and is reused
	// verbatim as TimerMs's period only when the two happen to coincide;
	// WatchdogMs fires independently of whether the service reads time().
	WatchdogMs int
}

// LowerToIR2 builds the service's trigger graph (selecting the strategy
// from Propagation, defaulting to OnChange) and the ordered handler list
// it drives, per the design notes.
func LowerToIR2(ctx *Context) *IR2Service {
	if ctx.Service == nil {
		return nil
	}
	item := ctx.Stats.Start("ir2")
	defer ctx.Stats.End(item)

	svc := ctx.Service
	events := eventFlowIds(ctx, svc)
	svc.TriggerGraph = BuildTriggerGraph(ctx, svc, svc.Propagation, events)

	ir2 := &IR2Service{Service: svc}
	if svc.MinMs != nil {
		ir2.MinMs = *svc.MinMs
	}
	if svc.MaxMs != nil {
		ir2.WatchdogMs = *svc.MaxMs
	}
	for _, imp := range svc.Imports {
		triggered := orderTriggered(ctx, svc, svc.TriggerGraph.Triggered(imp))
		if len(triggered) == 0 {
			continue
		}
		ir2.Handlers = append(ir2.Handlers, InputHandler{Kind: EntryImport, Source: imp, Triggered: triggered})
	}

	if hasTimeOp(svc.Statements) {
		ir2.Handlers = append(ir2.Handlers, InputHandler{Kind: EntryTimer, Source: invalidID, Triggered: allStatementIds(svc.Statements)})
		if svc.MaxMs != nil {
			ir2.TimerMs = *svc.MaxMs
		} else {
			ir2.TimerMs = 1
		}
	}
	return ir2
}

// eventFlowIds collects the imported flow Ids declared Event<…>, the seed
// set buildEventIslesGraph grows isles from.
func eventFlowIds(ctx *Context, svc *Service) []Id {
	var out []Id
	for _, imp := range svc.Imports {
		if t := ctx.Syms.GetType(imp); t != nil && t.Cat == tEvent {
			out = append(out, imp)
		}
	}
	return out
}

// orderTriggered deduplicates and orders triggered statement Ids to match
// their declaration order in svc.Statements, so generated code runs
// statements in a stable, source-order sequence regardless of trigger-
// graph traversal order.
func orderTriggered(ctx *Context, svc *Service, triggered []Id) []Id {
	want := map[Id]bool{}
	for _, id := range triggered {
		want[id] = true
	}
	var out []Id
	for _, s := range svc.Statements {
		if s.Ref != invalidID && want[s.Ref] {
			out = append(out, s.Ref)
		}
	}
	return out
}

func allStatementIds(stmts []*Stmt) []Id {
	var out []Id
	for _, s := range stmts {
		if s.Ref != invalidID {
			out = append(out, s.Ref)
		}
	}
	return out
}

// hasTimeOp reports whether any statement's rhs uses the `time()` source,
// which requires a periodic timer tick rather than purely import-driven
// triggering.
func hasTimeOp(stmts []*Stmt) bool {
	found := false
	for _, s := range stmts {
		s.WalkExprs(func(e *Expr) bool {
			if e.Kind == ETime {
				found = true
			}
			return !found
		}, nil)
		if found {
			return true
		}
	}
	return false
}
