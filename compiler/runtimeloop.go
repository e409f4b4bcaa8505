package compiler

import "fmt"

// runtimeloop.go emits the generated service's RunLoop method from an
// IR2Service's ordered InputHandler list, the Go counterpart of
// original_source/compiler_ir2/src/execution_machine/runtime_loop.rs's
// RuntimeLoop::into_syn: one match arm per arriving flow (an imported
// signal/event, or a named timer), each running every statement the
// trigger graph says that arrival reaches.

// GenerateService emits the service's TargetFile: a Service struct
// wiring every component's state plus one field per named service-level
// flow, and a RunLoop method built from ir2's handler schedule.
func GenerateService(ctx *Context, ir2 *IR2Service, comps map[Id]*IR1Component, opts CodegenOptions) *TargetFile {
	if ir2 == nil {
		return nil
	}
	svc := ir2.Service
	f := newTargetFile("grgen")
	f.addImport("context")
	f.addRequiredLibrary("github.com/grlang/grc/runtime/sink")
	if ir2.TimerMs > 0 {
		f.addImport("time")
		f.addRequiredLibrary("github.com/grlang/grc/runtime/timerstream")
	}
	if ir2.MinMs > 0 || ir2.WatchdogMs > 0 {
		f.addImport("time")
	}
	if opts.Parallel {
		f.addRequiredLibrary("golang.org/x/sync/errgroup")
	}

	st := &TargetStruct{Name: "Service", Doc: "Service wires every component used by the service block and drives its run loop."}
	for _, comp := range ctx.Components {
		st.Fields = append(st.Fields, TargetField{Name: toCamelCase(comp.Name), Type: toCamelCase(comp.Name) + "State"})
	}
	for _, id := range serviceFlowIds(svc) {
		st.Fields = append(st.Fields, TargetField{Name: toCamelCase(ctx.Syms.GetName(id)), Type: goTypeName(ctx.Syms.GetType(id))})
	}
	st.Fields = append(st.Fields, TargetField{Name: "Out", Type: "*sink.Sink"})
	f.Structs = append(f.Structs, st)

	f.Funcs = append(f.Funcs, &TargetFunc{
		Name:    "NewService",
		Params:  []TargetParam{{Name: "outBuffer", Type: "int"}},
		Results: []TargetParam{{Type: "Service"}},
		Body:    newServiceBody(ctx),
	})

	f.Methods = append(f.Methods, &TargetMethod{
		Receiver: "s", RecvType: "Service", Name: "RunLoop",
		Params:  runLoopParams(ctx, svc),
		Results: []TargetParam{{Type: "error"}},
		Body:    runLoopBody(ctx, svc, ir2, opts),
		Doc:     "RunLoop drives every imported flow and timer until ctx is done.",
	})
	return f
}

// serviceFlowIds collects every named Id a service-level statement, import,
// or export can reference: each gets its own Service field, the same way
// codegen.go gives each component a field per StateField.
func serviceFlowIds(svc *Service) []Id {
	seen := map[Id]bool{}
	var out []Id
	add := func(id Id) {
		if id == invalidID || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}
	for _, id := range svc.Imports {
		add(id)
	}
	for _, id := range svc.Exports {
		add(id)
	}
	for _, s := range svc.Statements {
		add(s.Ref)
	}
	return out
}

func newServiceBody(ctx *Context) []string {
	body := []string{"s := Service{}"}
	for id, comp := range ctx.Components {
		_ = id
		body = append(body, fmt.Sprintf("s.%s = New%sState()", toCamelCase(comp.Name), toCamelCase(comp.Name)))
	}
	body = append(body, "s.Out = sink.New(outBuffer)")
	body = append(body, "return s")
	return body
}

// runLoopParams gives RunLoop one receive-only channel parameter per
// imported flow, named after the flow itself so runLoopBody's select arms
// read named channels directly rather than indexing a map (Go's select
// requires the channel expression in each case to be evaluated once up
// front, so a map lookup per arm would defeat the point).
func runLoopParams(ctx *Context, svc *Service) []TargetParam {
	params := []TargetParam{{Name: "ctx", Type: "context.Context"}}
	for _, id := range svc.Imports {
		params = append(params, TargetParam{
			Name: lowerFirst(toCamelCase(ctx.Syms.GetName(id))),
			Type: "<-chan " + goTypeName(ctx.Syms.GetType(id)),
		})
	}
	return params
}

func runLoopBody(ctx *Context, svc *Service, ir2 *IR2Service, opts CodegenOptions) []string {
	var body []string
	if ir2.TimerMs > 0 {
		body = append(body,
			fmt.Sprintf("timers, stopTimers := timerstream.Merge([]timerstream.Source{{Name: %q, Period: time.Duration(%d) * time.Millisecond}})", "tick", ir2.TimerMs),
			"defer stopTimers()",
		)
	}
	if ir2.MinMs > 0 {
		body = append(body,
			fmt.Sprintf("minDelay := time.Duration(%d) * time.Millisecond", ir2.MinMs),
			"var lastTrigger time.Time",
		)
	}
	if ir2.WatchdogMs > 0 {
		body = append(body,
			fmt.Sprintf("watchdog := time.NewTimer(time.Duration(%d) * time.Millisecond)", ir2.WatchdogMs),
			"defer watchdog.Stop()",
		)
	}
	body = append(body, "for {", "select {", "case <-ctx.Done():", "return ctx.Err()")
	if ir2.WatchdogMs > 0 {
		body = append(body,
			"case <-watchdog.C:",
			`s.Out.Send("service_timeout", struct{}{})`,
			fmt.Sprintf("watchdog.Reset(time.Duration(%d) * time.Millisecond)", ir2.WatchdogMs),
		)
	}
	if ir2.TimerMs > 0 {
		body = append(body, "case <-timers:")
		body = append(body, triggerLines(ir2, func() []string {
			var lines []string
			for _, h := range ir2.Handlers {
				if h.Kind == EntryTimer {
					lines = append(lines, runHandlerLines(ctx, svc, h, opts)...)
				}
			}
			return lines
		})...)
	}
	for _, h := range ir2.Handlers {
		if h.Kind != EntryImport {
			continue
		}
		param := lowerFirst(toCamelCase(ctx.Syms.GetName(h.Source)))
		body = append(body, fmt.Sprintf("case v := <-%s:", param))
		body = append(body, fmt.Sprintf("s.%s = v", toCamelCase(ctx.Syms.GetName(h.Source))))
		body = append(body, triggerLines(ir2, func() []string {
			return runHandlerLines(ctx, svc, h, opts)
		})...)
	}
	body = append(body, "}", "}")
	return body
}

// triggerLines wraps one arriving trigger's handler lines with the
// minimum-delay enforcer (when declared): a trigger less than MinMs after
// the previous one is coalesced — reported on the sink and dropped — rather
// than re-run, and a watchdog (when declared) is re-armed once the trigger
// that did run completes, per this service's resolution of the open
// question of when the inactivity window restarts (see DESIGN.md).
func triggerLines(ir2 *IR2Service, handler func() []string) []string {
	var lines []string
	if ir2.MinMs > 0 {
		lines = append(lines,
			"if !lastTrigger.IsZero() && time.Since(lastTrigger) < minDelay {",
			"s.Out.IncCoalesced()",
			"} else {",
			"lastTrigger = time.Now()",
		)
	}
	lines = append(lines, handler()...)
	if ir2.WatchdogMs > 0 {
		lines = append(lines, fmt.Sprintf("watchdog.Reset(time.Duration(%d) * time.Millisecond)", ir2.WatchdogMs))
	}
	if ir2.MinMs > 0 {
		lines = append(lines, "}")
	}
	return lines
}

// runHandlerLines emits the statement calls one InputHandler triggers.
// When opts.Parallel is set, a handler triggers more than one statement
// and none of them depends on another in svc.Graph, each statement (its
// assignment and, if exported, its Send) runs in its own
// golang.org/x/sync/errgroup goroutine. Otherwise the triggered statements
// run one after another in trigger order.
func runHandlerLines(ctx *Context, svc *Service, h InputHandler, opts CodegenOptions) []string {
	byRef := map[Id]*Stmt{}
	for _, s := range svc.Statements {
		if s.Ref != invalidID {
			byRef[s.Ref] = s
		}
	}
	exported := map[Id]bool{}
	for _, id := range svc.Exports {
		exported[id] = true
	}

	render := func(id Id) []string {
		s := byRef[id]
		if s == nil {
			return nil
		}
		lines := []string{renderServiceStmt(ctx, s)}
		if exported[id] {
			lines = append(lines, fmt.Sprintf("s.Out.Send(%q, s.%s)", ctx.Syms.GetName(id), toCamelCase(ctx.Syms.GetName(id))))
		}
		return lines
	}

	sequential := !opts.Parallel || len(h.Triggered) < 2
	if !sequential && svc.Graph != nil {
		triggered := map[Id]bool{}
		for _, id := range h.Triggered {
			triggered[id] = true
		}
		for _, id := range h.Triggered {
			for dep := range svc.Graph.Edges[id] {
				sequential = sequential || triggered[dep]
			}
		}
	}
	if sequential {
		var lines []string
		for _, id := range h.Triggered {
			lines = append(lines, render(id)...)
		}
		return lines
	}

	var lines []string
	lines = append(lines, "{", "g, _ := errgroup.WithContext(ctx)")
	for _, id := range h.Triggered {
		if stmtLines := render(id); len(stmtLines) > 0 {
			lines = append(lines, fmt.Sprintf("g.Go(func() error { %s; return nil })", join(stmtLines, "; ")))
		}
	}
	lines = append(lines, "if err := g.Wait(); err != nil { return err }", "}")
	return lines
}

// renderServiceStmt emits one service-level statement's effect: a call to
// a component's Step when the rhs invokes one, otherwise a plain
// expression assignment — the service-level counterpart of codegen.go's
// renderCallStep/renderPlainStep, writing into Service fields instead of
// component state fields.
func renderServiceStmt(ctx *Context, s *Stmt) string {
	field := toCamelCase(ctx.Syms.GetName(s.Ref))
	if s.Expr == nil {
		return fmt.Sprintf("s.%s = struct{}{}", field)
	}
	if s.Expr.Kind == ECall || s.Expr.Kind == EUnitaryCall {
		args := make([]string, len(s.Expr.Children))
		for i, a := range s.Expr.Children {
			args[i] = renderExpr(a)
		}
		callee := ctx.Components[s.Expr.CalledComponent]
		calleeField := "s"
		if callee != nil {
			calleeField = toCamelCase(callee.Name)
		}
		return fmt.Sprintf("s.%s = s.%s.Step(%s)", field, calleeField, join(args, ", "))
	}
	return fmt.Sprintf("s.%s = %s", field, renderExpr(s.Expr))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] = r[0] - 'A' + 'a'
	}
	return string(r)
}
