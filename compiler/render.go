package compiler

import "fmt"

// render.go turns a normalized, IR1-lowered Expr tree into a Go source
// fragment. Only the shapes that survive normalization and IR1 lowering
// reach here (a remaining fby is a buffer update and renders as its
// delayed half; calls are handled by codegen.go before descending into
// arguments) — this is not a general GR-to-Go expression
// compiler, it mirrors the narrow, already-resolved tree codegen.go hands
// it, the same way yaegi's run-time opcodes only ever see already-typed
// nodes.
func renderExpr(e *Expr) string {
	if e == nil {
		return "struct{}{}"
	}
	switch e.Kind {
	case EConst:
		return renderLit(e)
	case EIdent:
		return "s." + toCamelCase(e.Name)
	case EUnop:
		return fmt.Sprintf("%s%s", e.Name, renderExpr(e.Children[0]))
	case EBinop:
		return fmt.Sprintf("(%s %s %s)", renderExpr(e.Children[0]), e.Name, renderExpr(e.Children[1]))
	case ECond:
		return fmt.Sprintf("condExpr(%s, func() any { return %s }, func() any { return %s })",
			renderExpr(e.Children[0]), renderExpr(e.Children[1]), renderExpr(e.Children[2]))
	case ELambda:
		return renderLambda(e)
	case EStructLit:
		return renderStructLit(e)
	case ETupleLit:
		return renderTupleLit(e)
	case EArrayLit:
		return renderArrayLit(e)
	case EFieldAccess:
		return fmt.Sprintf("%s.%s", renderExpr(e.Children[0]), toCamelCase(e.Name))
	case ETupleAccess:
		return fmt.Sprintf("%s.F%s", renderExpr(e.Children[0]), e.Name)
	case EFold:
		return renderReduceCall("foldSeq", e)
	case EMap:
		return renderReduceCall("mapSeq", e)
	case ESort:
		return renderReduceCall("sortSeq", e)
	case EZip:
		return renderReduceCall("zipSeq", e)
	case EMatch:
		return renderMatch(e)
	case ERisingEdge:
		return fmt.Sprintf("risingEdge(%s)", renderExpr(e.Children[0]))
	case ESomeEvent:
		return fmt.Sprintf("some(%s)", renderExpr(e.Children[0]))
	case ENoneEvent:
		return "none()"
	case ESample:
		return renderReactiveOp("sample", e)
	case EScan:
		return renderReactiveOp("scanOp", e)
	case EOnChange:
		return renderReactiveOp("onChange", e)
	case EThrottle:
		return renderReactiveOp("throttle", e)
	case ETimeout:
		return renderReactiveOp("timeoutOp", e)
	case EPersist:
		return renderReactiveOp("persist", e)
	case EMerge:
		return renderReactiveOp("merge", e)
	case ETime:
		return "nowMs()"
	case ECall, EUnitaryCall:
		// Handled by codegen.go's renderCallStep before descending; reaching
		// here means a call survives as a nested expression (e.g. an
		// argument to another call), which normalization's hoist-component-
		// calls pass rules out for statement-root calls but not for
		// already-hoisted identifier references, so this is unreachable in
		// well-normalized input. Render a marker rather than panic, so a
		// regression here surfaces as a compile error in generated code
		// instead of a silent miscompile.
		return "/* unresolved nested call */ nil"
	case EEnumLit:
		return fmt.Sprintf("%s%s", toCamelCase(e.StructName), toCamelCase(e.OutputName))
	case EFby:
		// Reached only for a root-level fby's own buffer-update StepStmt
		// (codegen.go's stepBody renders it as `s.last_<name> = <here>`);
		// the initial half only ever feeds the init function, so the step
		// body stores the delayed half for the next step to read.
		return renderExpr(e.Children[1])
	default:
		return "nil"
	}
}

func renderLit(e *Expr) string {
	switch v := e.LitVal.(type) {
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return "struct{}{}"
	}
}

func renderLambda(e *Expr) string {
	params := make([]string, len(e.Lambda.Params))
	for i, p := range e.Lambda.Params {
		params[i] = toCamelCase(p.Name) + " any"
	}
	return fmt.Sprintf("func(%s) any { return %s }", join(params, ", "), renderExpr(e.Lambda.Body))
}

func renderStructLit(e *Expr) string {
	out := toCamelCase(e.StructName) + "{"
	for i, field := range e.FieldNames {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s: %s", toCamelCase(field), renderExpr(e.Children[i]))
	}
	return out + "}"
}

func renderTupleLit(e *Expr) string {
	out := "struct{"
	fields := make([]string, len(e.Children))
	for i := range e.Children {
		fields[i] = fmt.Sprintf("F%d any", i)
	}
	out += join(fields, "; ") + "}{"
	vals := make([]string, len(e.Children))
	for i, c := range e.Children {
		vals[i] = renderExpr(c)
	}
	return out + join(vals, ", ") + "}"
}

func renderArrayLit(e *Expr) string {
	vals := make([]string, len(e.Children))
	for i, c := range e.Children {
		vals[i] = renderExpr(c)
	}
	return fmt.Sprintf("[%d]any{%s}", len(e.Children), join(vals, ", "))
}

func renderReduceCall(fn string, e *Expr) string {
	args := make([]string, len(e.Children))
	for i, c := range e.Children {
		args[i] = renderExpr(c)
	}
	return fmt.Sprintf("%s(%s)", fn, join(args, ", "))
}

func renderReactiveOp(fn string, e *Expr) string {
	args := make([]string, len(e.Children))
	for i, c := range e.Children {
		args[i] = renderExpr(c)
	}
	return fmt.Sprintf("%s(%s)", fn, join(args, ", "))
}

func renderMatch(e *Expr) string {
	out := fmt.Sprintf("matchExpr(%s", renderExpr(e.Children[0]))
	for _, arm := range e.Arms {
		out += fmt.Sprintf(", matchArm(%q, func() any { return %s })", patternLabel(arm.Pattern), renderExpr(arm.Body))
	}
	return out + ")"
}

func patternLabel(p *Pattern) string {
	if p == nil {
		return "_"
	}
	switch p.Kind {
	case PatWildcard:
		return "_"
	case PatIdent:
		return p.Name
	case PatSome:
		return "Some"
	case PatNone:
		return "None"
	case PatEnum:
		return p.EnumName + "::" + p.Variant
	default:
		return "_"
	}
}
