package compiler

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// codegen.go lowers IR1Components and an IR2Service into the target Go
// AST of targetast.go, per the final stage. Each component
// becomes a `<Name>State` struct plus `init`/`step` methods; the service
// becomes a `Service` struct wiring every component's state plus a
// `RunLoop` method built from runtimeloop.go's schedule.

// CodegenOptions mirrors the subset of Options (options.go) codegen.go
// reads, kept as its own struct so this file doesn't need to import the
// CLI-facing Options type directly.
type CodegenOptions struct {
	Parallel bool // emit golang.org/x/sync/errgroup reduction for independent component steps
}

// GenerateComponents emits one TargetFile per component, in the style of
// one-declaration-per-concept style (mirrors yaegi's itype->Go kind
// methods: state shape, then behavior). Components never reference each
// other's generated TargetFile while being built, so the fan-out itself
// (as opposed to the generated code's own concurrency, which codegen
// emits into runtimeloop.go's RunLoop when opts.Parallel is set) runs
// through an errgroup rather than a sequential loop.
func GenerateComponents(ctx *Context, ir1 map[Id]*IR1Component, opts CodegenOptions) map[Id]*TargetFile {
	out := map[Id]*TargetFile{}
	var mu sync.Mutex
	var g errgroup.Group
	for id, comp := range ir1 {
		id, comp := id, comp
		g.Go(func() error {
			f := generateComponentFile(ctx, comp, opts)
			mu.Lock()
			out[id] = f
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func generateComponentFile(ctx *Context, c *IR1Component, opts CodegenOptions) *TargetFile {
	comp := c.Component
	stateName := toCamelCase(comp.Name) + "State"
	f := newTargetFile("grgen")

	st := &TargetStruct{Name: stateName, Doc: fmt.Sprintf("%s holds %s's persistent memory between steps.", stateName, comp.Name)}
	for _, sf := range c.StateFields {
		typeName := "struct{}"
		if sf.IsCalledComponent {
			typeName = sf.CalleeName
		} else if sf.Typ != nil {
			typeName = goTypeName(sf.Typ)
		}
		st.Fields = append(st.Fields, TargetField{Name: toCamelCase(sf.Name), Type: typeName})
	}
	f.Structs = append(f.Structs, st)

	f.Funcs = append(f.Funcs, &TargetFunc{
		Name:    "New" + stateName,
		Results: []TargetParam{{Type: stateName}},
		Doc:     fmt.Sprintf("New%s constructs a zeroed %s and runs every buffer/callee initializer.", stateName, stateName),
		Body:    initBody(c, stateName),
	})

	params := componentStepParams(ctx, comp)
	results := componentStepResults(ctx, comp)
	f.Methods = append(f.Methods, &TargetMethod{
		Receiver: "s", RecvType: stateName, Name: "Step",
		Params: params, Results: results,
		Body: stepBody(ctx, c, opts),
	})
	return f
}

func componentStepParams(ctx *Context, comp *Component) []TargetParam {
	var out []TargetParam
	for _, in := range comp.Inputs {
		out = append(out, TargetParam{Name: toCamelCase(ctx.Syms.GetName(in)), Type: goTypeName(ctx.Syms.GetType(in))})
	}
	return out
}

func componentStepResults(ctx *Context, comp *Component) []TargetParam {
	var out []TargetParam
	for _, o := range comp.Outputs {
		out = append(out, TargetParam{Name: toCamelCase(o.Name), Type: goTypeName(ctx.Syms.GetType(o.ID))})
	}
	return out
}

func initBody(c *IR1Component, stateName string) []string {
	body := []string{fmt.Sprintf("s := %s{}", stateName)}
	for _, init := range c.InitStmts {
		field := toCamelCase(init.Field)
		if init.CalleeInit != "" {
			body = append(body, fmt.Sprintf("s.%s = New%s()", field, init.CalleeInit))
			continue
		}
		body = append(body, fmt.Sprintf("s.%s = %s", field, renderExpr(init.Expr)))
	}
	body = append(body, "return s")
	return body
}

func stepBody(ctx *Context, c *IR1Component, opts CodegenOptions) []string {
	var body []string
	for _, step := range c.StepStmts {
		switch {
		case step.IsCalledStep:
			body = append(body, renderCallStep(ctx, step))
		case step.IsBufferUpdate:
			body = append(body, fmt.Sprintf("s.%s = %s", toCamelCase(step.Field), renderStmtRHS(step.Source)))
		default:
			body = append(body, renderPlainStep(ctx, step))
		}
	}
	body = append(body, renderReturn(ctx, c.Component))
	return body
}

// renderCallStep emits `out := s.<slot>.Step(args...)` inside a component
// Step body, which is always sequential. Parallel emission (opts.Parallel)
// happens only in runtimeloop.go's RunLoop handlers, which render service
// statements through renderServiceStmt.
func renderCallStep(ctx *Context, step StepStmt) string {
	args := make([]string, len(step.CallArgs))
	for i, a := range step.CallArgs {
		args[i] = renderExpr(a)
	}
	lhs := "_"
	if step.ResultField != "" {
		lhs = toCamelCase(step.ResultField)
	}
	return fmt.Sprintf("%s := s.%s.Step(%s)", lhs, toCamelCase(step.Field), join(args, ", "))
}

func renderPlainStep(ctx *Context, step StepStmt) string {
	if step.Source.Kind == SOutput {
		return fmt.Sprintf("%s := %s", toCamelCase(step.ResultField), renderStmtRHS(step.Source))
	}
	name := toCamelCase(step.ResultField)
	if name == "" {
		return renderStmtRHS(step.Source)
	}
	return fmt.Sprintf("%s := %s", name, renderStmtRHS(step.Source))
}

func renderStmtRHS(s *Stmt) string {
	if s == nil || s.Expr == nil {
		return "struct{}{}"
	}
	return renderExpr(s.Expr)
}

func renderReturn(ctx *Context, comp *Component) string {
	names := make([]string, len(comp.Outputs))
	for i, o := range comp.Outputs {
		names[i] = toCamelCase(o.Name)
	}
	return "return " + join(names, ", ")
}

func join(items []string, sep string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += sep
		}
		out += s
	}
	return out
}

func goTypeName(t *Type) string {
	if t == nil {
		return "any"
	}
	switch t.Cat {
	case tInteger:
		return "int64"
	case tFloat:
		return "float64"
	case tBoolean:
		return "bool"
	case tUnit:
		return "struct{}"
	case tString:
		return "string"
	case tOption:
		return "*" + goTypeName(t.Elem)
	case tSignal, tEvent:
		return goTypeName(t.Elem)
	case tArray:
		return fmt.Sprintf("[%d]%s", t.ArrayLen, goTypeName(t.Elem))
	case tTuple:
		s := "struct{"
		for i, e := range t.Elems {
			s += fmt.Sprintf(" F%d %s;", i, goTypeName(e))
		}
		return s + " }"
	case tStructure, tEnumeration:
		return toCamelCase(t.Name)
	case tFunction:
		return "func(...any) any"
	}
	return "any"
}
