package compiler

// testutil_test.go holds the shared pipeline-running helper test files in
// this package reuse, keeping each test focused on the stage it exercises
// rather than repeating Parse->Lower->TypeCheck->AnalyzeDependencies
// boilerplate.

func compileSource(src string) *Context {
	prog, perrs := Parse(src, 0)
	ctx := Lower(prog, 0, nil)
	ctx.Errs.items = append(ctx.Errs.items, perrs.errors()...)
	TypeCheck(ctx)
	AnalyzeDependencies(ctx)
	return ctx
}

func compileAndNormalize(src string) *Context {
	ctx := compileSource(src)
	Normalize(ctx)
	return ctx
}

func hasErrorKind(ctx *Context, kind ErrorKind) bool {
	for _, e := range ctx.Errs.errors() {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func soleComponent(ctx *Context, name string) *Component {
	for _, c := range ctx.Components {
		if c.Name == name {
			return c
		}
	}
	return nil
}
