package compiler

import "fmt"

// compiler.go is the top-level orchestrator, mirroring interp.go's
// Interpreter: New(Options) builds one long-lived configured value, and
// Compile (interp's Eval/ExecuteSource counterpart) runs one source file
// through every pass of the pipeline in order, stopping at the
// first unrecoverable failure and otherwise returning every generated
// target file plus the accumulated diagnostics.

// Compiler holds resources shared across one or more compilations: the
// normalized options and the injected logger.
type Compiler struct {
	opt opt
}

// New constructs a Compiler, defaulting unset Options exactly as
// interp.New(Options) defaults unset Stdin/Stdout/Stderr.
func New(options Options) *Compiler {
	return &Compiler{opt: normalizeOptions(options)}
}

// Result is everything one successful compilation produces.
type Result struct {
	Context     *Context
	IR1         map[Id]*IR1Component
	IR2         *IR2Service
	Components  map[Id]*TargetFile
	Service     *TargetFile
	Stats       string
}

// Compile runs source (one GR file, identified by fileID for span
// reporting) through lex/parse, lowering, type checking, dependency
// analysis, normalization, IR1/IR2 materialization, and code generation.
// Errors accumulated along the way are always returned; Result is nil
// only when parsing itself fails outright.
func (c *Compiler) Compile(source string, fileID int) (*Result, []*CompileError) {
	prog, perrs := Parse(source, fileID)
	if prog == nil {
		return nil, perrs.errors()
	}

	ctx := Lower(prog, fileID, c.opt.logger)
	ctx.Errs.items = append(ctx.Errs.items, perrs.errors()...)
	if ctx.Service != nil {
		ctx.Service.Propagation = resolvePropagation(ctx.Service.Propagation, c.opt.propagation)
	}

	TypeCheck(ctx)
	AnalyzeDependencies(ctx)
	Normalize(ctx)

	ir1 := LowerToIR1(ctx)
	ir2 := LowerToIR2(ctx)

	codegenOpts := CodegenOptions{Parallel: c.opt.parallel}
	comps := GenerateComponents(ctx, ir1, codegenOpts)
	svcFile := GenerateService(ctx, ir2, ir1, codegenOpts)

	res := &Result{
		Context:    ctx,
		IR1:        ir1,
		IR2:        ir2,
		Components: comps,
		Service:    svcFile,
	}
	if c.opt.statsDepth > 0 {
		res.Stats = ctx.Stats.Pretty(c.opt.statsDepth)
	}
	if c.opt.dumpCodePath != "" {
		if err := dumpGeneratedCode(c.opt.dumpCodePath, res); err != nil {
			ctx.Log.Sugar().Warnf("dump-code: %v", err)
		}
	}
	return res, ctx.Errs.errors()
}

// resolvePropagation lets an explicit `@` service annotation in source
// override the CLI-level default, falling back to the CLI default only
// when the source left it unspecified.
func resolvePropagation(declared, fallback PropagationStrategy) PropagationStrategy {
	if declared != PropagationDefault {
		return declared
	}
	return fallback
}

func componentFileName(ctx *Context, id Id) string {
	comp := ctx.Components[id]
	if comp == nil {
		return fmt.Sprintf("component_%d.go", id)
	}
	return toSnakeCase(comp.Name) + ".go"
}
