package compiler

import "go.uber.org/zap"

// Lower runs AST -> HIR lowering (the design notes, stage 3): resolves every
// surface name to a symbol-table Id, desugars the handful of surface-only
// shapes, and produces a Context whose Components/Service carry fully
// Ref-resolved Stmt/Expr trees ready for the type checker. Mirrors yaegi's
// own "one compileSrc pass builds scopes while walking the AST" approach,
// generalized to GR's richer declaration set.
func Lower(prog *Program, fileID int, logger *zap.Logger) *Context {
	ctx := newContext(fileID, logger)
	item := ctx.Stats.Start("lower")
	defer ctx.Stats.End(item)

	declareTypes(ctx, prog)
	declareFunctions(ctx, prog)
	declareComponents(ctx, prog)

	for _, fn := range prog.Functions {
		lowerFunctionBody(ctx, fn)
	}
	for _, cd := range prog.Components {
		lowerComponent(ctx, cd)
	}
	if prog.Service != nil {
		lowerService(ctx, prog.Service)
	}
	return ctx
}

// declareTypes interns every enum/struct name and its variants/fields,
// first pass so forward references anywhere in the file resolve.
func declareTypes(ctx *Context, prog *Program) {
	for _, ed := range prog.Enums {
		id, ok := ctx.Syms.insert(ed.Name, symEnum, ScopeLocal, nil, ed.Span, true)
		if !ok {
			ctx.Errs.addSimple(ErrDuplicateDefinition, ed.Span, "enumeration %q already declared", ed.Name)
			continue
		}
		ed.Ref = id
		for _, v := range ed.Variants {
			vid, ok := ctx.Syms.insert(ed.Name+"::"+v, symEnumElem, ScopeLocal, nil, ed.Span, true)
			if !ok {
				ctx.Errs.addSimple(ErrDuplicateDefinition, ed.Span, "variant %q already declared", v)
				continue
			}
			ed.VariantRefs = append(ed.VariantRefs, vid)
		}
		ctx.Syms.SetType(id, &Type{Cat: tEnumeration, Name: ed.Name, Decl: id})
		ctx.Enums[id] = ed
	}
	for _, sd := range prog.Structs {
		id, ok := ctx.Syms.insert(sd.Name, symStruct, ScopeLocal, nil, sd.Span, true)
		if !ok {
			ctx.Errs.addSimple(ErrDuplicateDefinition, sd.Span, "structure %q already declared", sd.Name)
			continue
		}
		sd.Ref = id
		ctx.Syms.SetType(id, &Type{Cat: tStructure, Name: sd.Name, Decl: id})
		ctx.Structs[id] = sd
	}
	for _, sd := range prog.Structs {
		for i := range sd.Fields {
			sd.Fields[i].Type.resolveInPlace(ctx)
		}
	}
}

// resolveInPlace walks a surface type's arguments recursively and resolves
// nothing itself: named and builtin types are resolved later, by
// typecheck.go's resolveTypeExpr.
func (te *TypeExpr) resolveInPlace(ctx *Context) {
	if te == nil {
		return
	}
	for _, a := range te.Args {
		a.resolveInPlace(ctx)
	}
}

func declareFunctions(ctx *Context, prog *Program) {
	for _, fn := range prog.Functions {
		id, ok := ctx.Syms.insert(fn.Name, symFunction, ScopeLocal, nil, fn.Span, true)
		if !ok {
			ctx.Errs.addSimple(ErrDuplicateDefinition, fn.Span, "function %q already declared", fn.Name)
			continue
		}
		fn.Ref = id
		ctx.Functions[id] = fn
	}
}

func declareComponents(ctx *Context, prog *Program) {
	for _, cd := range prog.Components {
		id, ok := ctx.Syms.insert(cd.Name, symComponent, ScopeLocal, nil, cd.Span, true)
		if !ok {
			ctx.Errs.addSimple(ErrDuplicateDefinition, cd.Span, "component %q already declared", cd.Name)
			continue
		}
		cd.Ref = id
	}
}

func lowerFunctionBody(ctx *Context, fn *FunctionDecl) {
	ctx.Syms.local()
	defer ctx.Syms.global()
	for i := range fn.Params {
		id, _ := ctx.Syms.insert(fn.Params[i].Name, symIdentifier, ScopeInput, nil, fn.Span, false)
		fn.Params[i].Ref = id
	}
	lowerExpr(ctx, fn.Body)
}

// lowerComponent resolves a component's inputs/outputs/body into HIR,
// pushing a fresh lexical scope exactly as yaegi pushes a function-body
// scope, and records the component's signature for dependency analysis
// (SetComponentSignature).
func lowerComponent(ctx *Context, cd *ComponentDecl) {
	ctx.Syms.local()
	defer ctx.Syms.global()

	var inputIDs, outputIDs []Id
	for i := range cd.Inputs {
		id, _ := ctx.Syms.insert(cd.Inputs[i].Name, symIdentifier, ScopeInput, nil, cd.Span, false)
		cd.Inputs[i].Ref = id
		ctx.Syms.SetType(id, resolveTypeExpr(ctx, cd.Inputs[i].Type))
		inputIDs = append(inputIDs, id)
	}
	var outputs []OutputBinding
	for i := range cd.Outputs {
		id, _ := ctx.Syms.insert(cd.Outputs[i].Name, symIdentifier, ScopeOutput, nil, cd.Span, false)
		cd.Outputs[i].Ref = id
		ctx.Syms.SetType(id, resolveTypeExpr(ctx, cd.Outputs[i].Type))
		outputIDs = append(outputIDs, id)
		outputs = append(outputs, OutputBinding{Name: cd.Outputs[i].Name, ID: id})
	}
	ctx.Syms.SetComponentSignature(cd.Ref, inputIDs, outputIDs)

	predeclareLetNames(ctx, cd.Body)
	var stmts []*Stmt
	for _, s := range cd.Body {
		stmts = append(stmts, lowerStmt(ctx, s))
	}
	for _, term := range cd.Contract {
		lowerExpr(ctx, term)
	}

	ctx.Components[cd.Ref] = &Component{
		ID:         cd.Ref,
		Name:       cd.Name,
		Inputs:     inputIDs,
		Outputs:    outputs,
		Statements: stmts,
		Memory:     newMemory(),
		Contract:   cd.Contract,
		Loc:        cd.Span,
	}
}

func lowerService(ctx *Context, sd *ServiceDecl) {
	ctx.Syms.local()
	defer ctx.Syms.global()

	id, _ := ctx.Syms.insert(sd.Name, symIdentifier, ScopeLocal, nil, sd.Span, false)
	sd.Ref = id

	var imports, exports []Id
	for _, fl := range sd.Imports {
		fid, _ := ctx.Syms.insert(fl.Name, symIdentifier, ScopeInput, nil, fl.Span, false)
		fl.Ref = fid
		ctx.Syms.SetType(fid, resolveTypeExpr(ctx, fl.Type))
		imports = append(imports, fid)
	}
	for _, fl := range sd.Exports {
		fid, _ := ctx.Syms.insert(fl.Name, symIdentifier, ScopeOutput, nil, fl.Span, false)
		fl.Ref = fid
		ctx.Syms.SetType(fid, resolveTypeExpr(ctx, fl.Type))
		exports = append(exports, fid)
	}

	predeclareLetNames(ctx, sd.Body)
	var stmts []*Stmt
	for _, s := range sd.Body {
		stmts = append(stmts, lowerStmt(ctx, s))
	}

	ctx.Service = &Service{
		ID:          id,
		Name:        sd.Name,
		MinMs:       sd.MinMs,
		MaxMs:       sd.MaxMs,
		Imports:     imports,
		Exports:     exports,
		Statements:  stmts,
		Propagation: sd.Propagation,
		Loc:         sd.Span,
	}
}

// predeclareLetNames inserts a fresh symbol for every `let`-bound
// identifier in body before any statement's rhs is lowered, so a
// statement may reference a local declared by a later statement in the
// same body (the Counter worked example: an earlier statement reads
// `inc`, a local only declared by a later `let`) and a `let` may
// reference its own name recursively (`let n = 0 fby (n + tick);`).
// Mirrors the forward-declare-then-lower shape declareTypes/
// declareFunctions/declareComponents already use at the program level.
// predeclareLetNames only binds names directly in body; a nested match/
// when arm's own `let`s are predeclared separately once that arm's own
// scope is pushed (see lowerStmt's SMatch/SWhen cases), so a sibling arm
// or the enclosing body never sees names local to one arm.
func predeclareLetNames(ctx *Context, body []*Stmt) {
	for _, s := range body {
		if s.Kind == SLet {
			predeclarePattern(ctx, s.Pattern, ScopeLocal)
		}
	}
}

// predeclarePattern inserts a fresh symbol for every identifier p
// introduces, without resolving anything else — the insertion half of
// lowerPatternBind, run ahead of time by predeclareLetNames.
func predeclarePattern(ctx *Context, p *Pattern, scope Scope) {
	if p == nil {
		return
	}
	switch p.Kind {
	case PatIdent:
		if p.Name == "_" {
			return
		}
		ctx.Syms.insert(p.Name, symIdentifier, scope, nil, p.Span, false)
	case PatTuple, PatSome, PatStruct:
		for _, e := range p.Elems {
			predeclarePattern(ctx, e, scope)
		}
	}
}

// bindDeclaredPattern resolves a `let` pattern's identifiers against
// names predeclareLetNames already inserted, setting Pattern.Ref by
// lookup rather than inserting a second, shadowing binding.
func bindDeclaredPattern(ctx *Context, p *Pattern) {
	if p == nil {
		return
	}
	switch p.Kind {
	case PatIdent:
		if p.Name == "_" {
			p.Kind = PatWildcard
			return
		}
		id, ok := ctx.Syms.lookup(p.Name)
		if !ok {
			id = invalidID
		}
		p.Ref = id
	case PatTuple, PatSome, PatStruct:
		for _, e := range p.Elems {
			bindDeclaredPattern(ctx, e)
		}
	}
}

// lowerStmt resolves a statement's names in place, returning it (lowering
// mutates the AST nodes directly since Expr/Stmt are shared across
// stages, per ast.go's doc comment).
func lowerStmt(ctx *Context, s *Stmt) *Stmt {
	switch s.Kind {
	case SLet:
		bindDeclaredPattern(ctx, s.Pattern)
		lowerExpr(ctx, s.Expr)
		if len(s.Pattern.Identifiers()) == 1 && s.Pattern.Kind == PatIdent {
			s.Ref = s.Pattern.Ref
		}
	case SOutput:
		lowerExpr(ctx, s.Expr)
		id, ok := ctx.Syms.lookup(s.Name)
		if !ok {
			ctx.Errs.addSimple(ErrUnknownIdentifier, s.Span, "unknown output %q", s.Name)
		}
		s.Ref = id
	case SMatch:
		lowerExpr(ctx, s.MatchScrutinee)
		for _, arm := range s.MatchArms {
			ctx.Syms.local()
			lowerPatternBind(ctx, arm.Pattern, ScopeVeryLocal)
			predeclareLetNames(ctx, arm.Body)
			for i, sub := range arm.Body {
				arm.Body[i] = lowerStmt(ctx, sub)
			}
			ctx.Syms.global()
		}
	case SWhen:
		for _, arm := range s.WhenArms {
			ctx.Syms.local()
			if arm.Pattern != nil {
				lowerPatternBind(ctx, arm.Pattern, ScopeVeryLocal)
			}
			predeclareLetNames(ctx, arm.Body)
			for i, sub := range arm.Body {
				arm.Body[i] = lowerStmt(ctx, sub)
			}
			ctx.Syms.global()
		}
	}
	return s
}

// lowerPatternBind resolves identifier references already bound
// (struct/enum field names used as accessors) and inserts a fresh symbol
// for every identifier the pattern introduces, per the pattern
// walk.
func lowerPatternBind(ctx *Context, p *Pattern, scope Scope) {
	if p == nil {
		return
	}
	switch p.Kind {
	case PatIdent:
		if p.Name == "_" {
			p.Kind = PatWildcard
			return
		}
		id, _ := ctx.Syms.insert(p.Name, symIdentifier, scope, nil, p.Span, false)
		p.Ref = id
	case PatTuple:
		for _, e := range p.Elems {
			lowerPatternBind(ctx, e, scope)
		}
	case PatSome:
		for _, e := range p.Elems {
			lowerPatternBind(ctx, e, scope)
		}
	case PatStruct:
		// Field-coverage (a missing field with no `..` rest-binder) is
		// checked later, in typecheck.go's bindPattern: only there is the
		// scrutinee's resolved struct type available to compare against.
		for _, e := range p.Elems {
			lowerPatternBind(ctx, e, scope)
		}
	}
}

// lowerExpr resolves names within e in place, desugaring the component
// call Ref/CalledComponent/MemoryID fields per the HIR shape.
func lowerExpr(ctx *Context, e *Expr) {
	if e == nil {
		return
	}
	switch e.Kind {
	case EIdent:
		id, ok := ctx.Syms.lookup(e.Name)
		if !ok {
			ctx.Errs.addSimple(ErrUnknownIdentifier, e.Span, "unknown identifier %q", e.Name)
			e.Ref = invalidID
			return
		}
		e.Ref = id

	case ECall:
		compID, ok := ctx.Syms.lookup(e.CallName)
		if !ok || ctx.Syms.GetKind(compID) != symComponent {
			ctx.Errs.addSimple(ErrUnknownIdentifier, e.Span, "unknown component %q", e.CallName)
			compID = invalidID
		}
		e.CalledComponent = compID
		e.MemoryID = ctx.Syms.InsertFresh("call_"+e.CallName, ScopeVeryLocal, nil)
		for _, c := range e.Children {
			lowerExpr(ctx, c)
		}

	case EStructLit:
		// The parser reads every upper-case `Name(args)` as a struct
		// literal; when Name is a component it is a component call.
		if cid, ok := ctx.Syms.lookup(e.StructName); ok && ctx.Syms.GetKind(cid) == symComponent {
			e.Kind, e.CallName, e.StructName = ECall, e.StructName, ""
			lowerExpr(ctx, e)
			return
		}
		if sid, ok := ctx.Syms.lookup(e.StructName); ok {
			e.Ref = sid
		}
		for _, c := range e.Children {
			lowerExpr(ctx, c)
		}

	case EMatch:
		lowerExpr(ctx, e.Children[0])
		for _, arm := range e.Arms {
			ctx.Syms.local()
			lowerPatternBind(ctx, arm.Pattern, ScopeVeryLocal)
			if arm.Guard != nil {
				lowerExpr(ctx, arm.Guard)
			}
			lowerExpr(ctx, arm.Body)
			ctx.Syms.global()
		}

	case ELambda:
		ctx.Syms.local()
		for i := range e.Lambda.Params {
			id, _ := ctx.Syms.insert(e.Lambda.Params[i].Name, symIdentifier, ScopeVeryLocal, nil, e.Span, false)
			e.Lambda.Params[i].Ref = id
		}
		lowerExpr(ctx, e.Lambda.Body)
		ctx.Syms.global()

	case EFieldAccess:
		lowerExpr(ctx, e.Children[0])

	default:
		for _, c := range e.Children {
			lowerExpr(ctx, c)
		}
	}
}
