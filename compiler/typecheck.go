package compiler

// typecheck.go walks HIR and fills every Expr.Typ / Pattern type slot,
// per the design notes: per-construct rule tables are plain Go switches over
// (op, category) triples, in the spirit of yaegi's binaryOpPredicates /
// unaryOpPredicates fixed tables (see interp/interp.go's initUniverse
// neighborhood for this codebase's fixed-table style).

// TypeCheck walks every function, component, and the service, filling
// type slots and recording mismatches in ctx.Errs. It does not halt on
// the first error: per the design notes, "each mismatch appends an error;
// checking continues to the next statement."
func TypeCheck(ctx *Context) {
	item := ctx.Stats.Start("typecheck")
	defer ctx.Stats.End(item)

	tc := &typeChecker{ctx: ctx}
	for _, fn := range ctx.Functions {
		tc.checkFunction(fn)
	}
	for _, comp := range ctx.Components {
		tc.checkComponent(comp)
	}
	if ctx.Service != nil {
		predeclareLetTypes(ctx, ctx.Service.Statements)
		tc.checkStmts(ctx.Service.Statements)
	}
}

// predeclareLetTypes resolves every explicitly-annotated `let`'s declared
// type before any statement in body is checked, so an earlier statement
// may reference a later, annotated let (the Counter worked example: an
// earlier statement reads `inc`, a local only declared — with its own
// `: int` annotation — by a later `let`). Mirrors predeclareLetNames's
// forward-declare-then-check shape at the type layer; an unannotated let's
// type still can't be known before its own rhs is checked, except for the
// self-referential-fby case checkStmt's SLet arm handles directly.
func predeclareLetTypes(ctx *Context, stmts []*Stmt) {
	for _, s := range stmts {
		if s.Kind == SLet && s.Type != nil && s.Ref != invalidID {
			ctx.Syms.SetType(s.Ref, resolveTypeExpr(ctx, s.Type))
		}
	}
}

type typeChecker struct {
	ctx *Context
}

func (tc *typeChecker) checkFunction(fn *FunctionDecl) {
	for i := range fn.Params {
		t := resolveTypeExpr(tc.ctx, fn.Params[i].Type)
		tc.ctx.Syms.SetType(fn.Params[i].Ref, t)
	}
	tc.checkExpr(fn.Body)
	if fn.Result != nil {
		want := resolveTypeExpr(tc.ctx, fn.Result)
		if fn.Body.Typ != nil && !fn.Body.Typ.Equal(want) {
			tc.ctx.Errs.addSimple(ErrIncompatibleType, fn.Body.Span,
				"function %q: body type %s does not match declared result %s", fn.Name, fn.Body.Typ, want)
		}
	}
}

func (tc *typeChecker) checkComponent(comp *Component) {
	for _, in := range comp.Inputs {
		if tc.ctx.Syms.GetType(in) == nil {
			tc.ctx.Syms.SetType(in, typeAny)
		}
	}
	for _, out := range comp.Outputs {
		if tc.ctx.Syms.GetType(out.ID) == nil {
			tc.ctx.Syms.SetType(out.ID, typeAny)
		}
	}
	predeclareLetTypes(tc.ctx, comp.Statements)
	tc.checkStmts(comp.Statements)
	for _, term := range comp.Contract {
		tc.checkExpr(term)
	}
}

func (tc *typeChecker) checkStmts(stmts []*Stmt) {
	for _, s := range stmts {
		tc.checkStmt(s)
	}
}

func (tc *typeChecker) checkStmt(s *Stmt) {
	switch s.Kind {
	case SLet:
		var declared *Type
		if s.Type != nil {
			declared = resolveTypeExpr(tc.ctx, s.Type)
		}
		// A bare `let n = init fby delayed` may reference its own name
		// inside delayed (`let n = 0 fby (n + tick);`): fby's type is
		// always the initial half's type regardless of delayed, so that
		// half alone is enough to resolve n before delayed is checked,
		// breaking what would otherwise be a self-referential typeAny.
		if s.Expr != nil && s.Expr.Kind == EFby && s.Ref != invalidID && declared == nil {
			tc.checkExpr(s.Expr.Children[0])
			tc.ctx.Syms.SetType(s.Ref, s.Expr.Children[0].Typ)
		} else if declared != nil && s.Ref != invalidID {
			tc.ctx.Syms.SetType(s.Ref, declared)
		}
		tc.checkExpr(s.Expr)
		tc.bindPattern(s.Pattern, exprType(s.Expr, declared))
		if s.Ref != invalidID {
			tc.ctx.Syms.SetType(s.Ref, exprType(s.Expr, declared))
		}
	case SOutput:
		tc.checkExpr(s.Expr)
		if s.Ref != invalidID {
			existing := tc.ctx.Syms.GetType(s.Ref)
			got := s.Expr.Typ
			if existing != nil && existing.Cat != tAny && got != nil && !existing.Equal(got) {
				tc.ctx.Errs.addSimple(ErrIncompatibleType, s.Span,
					"output %q: expected %s, got %s", s.Name, existing, got)
			} else if got != nil {
				tc.ctx.Syms.SetType(s.Ref, got)
			}
		}
	case SMatch:
		tc.checkExpr(s.MatchScrutinee)
		for _, arm := range s.MatchArms {
			tc.bindPattern(arm.Pattern, s.MatchScrutinee.Typ)
			predeclareLetTypes(tc.ctx, arm.Body)
			tc.checkStmts(arm.Body)
		}
	case SWhen:
		for _, arm := range s.WhenArms {
			if arm.Pattern != nil {
				tc.bindPattern(arm.Pattern, optionOf(typeAny))
			}
			predeclareLetTypes(tc.ctx, arm.Body)
			tc.checkStmts(arm.Body)
		}
	}
}

// bindPattern assigns a type to every identifier the pattern introduces,
// per the "patterns bind identifiers by structural walk" rule.
func (tc *typeChecker) bindPattern(p *Pattern, scrutinee *Type) {
	if p == nil {
		return
	}
	switch p.Kind {
	case PatIdent:
		if p.Ref != invalidID {
			tc.ctx.Syms.SetType(p.Ref, scrutinee)
		}
	case PatTuple:
		if scrutinee != nil && scrutinee.Cat == tTuple && len(scrutinee.Elems) == len(p.Elems) {
			for i, e := range p.Elems {
				tc.bindPattern(e, scrutinee.Elems[i])
			}
		} else {
			tc.ctx.Errs.addSimple(ErrIncompatibleTuple, p.Span, "pattern arity does not match scrutinee")
			for _, e := range p.Elems {
				tc.bindPattern(e, typeAny)
			}
		}
	case PatSome:
		if scrutinee != nil && scrutinee.Cat == tOption {
			tc.bindPattern(p.Elems[0], scrutinee.Elem)
		} else {
			tc.ctx.Errs.addSimple(ErrExpectOptionPattern, p.Span, "Some(_) pattern requires an Option scrutinee")
			tc.bindPattern(p.Elems[0], typeAny)
		}
	case PatNone:
		if scrutinee == nil || scrutinee.Cat != tOption {
			tc.ctx.Errs.addSimple(ErrExpectOptionPattern, p.Span, "None pattern requires an Option scrutinee")
		}
	case PatStruct:
		tc.checkStructPatternCoverage(p, scrutinee)
		for _, e := range p.Elems {
			tc.bindPattern(e, typeAny)
		}
	}
}

// checkStructPatternCoverage rejects a struct pattern that omits a field
// with no `..` rest-binder present ("Missing field" seed scenario): every
// field of the struct declaration must appear in p.FieldNames unless
// p.HasRest is set.
func (tc *typeChecker) checkStructPatternCoverage(p *Pattern, scrutinee *Type) {
	if scrutinee == nil || scrutinee.Cat != tStructure || p.HasRest {
		return
	}
	sd, ok := tc.ctx.Structs[scrutinee.Decl]
	if !ok {
		return
	}
	bound := map[string]bool{}
	for _, name := range p.FieldNames {
		bound[name] = true
	}
	for _, f := range sd.Fields {
		if !bound[f.Name] {
			tc.ctx.Errs.addSimple(ErrMissingField, p.Span, "structure %q pattern is missing field %q", sd.Name, f.Name)
		}
	}
}

// exprType prefers an explicit declared type over the inferred one, so a
// `let x: T = e` annotation wins when present.
func exprType(e *Expr, declared *Type) *Type {
	if declared != nil {
		return declared
	}
	if e != nil {
		return e.Typ
	}
	return typeAny
}

func (tc *typeChecker) checkExpr(e *Expr) {
	if e == nil || e.Typ != nil {
		return
	}
	switch e.Kind {
	case EConst:
		e.Typ = litType(e.LitKind)

	case EIdent:
		e.Typ = tc.ctx.Syms.GetType(e.Ref)
		if e.Typ == nil {
			e.Typ = typeAny
		}

	case EUnop:
		tc.checkExpr(e.Children[0])
		e.Typ = tc.checkUnop(e)

	case EBinop:
		tc.checkExpr(e.Children[0])
		tc.checkExpr(e.Children[1])
		e.Typ = tc.checkBinop(e)

	case ECond:
		tc.checkExpr(e.Children[0])
		tc.checkExpr(e.Children[1])
		tc.checkExpr(e.Children[2])
		if e.Children[0].Typ != nil && e.Children[0].Typ.Cat != tBoolean {
			tc.ctx.Errs.addSimple(ErrIncompatibleType, e.Span, "if condition must be Boolean")
		}
		if e.Children[1].Typ != nil && e.Children[2].Typ != nil && !e.Children[1].Typ.Equal(e.Children[2].Typ) {
			tc.ctx.Errs.addSimple(ErrIncompatibleType, e.Span, "if branches have differing types")
		}
		e.Typ = e.Children[1].Typ

	case EApply:
		for _, c := range e.Children {
			tc.checkExpr(c)
		}
		e.Typ = typeAny

	case ELambda:
		for i := range e.Lambda.Params {
			tc.ctx.Syms.SetType(e.Lambda.Params[i].Ref, resolveTypeExpr(tc.ctx, e.Lambda.Params[i].Type))
		}
		tc.checkExpr(e.Lambda.Body)
		e.Typ = functionOf(paramTypes(tc.ctx, e.Lambda.Params), e.Lambda.Body.Typ)

	case EFby:
		// Children[0] may already be typed: checkStmt's SLet case resolves
		// the initial half up front so a self-referential delayed half
		// (`let n = 0 fby (n + tick);`) sees n's real type, not typeAny.
		if e.Children[0].Typ == nil {
			tc.checkExpr(e.Children[0])
		}
		tc.checkExpr(e.Children[1])
		if e.Children[0].Typ != nil && e.Children[1].Typ != nil && !e.Children[0].Typ.Equal(e.Children[1].Typ) {
			tc.ctx.Errs.addSimple(ErrIncompatibleInitial, e.Span, "fby requires matching element types")
		}
		e.Typ = e.Children[0].Typ

	case EStructLit:
		for _, c := range e.Children {
			tc.checkExpr(c)
		}
		if sd, ok := tc.ctx.Structs[e.Ref]; ok {
			e.Typ = &Type{Cat: tStructure, Name: sd.Name, Decl: sd.Ref}
		} else {
			e.Typ = typeAny
		}

	case ETupleLit:
		var elems []*Type
		for _, c := range e.Children {
			tc.checkExpr(c)
			elems = append(elems, c.Typ)
		}
		e.Typ = tupleOf(elems)

	case EArrayLit:
		var elem *Type = typeAny
		for _, c := range e.Children {
			tc.checkExpr(c)
			if c.Typ != nil {
				elem = c.Typ
			}
		}
		e.Typ = arrayOf(elem, len(e.Children))

	case EFieldAccess:
		tc.checkExpr(e.Children[0])
		e.Typ = tc.fieldType(e.Children[0].Typ, e.Name, e.Span)

	case ETupleAccess:
		tc.checkExpr(e.Children[0])
		base := e.Children[0].Typ
		if base != nil && base.Cat == tTuple {
			idx := tupleIndex(e.Name)
			if idx >= 0 && idx < len(base.Elems) {
				e.Typ = base.Elems[idx]
			} else {
				tc.ctx.Errs.addSimple(ErrIncompatibleTuple, e.Span, "tuple index %s out of range", e.Name)
				e.Typ = typeAny
			}
		} else {
			tc.ctx.Errs.addSimple(ErrIncompatibleTuple, e.Span, "field access on non-tuple type")
			e.Typ = typeAny
		}

	case EFold, EMap, ESort, EZip:
		for _, c := range e.Children {
			tc.checkExpr(c)
		}
		e.Typ = typeAny

	case EMatch:
		tc.checkExpr(e.Children[0])
		var result *Type
		for _, arm := range e.Arms {
			tc.bindPattern(arm.Pattern, e.Children[0].Typ)
			if arm.Guard != nil {
				tc.checkExpr(arm.Guard)
			}
			tc.checkExpr(arm.Body)
			if result == nil {
				result = arm.Body.Typ
			}
		}
		e.Typ = result

	case ERisingEdge:
		tc.checkExpr(e.Children[0])
		e.Typ = eventOf(typeUnit)

	case ESomeEvent:
		tc.checkExpr(e.Children[0])
		e.Typ = optionOf(e.Children[0].Typ)

	case ENoneEvent:
		e.Typ = optionOf(typeAny)

	case ESample, EScan, EOnChange, EThrottle, ETimeout, EPersist, EMerge, ETime:
		tc.checkReactiveOp(e)

	case ECall, EUnitaryCall:
		for _, c := range e.Children {
			tc.checkExpr(c)
		}
		e.Typ = tc.callResultType(e)

	case EEnumLit:
		e.Typ = &Type{Cat: tEnumeration, Name: e.StructName}

	default:
		e.Typ = typeAny
	}
}

func tupleIndex(lit string) int {
	n := 0
	for _, r := range lit {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func (tc *typeChecker) fieldType(base *Type, field string, loc Span) *Type {
	if base == nil || base.Cat != tStructure {
		tc.ctx.Errs.addSimple(ErrUnknownField, loc, "field %q access on non-structure type", field)
		return typeAny
	}
	sd, ok := tc.ctx.Structs[base.Decl]
	if !ok {
		return typeAny
	}
	for _, f := range sd.Fields {
		if f.Name == field {
			return resolveTypeExpr(tc.ctx, f.Type)
		}
	}
	tc.ctx.Errs.addSimple(ErrMissingField, loc, "structure %q has no field %q", sd.Name, field)
	return typeAny
}

var numericCats = map[typeCategory]bool{tInteger: true, tFloat: true}

func (tc *typeChecker) checkUnop(e *Expr) *Type {
	operand := e.Children[0].Typ
	if operand == nil {
		return typeAny
	}
	switch e.Name {
	case "-":
		if !numericCats[operand.Cat] {
			tc.ctx.Errs.addSimple(ErrIncompatibleType, e.Span, "unary - requires a numeric operand, got %s", operand)
			return typeAny
		}
		return operand
	case "!":
		if operand.Cat != tBoolean {
			tc.ctx.Errs.addSimple(ErrIncompatibleType, e.Span, "! requires a Boolean operand, got %s", operand)
			return typeAny
		}
		return typeBoolean
	}
	return typeAny
}

var arithmeticOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true}
var compareCmpOps = map[string]bool{"<": true, "<=": true, ">": true, ">=": true}
var equalityOps = map[string]bool{"==": true, "!=": true}
var boolOps = map[string]bool{"&&": true, "||": true}

func (tc *typeChecker) checkBinop(e *Expr) *Type {
	l, r := e.Children[0].Typ, e.Children[1].Typ
	if l == nil || r == nil {
		return typeAny
	}
	switch {
	case arithmeticOps[e.Name]:
		if !numericCats[l.Cat] || !numericCats[r.Cat] || l.Cat != r.Cat {
			tc.ctx.Errs.addSimple(ErrIncompatibleType, e.Span, "%s requires matching numeric operands, got %s and %s", e.Name, l, r)
			return typeAny
		}
		return l
	case compareCmpOps[e.Name]:
		if !numericCats[l.Cat] || !numericCats[r.Cat] || l.Cat != r.Cat {
			tc.ctx.Errs.addSimple(ErrIncompatibleType, e.Span, "%s requires matching numeric operands, got %s and %s", e.Name, l, r)
		}
		return typeBoolean
	case equalityOps[e.Name]:
		if !l.Equal(r) {
			tc.ctx.Errs.addSimple(ErrIncompatibleType, e.Span, "%s requires matching operand types, got %s and %s", e.Name, l, r)
		}
		return typeBoolean
	case boolOps[e.Name]:
		if l.Cat != tBoolean || r.Cat != tBoolean {
			tc.ctx.Errs.addSimple(ErrIncompatibleType, e.Span, "%s requires Boolean operands, got %s and %s", e.Name, l, r)
		}
		return typeBoolean
	}
	return typeAny
}

// checkReactiveOp implements the fixed reactive-operator signature table
// of the design notes.
func (tc *typeChecker) checkReactiveOp(e *Expr) {
	for _, c := range e.Children {
		tc.checkExpr(c)
	}
	arg := e.Children[0].Typ
	elem := typeAny
	if arg != nil && (arg.Cat == tSignal || arg.Cat == tEvent) {
		elem = arg.Elem
	}
	switch e.Kind {
	case ESample:
		requireCat(tc, e, arg, tEvent, "sample")
		e.Typ = signalOf(elem)
	case EScan:
		requireCat(tc, e, arg, tSignal, "scan")
		e.Typ = eventOf(elem)
	case EOnChange:
		requireCat(tc, e, arg, tSignal, "on_change")
		e.Typ = eventOf(elem)
	case EThrottle:
		requireCat(tc, e, arg, tSignal, "throttle")
		e.Typ = signalOf(elem)
	case ETimeout:
		requireCat(tc, e, arg, tEvent, "timeout")
		e.Typ = eventOf(optionOf(elem))
	case EPersist:
		requireCat(tc, e, arg, tEvent, "persist")
		e.Typ = signalOf(elem)
	case EMerge:
		requireCat(tc, e, arg, tEvent, "merge")
		if len(e.Children) > 1 {
			requireCat(tc, e, e.Children[1].Typ, tEvent, "merge")
		}
		e.Typ = eventOf(elem)
	case ETime:
		e.Typ = signalOf(typeInteger)
	}
}

func requireCat(tc *typeChecker, e *Expr, t *Type, want typeCategory, op string) {
	if t == nil || t.Cat != want {
		tc.ctx.Errs.addSimple(ErrIncompatibleType, e.Span, "%s requires a %v-categoried argument", op, want)
	}
}

// callResultType produces the per-output Signal/Event tuple a component
// call yields, per the component-call rule. A single-output
// call (including any already-unitary-extracted call) yields that one
// flow type directly rather than a 1-tuple, matching how `C(args).out`
// field-access is written in source.
func (tc *typeChecker) callResultType(e *Expr) *Type {
	outputs := tc.ctx.Syms.ComponentOutputs(e.CalledComponent)
	if len(outputs) == 0 {
		return typeAny
	}
	var elems []*Type
	for _, out := range outputs {
		t := tc.ctx.Syms.GetType(out)
		if t == nil {
			t = typeAny
		}
		elems = append(elems, t)
	}
	if len(elems) == 1 {
		return elems[0]
	}
	return tupleOf(elems)
}

func litType(k LitKind) *Type {
	switch k {
	case LitInt:
		return typeInteger
	case LitFloat:
		return typeFloat
	case LitBool:
		return typeBoolean
	case LitString:
		return typeString
	default:
		return typeUnit
	}
}

func paramTypes(ctx *Context, params []Param) []*Type {
	var out []*Type
	for _, p := range params {
		out = append(out, resolveTypeExpr(ctx, p.Type))
	}
	return out
}

// resolveTypeExpr maps a surface TypeExpr to the closed Type sum,
// resolving named enum/struct references via the symbol table and
// builtin names via a fixed table (the "fixed by a
// per-construct rule" approach, generalized to type names).
func resolveTypeExpr(ctx *Context, te *TypeExpr) *Type {
	if te == nil {
		return typeAny
	}
	if te.IsSignal {
		return signalOf(resolveTypeExpr(ctx, te.Args[0]))
	}
	if te.IsEvent {
		return eventOf(resolveTypeExpr(ctx, te.Args[0]))
	}
	switch te.Name {
	case "int":
		return typeInteger
	case "float":
		return typeFloat
	case "bool":
		return typeBoolean
	case "unit":
		return typeUnit
	case "string":
		return typeString
	case "Option":
		return optionOf(resolveTypeExpr(ctx, te.Args[0]))
	case "Tuple":
		var elems []*Type
		for _, a := range te.Args {
			elems = append(elems, resolveTypeExpr(ctx, a))
		}
		return tupleOf(elems)
	case "Array":
		return arrayOf(resolveTypeExpr(ctx, te.Args[0]), te.ArrayLen)
	}
	if id, ok := ctx.Syms.lookup(te.Name); ok {
		if t := ctx.Syms.GetType(id); t != nil {
			return t
		}
	}
	return typeAny
}
