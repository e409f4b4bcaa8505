package compiler

import (
	"strconv"
)

// parser is a hand-written recursive-descent parser from the GR surface
// grammar fragment of the design notes to Program (IR0), in the mould of
// yaegi's own approach of building an AST close to source shape before any
// resolution happens. Parse errors are recoverable: a malformed
// declaration is skipped up to its next plausible boundary and parsing
// continues, matching the "batch of diagnostics" policy.
type parser struct {
	toks   []token
	pos    int
	fileID int
	errs   *errorList
}

func newParser(toks []token, fileID int, errs *errorList) *parser {
	return &parser{toks: toks, fileID: fileID, errs: errs}
}

// Parse parses a complete GR program.
func Parse(src string, fileID int) (*Program, *errorList) {
	errs := newErrorList()
	toks := newLexer(src, fileID, errs).tokenize()
	p := newParser(toks, fileID, errs)
	return p.parseProgram(), errs
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) at(k tokenKind) bool { return p.cur().kind == k }

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokenKind, what string) token {
	if p.at(k) {
		return p.advance()
	}
	p.errs.addSimple(ErrUnknownIdentifier, p.cur().span, "expected %s, found %q", what, p.cur().lit)
	return p.cur()
}

// skipToStmtBoundary recovers from a parse error by skipping tokens until
// a semicolon, closing brace, or EOF.
func (p *parser) skipToStmtBoundary() {
	for !p.at(tokSemi) && !p.at(tokRBrace) && !p.at(tokEOF) {
		p.advance()
	}
	if p.at(tokSemi) {
		p.advance()
	}
}

func (p *parser) parseProgram() *Program {
	prog := &Program{}
	for !p.at(tokEOF) {
		switch p.cur().kind {
		case tokEnum:
			prog.Enums = append(prog.Enums, p.parseEnum())
		case tokStruct:
			prog.Structs = append(prog.Structs, p.parseStruct())
		case tokFunction:
			prog.Functions = append(prog.Functions, p.parseFunction())
		case tokComponent:
			prog.Components = append(prog.Components, p.parseComponent())
		case tokImport:
			prog.Imports = append(prog.Imports, p.parseFlowDecl(false))
		case tokExport:
			prog.Exports = append(prog.Exports, p.parseFlowDecl(true))
		case tokService:
			prog.Service = p.parseService()
		default:
			p.errs.addSimple(ErrUnknownIdentifier, p.cur().span, "unexpected top-level token %q", p.cur().lit)
			p.advance()
		}
	}
	return prog
}

func (p *parser) parseEnum() *EnumDecl {
	start := p.cur().span
	p.advance() // enum
	name := p.expect(tokIdent, "enum name").lit
	p.expect(tokLBrace, "{")
	decl := &EnumDecl{Name: name, Span: start}
	for !p.at(tokRBrace) && !p.at(tokEOF) {
		decl.Variants = append(decl.Variants, p.expect(tokIdent, "variant name").lit)
		if p.at(tokComma) {
			p.advance()
		}
	}
	p.expect(tokRBrace, "}")
	return decl
}

func (p *parser) parseStruct() *StructDecl {
	start := p.cur().span
	p.advance() // struct
	name := p.expect(tokIdent, "struct name").lit
	p.expect(tokLBrace, "{")
	decl := &StructDecl{Name: name, Span: start}
	for !p.at(tokRBrace) && !p.at(tokEOF) {
		fname := p.expect(tokIdent, "field name").lit
		p.expect(tokColon, ":")
		ftype := p.parseTypeExpr()
		decl.Fields = append(decl.Fields, Param{Name: fname, Type: ftype})
		if p.at(tokComma) {
			p.advance()
		}
	}
	p.expect(tokRBrace, "}")
	return decl
}

func (p *parser) parseParamList() []Param {
	p.expect(tokLParen, "(")
	var params []Param
	for !p.at(tokRParen) && !p.at(tokEOF) {
		if !p.at(tokIdent) {
			p.errs.addSimple(ErrUnknownIdentifier, p.cur().span, "expected parameter name, found %q", p.cur().lit)
			break
		}
		name := p.expect(tokIdent, "parameter name").lit
		p.expect(tokColon, ":")
		typ := p.parseTypeExpr()
		params = append(params, Param{Name: name, Type: typ})
		if p.at(tokComma) {
			p.advance()
		}
	}
	p.expect(tokRParen, ")")
	return params
}

func (p *parser) parseFunction() *FunctionDecl {
	start := p.cur().span
	p.advance() // function
	name := p.expect(tokIdent, "function name").lit
	params := p.parseParamList()
	var result *TypeExpr
	if p.at(tokArrow) {
		p.advance()
		result = p.parseTypeExpr()
	}
	p.expect(tokLBrace, "{")
	body := p.parseExpr()
	p.expect(tokRBrace, "}")
	return &FunctionDecl{Name: name, Params: params, Result: result, Body: body, Span: start}
}

func (p *parser) parseComponent() *ComponentDecl {
	start := p.cur().span
	p.advance() // component
	name := p.expect(tokIdent, "component name").lit
	inputs := p.parseParamList()
	p.expect(tokArrow, "->")
	outputs := p.parseOutputList()
	decl := &ComponentDecl{Name: name, Inputs: inputs, Outputs: outputs, Span: start}
	if p.at(tokContract) {
		p.advance()
		decl.Contract = p.parseContractBlock()
	}
	p.expect(tokLBrace, "{")
	for !p.at(tokRBrace) && !p.at(tokEOF) {
		decl.Body = append(decl.Body, p.parseStmt())
	}
	p.expect(tokRBrace, "}")
	return decl
}

func (p *parser) parseOutputList() []Param {
	p.expect(tokLParen, "(")
	var outs []Param
	for !p.at(tokRParen) && !p.at(tokEOF) {
		name := p.expect(tokIdent, "output name").lit
		p.expect(tokColon, ":")
		typ := p.parseTypeExpr()
		outs = append(outs, Param{Name: name, Type: typ})
		if p.at(tokComma) {
			p.advance()
		}
	}
	p.expect(tokRParen, ")")
	return outs
}

// parseContractBlock parses a sequence of contract expressions between
// braces, kept parallel to the component body (see DESIGN.md: "keep
// parallel to the normal AST but distinguish their dependency label").
func (p *parser) parseContractBlock() []*Expr {
	p.expect(tokLBrace, "{")
	var terms []*Expr
	for !p.at(tokRBrace) && !p.at(tokEOF) {
		terms = append(terms, p.parseExpr())
		if p.at(tokSemi) {
			p.advance()
		}
	}
	p.expect(tokRBrace, "}")
	return terms
}

func (p *parser) parseFlowDecl(isExport bool) *FlowDecl {
	start := p.cur().span
	p.advance() // import/export
	isEvent := false
	if p.at(tokIdent) && p.cur().lit == "event" {
		isEvent = true
		p.advance()
	}
	name := p.expect(tokIdent, "flow name").lit
	var typ *TypeExpr
	if p.at(tokColon) {
		p.advance()
		typ = p.parseTypeExpr()
	}
	if p.at(tokSemi) {
		p.advance()
	}
	return &FlowDecl{Name: name, Type: typ, IsEvent: isEvent, Span: start}
}

func (p *parser) parseService() *ServiceDecl {
	start := p.cur().span
	p.advance() // service
	name := p.expect(tokIdent, "service name").lit
	svc := &ServiceDecl{Name: name, Span: start}
	if p.at(tokAt) {
		p.advance()
		p.expect(tokLBracket, "[")
		minV := p.parseIntLiteral()
		p.expect(tokComma, ",")
		maxV := p.parseIntLiteral()
		p.expect(tokRBracket, "]")
		svc.MinMs = &minV
		svc.MaxMs = &maxV
	}
	p.expect(tokLBrace, "{")
	for !p.at(tokRBrace) && !p.at(tokEOF) {
		if p.at(tokImport) {
			svc.Imports = append(svc.Imports, p.parseFlowDecl(false))
			continue
		}
		if p.at(tokExport) {
			svc.Exports = append(svc.Exports, p.parseFlowDecl(true))
			continue
		}
		svc.Body = append(svc.Body, p.parseStmt())
	}
	p.expect(tokRBrace, "}")
	return svc
}

func (p *parser) parseIntLiteral() int {
	tok := p.expect(tokInt, "integer literal")
	n, err := strconv.Atoi(tok.lit)
	if err != nil {
		p.errs.addSimple(ErrIncompatibleType, tok.span, "invalid integer literal %q", tok.lit)
	}
	return n
}

// ---- statements ----

func (p *parser) parseStmt() *Stmt {
	switch {
	case p.at(tokLet):
		return p.parseLetStmt()
	case p.at(tokMatch):
		return p.parseMatchStmt()
	case p.at(tokWhen):
		return p.parseWhenStmt()
	case p.at(tokIdent):
		return p.parseOutputStmt()
	default:
		p.errs.addSimple(ErrUnknownIdentifier, p.cur().span, "expected statement, found %q", p.cur().lit)
		p.skipToStmtBoundary()
		return &Stmt{Kind: SLet, Span: p.cur().span}
	}
}

func (p *parser) parseLetStmt() *Stmt {
	start := p.cur().span
	p.advance() // let
	pat := p.parsePattern()
	var typ *TypeExpr
	if p.at(tokColon) {
		p.advance()
		typ = p.parseTypeExpr()
	}
	p.expect(tokAssign, "=")
	expr := p.parseExpr()
	p.expect(tokSemi, ";")
	return &Stmt{Kind: SLet, Span: start, Pattern: pat, Type: typ, Expr: expr}
}

func (p *parser) parseOutputStmt() *Stmt {
	start := p.cur().span
	name := p.advance().lit
	p.expect(tokAssign, "=")
	expr := p.parseExpr()
	p.expect(tokSemi, ";")
	return &Stmt{Kind: SOutput, Span: start, Name: name, Expr: expr}
}

func (p *parser) parseMatchStmt() *Stmt {
	start := p.cur().span
	p.advance() // match
	scrutinee := p.parseExpr()
	p.expect(tokLBrace, "{")
	stmt := &Stmt{Kind: SMatch, Span: start, MatchScrutinee: scrutinee}
	for !p.at(tokRBrace) && !p.at(tokEOF) {
		pat := p.parsePattern()
		p.expect(tokFatArrow, "=>")
		p.expect(tokLBrace, "{")
		var body []*Stmt
		for !p.at(tokRBrace) && !p.at(tokEOF) {
			body = append(body, p.parseStmt())
		}
		p.expect(tokRBrace, "}")
		stmt.MatchArms = append(stmt.MatchArms, &MatchStmtArm{Pattern: pat, Body: body})
	}
	p.expect(tokRBrace, "}")
	return stmt
}

func (p *parser) parseWhenStmt() *Stmt {
	start := p.cur().span
	p.advance() // when
	p.expect(tokLBrace, "{")
	stmt := &Stmt{Kind: SWhen, Span: start}
	for !p.at(tokRBrace) && !p.at(tokEOF) {
		arm := &WhenArm{}
		if p.at(tokInit) {
			p.advance()
			arm.IsInit = true
		} else {
			arm.Pattern = p.parsePattern()
		}
		p.expect(tokFatArrow, "=>")
		p.expect(tokLBrace, "{")
		for !p.at(tokRBrace) && !p.at(tokEOF) {
			arm.Body = append(arm.Body, p.parseStmt())
		}
		p.expect(tokRBrace, "}")
		stmt.WhenArms = append(stmt.WhenArms, arm)
		if p.at(tokComma) {
			p.advance()
		}
	}
	p.expect(tokRBrace, "}")
	return stmt
}

// ---- patterns ----

func (p *parser) parsePattern() *Pattern {
	start := p.cur().span
	switch {
	case p.at(tokIdent) && p.cur().lit == "_":
		p.advance()
		return &Pattern{Kind: PatWildcard, Span: start}
	case p.at(tokSome):
		p.advance()
		p.expect(tokLParen, "(")
		inner := p.parsePattern()
		p.expect(tokRParen, ")")
		return &Pattern{Kind: PatSome, Span: start, Elems: []*Pattern{inner}}
	case p.at(tokNone):
		p.advance()
		return &Pattern{Kind: PatNone, Span: start}
	case p.at(tokLParen):
		p.advance()
		var elems []*Pattern
		for !p.at(tokRParen) && !p.at(tokEOF) {
			elems = append(elems, p.parsePattern())
			if p.at(tokComma) {
				p.advance()
			}
		}
		p.expect(tokRParen, ")")
		return &Pattern{Kind: PatTuple, Span: start, Elems: elems}
	case p.at(tokInt) || p.at(tokFloat) || p.at(tokBool) || p.at(tokString):
		return p.parseLiteralPattern()
	case p.at(tokIdent):
		name := p.cur().lit
		// struct pattern: Name { field: pat, ..., .. }; any other identifier,
		// upper-case or not, is an identifier pattern.
		if isUpper(name) && (p.peekKind(1) == tokLBrace) {
			p.advance()
			p.advance() // {
			pat := &Pattern{Kind: PatStruct, Span: start, StructName: name}
			for !p.at(tokRBrace) && !p.at(tokEOF) {
				if p.at(tokDot) && p.peekKind(1) == tokDot {
					p.advance()
					p.advance()
					pat.HasRest = true
					break
				}
				fname := p.expect(tokIdent, "field name").lit
				var fpat *Pattern
				if p.at(tokColon) {
					p.advance()
					fpat = p.parsePattern()
				} else {
					fpat = &Pattern{Kind: PatIdent, Span: p.cur().span, Name: fname}
				}
				pat.FieldNames = append(pat.FieldNames, fname)
				pat.Elems = append(pat.Elems, fpat)
				if p.at(tokComma) {
					p.advance()
				}
			}
			p.expect(tokRBrace, "}")
			return pat
		}
		p.advance()
		return &Pattern{Kind: PatIdent, Span: start, Name: name}
	default:
		p.errs.addSimple(ErrIncompatiblePattern, start, "expected pattern, found %q", p.cur().lit)
		p.advance()
		return &Pattern{Kind: PatWildcard, Span: start}
	}
}

func (p *parser) parseLiteralPattern() *Pattern {
	tok := p.advance()
	pat := &Pattern{Kind: PatLiteral, Span: tok.span}
	switch tok.kind {
	case tokInt:
		n, _ := strconv.ParseInt(tok.lit, 10, 64)
		pat.LitKind, pat.LitVal = LitInt, n
	case tokFloat:
		f, _ := strconv.ParseFloat(tok.lit, 64)
		pat.LitKind, pat.LitVal = LitFloat, f
	case tokBool:
		pat.LitKind, pat.LitVal = LitBool, tok.lit == "true"
	case tokString:
		pat.LitKind, pat.LitVal = LitString, tok.lit
	}
	return pat
}

func (p *parser) peekKind(offset int) tokenKind {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return tokEOF
	}
	return p.toks[idx].kind
}

func isUpper(s string) bool { return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' }

// ---- types ----

func (p *parser) parseTypeExpr() *TypeExpr {
	start := p.cur().span
	if p.at(tokIdent) && p.cur().lit == "Signal" {
		p.advance()
		p.expect(tokLt, "<")
		inner := p.parseTypeExpr()
		p.expect(tokGt, ">")
		return &TypeExpr{Span: start, IsSignal: true, Args: []*TypeExpr{inner}}
	}
	if p.at(tokIdent) && p.cur().lit == "Event" {
		p.advance()
		p.expect(tokLt, "<")
		inner := p.parseTypeExpr()
		p.expect(tokGt, ">")
		return &TypeExpr{Span: start, IsEvent: true, Args: []*TypeExpr{inner}}
	}
	if p.at(tokLBracket) {
		p.advance()
		elem := p.parseTypeExpr()
		p.expect(tokSemi, ";")
		n := p.parseIntLiteral()
		p.expect(tokRBracket, "]")
		return &TypeExpr{Span: start, Name: "Array", Args: []*TypeExpr{elem}, ArrayLen: n}
	}
	if p.at(tokLParen) {
		p.advance()
		var elems []*TypeExpr
		for !p.at(tokRParen) && !p.at(tokEOF) {
			elems = append(elems, p.parseTypeExpr())
			if p.at(tokComma) {
				p.advance()
			}
		}
		p.expect(tokRParen, ")")
		return &TypeExpr{Span: start, Name: "Tuple", Args: elems}
	}
	name := p.expect(tokIdent, "type name").lit
	te := &TypeExpr{Span: start, Name: name}
	if p.at(tokLt) {
		p.advance()
		for !p.at(tokGt) && !p.at(tokEOF) {
			te.Args = append(te.Args, p.parseTypeExpr())
			if p.at(tokComma) {
				p.advance()
			}
		}
		p.expect(tokGt, ">")
	}
	return te
}

// ---- expressions (precedence climbing) ----

func (p *parser) parseExpr() *Expr { return p.parseFby() }

// fby is lower-precedence than everything else and right-associative, per
// the design notes: "c fby e" where e may itself contain fby.
func (p *parser) parseFby() *Expr {
	left := p.parseOr()
	if p.at(tokFby) {
		start := left.Span
		p.advance()
		right := p.parseFby()
		return &Expr{Kind: EFby, Span: start, Children: []*Expr{left, right}}
	}
	return left
}

func (p *parser) parseOr() *Expr {
	left := p.parseAnd()
	for p.at(tokOr) {
		op := p.advance()
		right := p.parseAnd()
		left = &Expr{Kind: EBinop, Span: op.span, Name: "||", Children: []*Expr{left, right}}
	}
	return left
}

func (p *parser) parseAnd() *Expr {
	left := p.parseCompare()
	for p.at(tokAnd) {
		op := p.advance()
		right := p.parseCompare()
		left = &Expr{Kind: EBinop, Span: op.span, Name: "&&", Children: []*Expr{left, right}}
	}
	return left
}

var compareOps = map[tokenKind]string{
	tokEq: "==", tokNe: "!=", tokLt: "<", tokLe: "<=", tokGt: ">", tokGe: ">=",
}

func (p *parser) parseCompare() *Expr {
	left := p.parseAdditive()
	if op, ok := compareOps[p.cur().kind]; ok {
		tok := p.advance()
		right := p.parseAdditive()
		return &Expr{Kind: EBinop, Span: tok.span, Name: op, Children: []*Expr{left, right}}
	}
	return left
}

func (p *parser) parseAdditive() *Expr {
	left := p.parseMultiplicative()
	for p.at(tokPlus) || p.at(tokMinus) {
		tok := p.advance()
		right := p.parseMultiplicative()
		left = &Expr{Kind: EBinop, Span: tok.span, Name: tok.lit, Children: []*Expr{left, right}}
	}
	return left
}

func (p *parser) parseMultiplicative() *Expr {
	left := p.parseUnary()
	for p.at(tokStar) || p.at(tokSlash) || p.at(tokPercent) {
		tok := p.advance()
		right := p.parseUnary()
		left = &Expr{Kind: EBinop, Span: tok.span, Name: tok.lit, Children: []*Expr{left, right}}
	}
	return left
}

func (p *parser) parseUnary() *Expr {
	if p.at(tokMinus) || p.at(tokNot) {
		tok := p.advance()
		operand := p.parseUnary()
		return &Expr{Kind: EUnop, Span: tok.span, Name: tok.lit, Children: []*Expr{operand}}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() *Expr {
	e := p.parsePrimary()
	for {
		switch {
		case p.at(tokDot):
			p.advance()
			if p.at(tokInt) {
				idx, _ := strconv.Atoi(p.advance().lit)
				e = &Expr{Kind: ETupleAccess, Span: e.Span, Name: strconv.Itoa(idx), Children: []*Expr{e}}
				continue
			}
			field := p.expect(tokIdent, "field name").lit
			e = &Expr{Kind: EFieldAccess, Span: e.Span, Name: field, Children: []*Expr{e}}
		case p.at(tokQuestion):
			p.advance()
			e = &Expr{Kind: ERisingEdge, Span: e.Span, Children: []*Expr{e}}
		default:
			return e
		}
	}
}

func (p *parser) parsePrimary() *Expr {
	tok := p.cur()
	switch tok.kind {
	case tokInt:
		p.advance()
		n, _ := strconv.ParseInt(tok.lit, 10, 64)
		return &Expr{Kind: EConst, Span: tok.span, LitKind: LitInt, LitVal: n}
	case tokFloat:
		p.advance()
		f, _ := strconv.ParseFloat(tok.lit, 64)
		return &Expr{Kind: EConst, Span: tok.span, LitKind: LitFloat, LitVal: f}
	case tokBool:
		p.advance()
		return &Expr{Kind: EConst, Span: tok.span, LitKind: LitBool, LitVal: tok.lit == "true"}
	case tokString:
		p.advance()
		return &Expr{Kind: EConst, Span: tok.span, LitKind: LitString, LitVal: tok.lit}
	case tokIf:
		return p.parseCond()
	case tokMatch:
		return p.parseMatchExpr()
	case tokSome:
		p.advance()
		p.expect(tokLParen, "(")
		inner := p.parseExpr()
		p.expect(tokRParen, ")")
		return &Expr{Kind: ESomeEvent, Span: tok.span, Children: []*Expr{inner}}
	case tokNone:
		p.advance()
		return &Expr{Kind: ENoneEvent, Span: tok.span}
	case tokLParen:
		p.advance()
		first := p.parseExpr()
		if p.at(tokComma) {
			elems := []*Expr{first}
			for p.at(tokComma) {
				p.advance()
				elems = append(elems, p.parseExpr())
			}
			p.expect(tokRParen, ")")
			return &Expr{Kind: ETupleLit, Span: tok.span, Children: elems}
		}
		p.expect(tokRParen, ")")
		return first
	case tokLBracket:
		p.advance()
		var elems []*Expr
		for !p.at(tokRBracket) && !p.at(tokEOF) {
			elems = append(elems, p.parseExpr())
			if p.at(tokComma) {
				p.advance()
			}
		}
		p.expect(tokRBracket, "]")
		return &Expr{Kind: EArrayLit, Span: tok.span, Children: elems}
	case tokIdent:
		return p.parseIdentOrCall()
	default:
		p.errs.addSimple(ErrUnknownIdentifier, tok.span, "expected expression, found %q", tok.lit)
		p.advance()
		return &Expr{Kind: EConst, Span: tok.span, LitKind: LitUnit}
	}
}

func (p *parser) parseCond() *Expr {
	start := p.cur().span
	p.advance() // if
	cond := p.parseExpr()
	p.expect(tokThen, "then")
	thenE := p.parseExpr()
	p.expect(tokElse, "else")
	elseE := p.parseExpr()
	return &Expr{Kind: ECond, Span: start, Children: []*Expr{cond, thenE, elseE}}
}

func (p *parser) parseMatchExpr() *Expr {
	start := p.cur().span
	p.advance() // match
	scrutinee := p.parseExpr()
	p.expect(tokLBrace, "{")
	e := &Expr{Kind: EMatch, Span: start, Children: []*Expr{scrutinee}}
	for !p.at(tokRBrace) && !p.at(tokEOF) {
		pat := p.parsePattern()
		var guard *Expr
		if p.at(tokIf) {
			p.advance()
			guard = p.parseExpr()
		}
		p.expect(tokFatArrow, "=>")
		body := p.parseExpr()
		e.Arms = append(e.Arms, &MatchArm{Pattern: pat, Guard: guard, Body: body})
		if p.at(tokComma) {
			p.advance()
		}
	}
	p.expect(tokRBrace, "}")
	return e
}

// reactiveOps names the built-in reactive operators of the design notes, each
// type-checked via a fixed signature table rather than user declaration.
var reactiveOps = map[string]ExprKind{
	"sample": ESample, "scan": EScan, "on_change": EOnChange,
	"throttle": EThrottle, "timeout": ETimeout, "persist": EPersist,
	"merge": EMerge, "time": ETime,
}

func (p *parser) parseIdentOrCall() *Expr {
	start := p.cur().span
	name := p.advance().lit
	if !p.at(tokLParen) {
		return &Expr{Kind: EIdent, Span: start, Name: name}
	}
	p.advance() // (
	var args []*Expr
	for !p.at(tokRParen) && !p.at(tokEOF) {
		args = append(args, p.parseExpr())
		if p.at(tokComma) {
			p.advance()
		}
	}
	p.expect(tokRParen, ")")

	if kind, ok := reactiveOps[name]; ok {
		return &Expr{Kind: kind, Span: start, Name: name, Children: args}
	}
	if isUpper(name) {
		// positional struct construction via call syntax; lower.go turns it
		// into a component call when Name resolves to a component.
		return &Expr{Kind: EStructLit, Span: start, StructName: name, Children: args}
	}
	// component call: Name(args...).output, captured by the caller's postfix
	// parse picking up the trailing field access into OutputName via lowering.
	return &Expr{Kind: ECall, Span: start, CallName: name, Children: args}
}
