package compiler

import "fmt"

// Id is a dense identifier interned in the SymbolTable, per the design notes.
// Every signal, event, flow, component, function, enum, variant, struct,
// field, type, and user-declared constant owns one.
type Id int

// invalidID is the sentinel returned when a lookup is allowed to fail.
const invalidID Id = -1

// Scope classifies a signal's lexical role within its component, per
// the design notes.
type Scope int

const (
	ScopeInput Scope = iota
	ScopeOutput
	ScopeLocal
	ScopeVeryLocal
)

func (s Scope) String() string {
	switch s {
	case ScopeInput:
		return "input"
	case ScopeOutput:
		return "output"
	case ScopeLocal:
		return "local"
	case ScopeVeryLocal:
		return "very_local"
	}
	return "?"
}

// symKind enumerates the kinds of names a SymbolTable can bind, matching
// every get_*_id accessor the design notes requires.
type symKind int

const (
	symIdentifier symKind = iota // signal/event/local value
	symFunction
	symComponent // "node" in GR's operation names
	symEnum
	symEnumElem
	symStruct
	symFunctionResult
	symType // builtin type name
)

// symbolInfo is the attribute record attached to every interned Id.
type symbolInfo struct {
	id    Id
	name  string
	kind  symKind
	scope Scope
	typ   *Type
	loc   Span
}

// lexScope is one lexical level of name resolution, modeled directly on
// yaegi's scope: a flat map plus an ancestor pointer, pushed/popped by
// local()/global().
type lexScope struct {
	syms map[string]Id
	anc  *lexScope
}

// SymbolTable is the single source of truth for names and their attributes
// across one compilation, per the design notes. Identifiers returned are
// stable for the compilation's lifetime; id-to-attribute queries are O(1)
// slice indexing.
type SymbolTable struct {
	byID  []*symbolInfo
	cur   *lexScope
	fresh map[string]int // base name -> next suffix counter, for insert_fresh_*

	componentOutputs map[Id][]Id // component Id -> ordered output Ids
	componentInputs  map[Id][]Id
}

// NewSymbolTable creates an empty table with the root (global) scope
// pushed, ready for insertions.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		cur:              &lexScope{syms: map[string]Id{}},
		fresh:            map[string]int{},
		componentOutputs: map[Id][]Id{},
		componentInputs:  map[Id][]Id{},
	}
}

// local pushes a new lexical scope; insertions made after this call are
// discarded by the matching global() call.
func (t *SymbolTable) local() { t.cur = &lexScope{syms: map[string]Id{}, anc: t.cur} }

// global pops the current lexical scope.
func (t *SymbolTable) global() {
	if t.cur.anc != nil {
		t.cur = t.cur.anc
	}
}

// insert binds name in the current scope. unique, when true, fails (second
// return false) if name is already bound in the current scope; otherwise
// it shadows. The caller chooses which semantics applies.
func (t *SymbolTable) insert(name string, kind symKind, scope Scope, typ *Type, loc Span, unique bool) (Id, bool) {
	if unique {
		if _, ok := t.cur.syms[name]; ok {
			return invalidID, false
		}
	}
	id := Id(len(t.byID))
	t.byID = append(t.byID, &symbolInfo{id: id, name: name, kind: kind, scope: scope, typ: typ, loc: loc})
	t.cur.syms[name] = id
	return id, true
}

// lookup resolves name in the current scope chain without recording an
// error.
func (t *SymbolTable) lookup(name string) (Id, bool) {
	for s := t.cur; s != nil; s = s.anc {
		if id, ok := s.syms[name]; ok {
			return id, true
		}
	}
	return invalidID, false
}

func (t *SymbolTable) info(id Id) *symbolInfo {
	if id < 0 || int(id) >= len(t.byID) {
		return nil
	}
	return t.byID[id]
}

// GetName returns the (possibly fresh-renamed) name bound to id. Every Id
// created through insert/insertFresh satisfies the round-trip invariant
// of the design notes.
func (t *SymbolTable) GetName(id Id) string {
	if info := t.info(id); info != nil {
		return info.name
	}
	return fmt.Sprintf("<unknown#%d>", id)
}

func (t *SymbolTable) GetScope(id Id) Scope {
	if info := t.info(id); info != nil {
		return info.scope
	}
	return ScopeLocal
}

func (t *SymbolTable) SetScope(id Id, s Scope) {
	if info := t.info(id); info != nil {
		info.scope = s
	}
}

func (t *SymbolTable) GetType(id Id) *Type {
	if info := t.info(id); info != nil {
		return info.typ
	}
	return nil
}

func (t *SymbolTable) SetType(id Id, typ *Type) {
	if info := t.info(id); info != nil {
		info.typ = typ
	}
}

func (t *SymbolTable) GetLoc(id Id) Span {
	if info := t.info(id); info != nil {
		return info.loc
	}
	return Span{}
}

func (t *SymbolTable) GetKind(id Id) symKind {
	if info := t.info(id); info != nil {
		return info.kind
	}
	return symIdentifier
}

// getOrError resolves name to an Id of the expected kind, recording
// ErrUnknownIdentifier (or a more specific kind, chosen by the caller)
// when missing or bound to another kind. The error is always recorded and
// invalidID returned, so callers that ignore the error (defensive code)
// don't dereference garbage.
func (t *SymbolTable) getOrError(name string, kind symKind, loc Span, errs *errorList, errKind ErrorKind) Id {
	id, ok := t.lookup(name)
	if !ok {
		errs.addSimple(errKind, loc, "unknown %s %q", kindLabel(kind), name)
		return invalidID
	}
	if t.GetKind(id) != kind {
		errs.addSimple(errKind, loc, "%q is not a %s", name, kindLabel(kind))
		return invalidID
	}
	return id
}

func kindLabel(k symKind) string {
	switch k {
	case symIdentifier:
		return "identifier"
	case symFunction:
		return "function"
	case symComponent:
		return "component"
	case symEnum:
		return "enumeration"
	case symEnumElem:
		return "enumeration variant"
	case symStruct:
		return "structure"
	case symFunctionResult:
		return "function result"
	case symType:
		return "type"
	}
	return "name"
}

func (t *SymbolTable) GetIdentifierID(name string, loc Span, errs *errorList) Id {
	return t.getOrError(name, symIdentifier, loc, errs, ErrUnknownIdentifier)
}
func (t *SymbolTable) GetFunctionID(name string, loc Span, errs *errorList) Id {
	return t.getOrError(name, symFunction, loc, errs, ErrUnknownIdentifier)
}
func (t *SymbolTable) GetNodeID(name string, loc Span, errs *errorList) Id {
	return t.getOrError(name, symComponent, loc, errs, ErrUnknownIdentifier)
}
func (t *SymbolTable) GetEnumID(name string, loc Span, errs *errorList) Id {
	return t.getOrError(name, symEnum, loc, errs, ErrUnknownEnumeration)
}
func (t *SymbolTable) GetEnumElemID(name string, loc Span, errs *errorList) Id {
	return t.getOrError(name, symEnumElem, loc, errs, ErrUnknownVariant)
}
func (t *SymbolTable) GetStructID(name string, loc Span, errs *errorList) Id {
	return t.getOrError(name, symStruct, loc, errs, ErrUnknownIdentifier)
}

// InsertFresh creates a uniquely-named derived identifier "<base>_<n>"
// without colliding with anything reachable, per the design notes.
func (t *SymbolTable) InsertFresh(base string, scope Scope, typ *Type) Id {
	for {
		n := t.fresh[base]
		t.fresh[base]++
		name := fmt.Sprintf("%s_%d", base, n)
		if _, taken := t.lookup(name); taken {
			continue
		}
		id, _ := t.insert(name, symIdentifier, scope, typ, Span{}, false)
		return id
	}
}

// SetComponentSignature records a component's ordered input/output Ids,
// used by dependency analysis to look up reduced graphs (the design notes).
func (t *SymbolTable) SetComponentSignature(comp Id, inputs, outputs []Id) {
	t.componentInputs[comp] = inputs
	t.componentOutputs[comp] = outputs
}

func (t *SymbolTable) ComponentInputs(comp Id) []Id  { return t.componentInputs[comp] }
func (t *SymbolTable) ComponentOutputs(comp Id) []Id { return t.componentOutputs[comp] }
