package compiler

import "fmt"

// typeCategory is the closed set of type categories from the design notes.
type typeCategory int

const (
	tInteger typeCategory = iota
	tFloat
	tBoolean
	tUnit
	tString
	tOption
	tTuple
	tArray
	tStructure
	tEnumeration
	tFunction
	tSignal
	tEvent
	tAny // inference placeholder only, never appears in accepted output
)

// Type is the single closed sum-type representation for every GR type,
// modeled on yaegi's itype: one struct with a category discriminant and
// category-specific payload fields, rather than a Go interface hierarchy
// per concrete type (the design notes data model notes; see the design notes).
type Type struct {
	Cat typeCategory

	// tStructure / tEnumeration: the declared name and its symbol Id.
	Name string
	Decl Id

	// tOption / tSignal / tEvent: the element type.
	Elem *Type

	// tArray: element type and fixed length.
	ArrayLen int

	// tTuple: element types in order.
	Elems []*Type

	// tStructure: field names parallel to Elems (field types).
	FieldNames []string

	// tFunction: parameter types (Elems) and result type (Elem).
}

func newSimple(cat typeCategory) *Type { return &Type{Cat: cat} }

var (
	typeInteger = newSimple(tInteger)
	typeFloat   = newSimple(tFloat)
	typeBoolean = newSimple(tBoolean)
	typeUnit    = newSimple(tUnit)
	typeString  = newSimple(tString)
	typeAny     = newSimple(tAny)
)

func optionOf(t *Type) *Type  { return &Type{Cat: tOption, Elem: t} }
func signalOf(t *Type) *Type  { return &Type{Cat: tSignal, Elem: t} }
func eventOf(t *Type) *Type   { return &Type{Cat: tEvent, Elem: t} }
func tupleOf(ts []*Type) *Type { return &Type{Cat: tTuple, Elems: ts} }
func arrayOf(t *Type, n int) *Type { return &Type{Cat: tArray, Elem: t, ArrayLen: n} }
func functionOf(params []*Type, result *Type) *Type {
	return &Type{Cat: tFunction, Elems: params, Elem: result}
}

// Equal reports structural type equality. Any is not a wildcard here: it
// equals only Any.
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Cat != o.Cat {
		return false
	}
	switch t.Cat {
	case tInteger, tFloat, tBoolean, tUnit, tString, tAny:
		return true
	case tOption, tSignal, tEvent:
		return t.Elem.Equal(o.Elem)
	case tArray:
		return t.ArrayLen == o.ArrayLen && t.Elem.Equal(o.Elem)
	case tTuple:
		if len(t.Elems) != len(o.Elems) {
			return false
		}
		for i := range t.Elems {
			if !t.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	case tStructure, tEnumeration:
		return t.Decl == o.Decl
	case tFunction:
		if !t.Elem.Equal(o.Elem) || len(t.Elems) != len(o.Elems) {
			return false
		}
		for i := range t.Elems {
			if !t.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// IsFlow reports whether t is a Signal or Event wrapper.
func (t *Type) IsFlow() bool { return t != nil && (t.Cat == tSignal || t.Cat == tEvent) }

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Cat {
	case tInteger:
		return "int"
	case tFloat:
		return "float"
	case tBoolean:
		return "bool"
	case tUnit:
		return "unit"
	case tString:
		return "string"
	case tAny:
		return "any"
	case tOption:
		return fmt.Sprintf("Option<%s>", t.Elem)
	case tSignal:
		return fmt.Sprintf("Signal<%s>", t.Elem)
	case tEvent:
		return fmt.Sprintf("Event<%s>", t.Elem)
	case tArray:
		return fmt.Sprintf("[%s; %d]", t.Elem, t.ArrayLen)
	case tTuple:
		s := "("
		for i, e := range t.Elems {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + ")"
	case tStructure:
		return t.Name
	case tEnumeration:
		return t.Name
	case tFunction:
		s := "fn("
		for i, e := range t.Elems {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + fmt.Sprintf(") -> %s", t.Elem)
	}
	return "?"
}
