package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTableRoundTripsNameAndAttributes(t *testing.T) {
	st := NewSymbolTable()
	id, ok := st.insert("tick", symIdentifier, ScopeInput, typeInteger, Span{}, true)
	require.True(t, ok)

	assert.Equal(t, "tick", st.GetName(id))
	assert.Equal(t, ScopeInput, st.GetScope(id))
	assert.Equal(t, symIdentifier, st.GetKind(id))
	assert.True(t, typeInteger.Equal(st.GetType(id)))
}

func TestSymbolTableUniqueInsertRejectsDuplicateInSameScope(t *testing.T) {
	st := NewSymbolTable()
	_, ok := st.insert("x", symIdentifier, ScopeLocal, typeInteger, Span{}, true)
	require.True(t, ok)
	_, ok = st.insert("x", symIdentifier, ScopeLocal, typeInteger, Span{}, true)
	assert.False(t, ok, "a unique insert must fail on a name already bound in the current scope")
}

func TestSymbolTableNonUniqueInsertShadows(t *testing.T) {
	st := NewSymbolTable()
	first, ok := st.insert("x", symIdentifier, ScopeLocal, typeInteger, Span{}, true)
	require.True(t, ok)
	second, ok := st.insert("x", symIdentifier, ScopeLocal, typeInteger, Span{}, false)
	require.True(t, ok)
	assert.NotEqual(t, first, second)

	resolved, ok := st.lookup("x")
	require.True(t, ok)
	assert.Equal(t, second, resolved, "lookup finds the most recently bound name")
}

func TestSymbolTableScopeChainLookupCrossesLevels(t *testing.T) {
	st := NewSymbolTable()
	outer, ok := st.insert("n", symIdentifier, ScopeLocal, typeInteger, Span{}, true)
	require.True(t, ok)

	st.local()
	resolved, ok := st.lookup("n")
	require.True(t, ok)
	assert.Equal(t, outer, resolved)

	_, ok = st.insert("inner_only", symIdentifier, ScopeVeryLocal, typeInteger, Span{}, true)
	require.True(t, ok)
	st.global()

	_, ok = st.lookup("inner_only")
	assert.False(t, ok, "a name inserted in a popped scope must not be visible afterward")
}

func TestInsertFreshNeverCollides(t *testing.T) {
	st := NewSymbolTable()
	st.insert("buf", symIdentifier, ScopeVeryLocal, typeInteger, Span{}, true)

	a := st.InsertFresh("buf", ScopeVeryLocal, typeInteger)
	b := st.InsertFresh("buf", ScopeVeryLocal, typeInteger)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, "buf", st.GetName(a))
	assert.NotEqual(t, st.GetName(a), st.GetName(b))
}

func TestGetOrErrorRecordsUnknownIdentifier(t *testing.T) {
	st := NewSymbolTable()
	errs := newErrorList()
	id := st.GetIdentifierID("missing", Span{}, errs)
	assert.Equal(t, invalidID, id)
	assert.True(t, errs.hasErrors())
}

func TestGetOrErrorRejectsWrongKind(t *testing.T) {
	st := NewSymbolTable()
	st.insert("Counter", symComponent, ScopeLocal, nil, Span{}, true)
	errs := newErrorList()
	id := st.GetIdentifierID("Counter", Span{}, errs)
	assert.Equal(t, invalidID, id)
	assert.True(t, errs.hasErrors())
}

func TestComponentSignatureRoundTrips(t *testing.T) {
	st := NewSymbolTable()
	comp, _ := st.insert("Counter", symComponent, ScopeLocal, nil, Span{}, true)
	in, _ := st.insert("tick", symIdentifier, ScopeInput, typeInteger, Span{}, true)
	out, _ := st.insert("count", symIdentifier, ScopeOutput, typeInteger, Span{}, true)

	st.SetComponentSignature(comp, []Id{in}, []Id{out})
	assert.Equal(t, []Id{in}, st.ComponentInputs(comp))
	assert.Equal(t, []Id{out}, st.ComponentOutputs(comp))
}
