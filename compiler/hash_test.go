package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intLit(v int64) *Expr  { return &Expr{Kind: EConst, LitKind: LitInt, LitVal: v} }
func fltLit(v float64) *Expr { return &Expr{Kind: EConst, LitKind: LitFloat, LitVal: v} }

func TestStructuralHashMatchesForIdenticalShape(t *testing.T) {
	a := &Expr{Kind: EBinop, Name: "+", Children: []*Expr{intLit(1), intLit(2)}}
	b := &Expr{Kind: EBinop, Name: "+", Children: []*Expr{intLit(1), intLit(2)}}
	assert.Equal(t, structuralHash(a), structuralHash(b))
}

func TestStructuralHashDistinguishesDifferentIntLiterals(t *testing.T) {
	a := intLit(1)
	b := intLit(2)
	assert.NotEqual(t, structuralHash(a), structuralHash(b), "distinct int literals must not collapse into one CSE class")
}

func TestStructuralHashDistinguishesDifferentFloatLiterals(t *testing.T) {
	a := fltLit(1.5)
	b := fltLit(2.5)
	assert.NotEqual(t, structuralHash(a), structuralHash(b))
}

func TestStructuralHashDistinguishesDifferentOperators(t *testing.T) {
	a := &Expr{Kind: EBinop, Name: "+", Children: []*Expr{intLit(1), intLit(2)}}
	b := &Expr{Kind: EBinop, Name: "-", Children: []*Expr{intLit(1), intLit(2)}}
	assert.NotEqual(t, structuralHash(a), structuralHash(b))
}

func TestStructuralHashDistinguishesDifferentIdentifiers(t *testing.T) {
	a := &Expr{Kind: EIdent, Ref: Id(1)}
	b := &Expr{Kind: EIdent, Ref: Id(2)}
	assert.NotEqual(t, structuralHash(a), structuralHash(b))
}

func TestUnifyComponentKeepsSmallestIdAsCanonical(t *testing.T) {
	ctx := compileSource(`
component Dup(tick: int) -> (a: int) {
	let x = tick + 1;
	let y = tick + 1;
	a = x + y;
}
`)
	comp := soleComponent(ctx, "Dup")
	before := len(comp.Statements)
	unifyComponent(ctx, comp)
	assert.Less(t, len(comp.Statements), before, "one of the two structurally identical lets should be removed")
	for _, s := range comp.Statements {
		assert.NotEqual(t, "y", ctx.Syms.GetName(s.Ref), "x has the smaller Id, so y is the let that is dropped")
	}
}
