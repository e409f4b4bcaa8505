package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddBufferRecordsInitialExpression(t *testing.T) {
	ctx := compileSource(`
component C(tick: int) -> (x: int) {
	x = tick;
}
`)
	comp := soleComponent(ctx, "C")
	require.NotNil(t, comp)

	initial := &Expr{Kind: EConst, LitKind: LitInt, LitVal: int64(0)}
	id := addBuffer(ctx, comp, typeInteger, initial)
	require.Len(t, comp.Memory.Buffers, 1)
	assert.Equal(t, id, comp.Memory.Buffers[0].ID)
	assert.Same(t, initial, comp.Memory.Buffers[0].Initial)
}

func TestRegisterCalledComponentRecordsSlot(t *testing.T) {
	ctx := compileSource(`
component Callee(x: int) -> (y: int) {
	y = x;
}
component Caller(x: int) -> (z: int) {
	z = Callee(x).y;
}
`)
	caller := soleComponent(ctx, "Caller")
	callee := soleComponent(ctx, "Callee")
	require.NotNil(t, caller)
	require.NotNil(t, callee)

	memID := ctx.Syms.InsertFresh("slot", ScopeVeryLocal, nil)
	registerCalledComponent(caller, memID, callee.ID)
	assert.Equal(t, callee.ID, caller.Memory.CalledComponent[memID])
}
