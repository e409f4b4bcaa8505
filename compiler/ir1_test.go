package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileToIR1(src string) (*Context, map[Id]*IR1Component) {
	ctx := compileSource(src)
	Normalize(ctx)
	return ctx, LowerToIR1(ctx)
}

func TestLowerCallStmtGivesDistinctCallSitesDistinctSlots(t *testing.T) {
	ctx, ir1 := compileToIR1(`
component Inc(a: int) -> (y: int) {
	y = a + 1;
}
component UseInc(a: int, b: int) -> (z: int) {
	let x = Inc(a).y;
	z = Inc(b).y + x;
}
`)
	require.False(t, ctx.Errs.hasErrors())
	caller := soleComponent(ctx, "UseInc")
	require.NotNil(t, caller)

	var callSlots []string
	for _, ss := range ir1[caller.ID].StepStmts {
		if ss.IsCalledStep {
			callSlots = append(callSlots, ss.Field)
		}
	}
	require.Len(t, callSlots, 2, "both call sites must produce their own StepStmt")
	assert.NotEqual(t, callSlots[0], callSlots[1], "two distinct call sites to the same component type must not collapse onto one state slot")
	assert.Len(t, caller.Memory.CalledComponent, 2, "the memory table must carry one entry per call site")
}

func TestLowerCallStmtReusesSameCallsSlotWhenLoweredTwice(t *testing.T) {
	ctx, ir1 := compileToIR1(`
component Inc(a: int) -> (y: int) {
	y = a + 1;
}
component UseInc(a: int) -> (z: int) {
	z = Inc(a).y;
}
`)
	require.False(t, ctx.Errs.hasErrors())
	caller := soleComponent(ctx, "UseInc")
	require.NotNil(t, caller)
	require.Len(t, caller.Memory.CalledComponent, 1)

	stmt := findCallStmt(caller)
	require.NotNil(t, stmt)

	first := lowerCallStmt(ctx, caller, stmt)
	second := lowerCallStmt(ctx, caller, stmt)
	assert.Equal(t, first.Field, second.Field, "re-lowering the same call site must not mint a second slot")
	assert.Len(t, caller.Memory.CalledComponent, 1)
	_ = ir1
}

func findCallStmt(comp *Component) *Stmt {
	for _, s := range comp.Statements {
		if containsCall(s.Expr) {
			return s
		}
	}
	return nil
}
