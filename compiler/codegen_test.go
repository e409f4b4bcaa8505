package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCodegenCounterMatchesWorkedExample exercises the emission stage
// end-to-end (normalize -> IR1 -> codegen) against the Counter shape used
// throughout this package's other tests: a single `fby`-bound buffer
// feeding straight to the sole output.
func TestCodegenCounterMatchesWorkedExample(t *testing.T) {
	ctx := compileAndNormalize(`
component Counter(tick: int) -> (count: int) {
	let n = 0 fby (n + tick);
	count = n;
}
`)
	require.False(t, ctx.Errs.hasErrors())
	comp := soleComponent(ctx, "Counter")
	require.NotNil(t, comp)
	require.Len(t, comp.Memory.Buffers, 1, "the root fby binding must materialize its own buffer")
	assert.Equal(t, "n", comp.Memory.Buffers[0].Name)

	ir1 := LowerToIR1(ctx)
	c := ir1[comp.ID]
	require.NotNil(t, c)

	require.Len(t, c.StateFields, 1)
	assert.Equal(t, "last_n", c.StateFields[0].Name)
	assert.False(t, c.StateFields[0].IsCalledComponent)

	require.Len(t, c.StepStmts, 2, "one output step plus one trailing buffer update")
	assert.False(t, c.StepStmts[0].IsBufferUpdate, "non-update statements are emitted first")
	assert.True(t, c.StepStmts[len(c.StepStmts)-1].IsBufferUpdate, "buffer updates are emitted last")
	assert.Equal(t, "last_n", c.StepStmts[len(c.StepStmts)-1].Field)

	file := generateComponentFile(ctx, c, CodegenOptions{})
	require.Len(t, file.Structs, 1)
	st := file.Structs[0]
	assert.Equal(t, "CounterState", st.Name)
	require.Len(t, st.Fields, 1)
	assert.Equal(t, "LastN", st.Fields[0].Name)
	assert.Equal(t, "int64", st.Fields[0].Type)

	require.Len(t, file.Methods, 1)
	step := file.Methods[0]
	assert.Equal(t, "Step", step.Name)
	require.Len(t, step.Params, 1)
	assert.Equal(t, "int64", step.Params[0].Type)
	require.Len(t, step.Results, 1)
	assert.Equal(t, "int64", step.Results[0].Type)
}

func TestCodegenCallStepRendersDistinctSlotsForDistinctCallSites(t *testing.T) {
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
	c := ir1[caller.ID]
	require.NotNil(t, c)

	file := generateComponentFile(ctx, c, CodegenOptions{})
	require.Len(t, file.Structs, 1)
	st := file.Structs[0]
	require.Len(t, st.Fields, 2, "two call sites to Inc must emit two distinct state-struct fields")
	assert.NotEqual(t, st.Fields[0].Name, st.Fields[1].Name)
	for _, f := range st.Fields {
		assert.Equal(t, "IncState", f.Type)
	}
}
