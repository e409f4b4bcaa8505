package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCounterComponent(t *testing.T) {
	src := `
component Counter(tick: Event<unit>) -> (count: int) {
	let n = 0 fby (n + 1);
	count = n;
}
`
	prog, errs := Parse(src, 0)
	require.False(t, errs.hasErrors())
	require.Len(t, prog.Components, 1)

	comp := prog.Components[0]
	assert.Equal(t, "Counter", comp.Name)
	require.Len(t, comp.Inputs, 1)
	assert.Equal(t, "tick", comp.Inputs[0].Name)
	require.Len(t, comp.Outputs, 1)
	assert.Equal(t, "count", comp.Outputs[0].Name)
	require.Len(t, comp.Body, 2)
	assert.Equal(t, SLet, comp.Body[0].Kind)
	assert.Equal(t, EFby, comp.Body[0].Expr.Kind)
	assert.Equal(t, SOutput, comp.Body[1].Kind)
}

func TestParseComponentWithContract(t *testing.T) {
	src := `
component Brake(speed: int) -> (ok: bool) contract { speed >= 0 } {
	ok = speed >= 0;
}
`
	prog, errs := Parse(src, 0)
	require.False(t, errs.hasErrors())
	require.Len(t, prog.Components, 1)
	require.Len(t, prog.Components[0].Contract, 1)
}

func TestParseServiceWithPeriod(t *testing.T) {
	src := `
service Main @ [10, 100] {
	import tick: Event<unit>;
	export count: int;
	count = 0;
}
`
	prog, errs := Parse(src, 0)
	require.False(t, errs.hasErrors())
	require.NotNil(t, prog.Service)
	require.NotNil(t, prog.Service.MinMs)
	require.NotNil(t, prog.Service.MaxMs)
	assert.Equal(t, 10, *prog.Service.MinMs)
	assert.Equal(t, 100, *prog.Service.MaxMs)
	require.Len(t, prog.Service.Imports, 1)
	require.Len(t, prog.Service.Exports, 1)
}

func TestParseMalformedComponentRecoversAndReportsError(t *testing.T) {
	src := `
component Bad( -> (x: int) {
	x = 1;
}
component Good() -> (x: int) {
	x = 1;
}
`
	prog, errs := Parse(src, 0)
	assert.True(t, errs.hasErrors())
	found := false
	for _, c := range prog.Components {
		if c.Name == "Good" {
			found = true
		}
	}
	assert.True(t, found, "parser should recover and still parse the next declaration")
}

func TestParseMatchExpression(t *testing.T) {
	src := `
component Pick(x: Option<int>) -> (y: int) {
	y = match x {
		Some(v) => v,
		None => 0,
	};
}
`
	prog, errs := Parse(src, 0)
	require.False(t, errs.hasErrors())
	require.Len(t, prog.Components, 1)
	out := prog.Components[0].Body[0]
	assert.Equal(t, EMatch, out.Expr.Kind)
	assert.Len(t, out.Expr.Arms, 2)
}
