package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeDependenciesRecordsDirectDependency(t *testing.T) {
	ctx := compileSource(`
component Sum(tick: int) -> (out: int) {
	out = tick + 1;
}
`)
	require.False(t, ctx.Errs.hasErrors())
	comp := soleComponent(ctx, "Sum")
	require.NotNil(t, comp)
	require.NotNil(t, comp.DependencyGraph)

	outID := comp.Outputs[0].ID
	tickID := comp.Inputs[0]
	_, ok := comp.DependencyGraph.Edges[outID][tickID]
	assert.True(t, ok, "out's dependency graph must record an edge to tick")
}

func TestAnalyzeDependenciesPropagatesThroughComponentCall(t *testing.T) {
	ctx := compileSource(`
component Inc(x: int) -> (y: int) {
	y = x + 1;
}
component UseInc(tick: int) -> (z: int) {
	z = Inc(tick).y;
}
`)
	require.False(t, ctx.Errs.hasErrors())
	useInc := soleComponent(ctx, "UseInc")
	require.NotNil(t, useInc)
	require.NotNil(t, useInc.DependencyGraph)

	zID := useInc.Outputs[0].ID
	tickID := useInc.Inputs[0]
	_, ok := useInc.DependencyGraph.Edges[zID][tickID]
	assert.True(t, ok, "a call's dependency on its argument must propagate to the call result")
}

func TestAnalyzeDependenciesBuildsServiceGraph(t *testing.T) {
	ctx := compileSource(`
service Main {
	import tick: int;
	export doubled: int;
	doubled = tick + tick;
}
`)
	require.False(t, ctx.Errs.hasErrors())
	require.NotNil(t, ctx.Service)
	require.NotNil(t, ctx.Service.Graph)

	doubledID := ctx.Service.Exports[0]
	tickID := ctx.Service.Imports[0]
	_, ok := ctx.Service.Graph.Edges[doubledID][tickID]
	assert.True(t, ok)
}

func TestReducedGraphExposesOnlyOutputInputArcs(t *testing.T) {
	ctx := compileSource(`
component Pass(a: int, b: int) -> (out: int) {
	out = a;
}
`)
	require.False(t, ctx.Errs.hasErrors())
	comp := soleComponent(ctx, "Pass")
	require.NotNil(t, comp.ReducedGraph)

	outID := comp.Outputs[0].ID
	aID := comp.Inputs[0]
	bID := comp.Inputs[1]
	_, dependsOnA := comp.ReducedGraph.Arcs[outID][aID]
	_, dependsOnB := comp.ReducedGraph.Arcs[outID][bID]
	assert.True(t, dependsOnA, "out reads a, so the reduced graph must expose that arc")
	assert.False(t, dependsOnB, "out never reads b")
}
