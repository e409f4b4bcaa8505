package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnChangeGraphTriggersEveryDirectConsumer(t *testing.T) {
	g := newDepGraph()
	a, b, c := Id(1), Id(2), Id(3)
	g.addEdge(b, a, WeightLabel(0)) // b depends on a
	g.addEdge(c, a, WeightLabel(0)) // c depends on a

	og := buildOnChangeGraph(g)
	triggered := og.Triggered(a)
	assert.ElementsMatch(t, []Id{b, c}, triggered)
}

func TestOnChangeGraphIgnoresContractOnlyEdges(t *testing.T) {
	g := newDepGraph()
	a, b := Id(1), Id(2)
	g.addEdge(b, a, ContractLabel)

	og := buildOnChangeGraph(g)
	assert.Empty(t, og.Triggered(a))
}

func TestEventIslesGraphGrowsFromEventSeed(t *testing.T) {
	// tick -> x -> y, a separate unrelated edge z -> w.
	g := newDepGraph()
	tick, x, y, z, w := Id(1), Id(2), Id(3), Id(4), Id(5)
	g.addEdge(x, tick, WeightLabel(0))
	g.addEdge(y, x, WeightLabel(0))
	g.addEdge(w, z, WeightLabel(0))

	eg := buildEventIslesGraph(g, []Id{tick})
	require.Contains(t, eg.isles, tick)
	assert.ElementsMatch(t, []Id{tick, x, y}, eg.isles[tick])
	assert.ElementsMatch(t, []Id{tick, x, y}, eg.Triggered(x))
}

func TestEventIslesGraphExcludesUnrelatedSignal(t *testing.T) {
	g := newDepGraph()
	tick, x, z, w := Id(1), Id(2), Id(4), Id(5)
	g.addEdge(x, tick, WeightLabel(0))
	g.addEdge(w, z, WeightLabel(0))

	eg := buildEventIslesGraph(g, []Id{tick})
	assert.NotContains(t, eg.isles[tick], z)
	assert.NotContains(t, eg.isles[tick], w)
}

func TestBuildTriggerGraphSelectsOnChangeByDefault(t *testing.T) {
	ctx := compileAndNormalize(`
service Main {
	import tick: int;
	export doubled: int;
	doubled = tick + tick;
}
`)
	require.False(t, ctx.Errs.hasErrors())
	require.NotNil(t, ctx.Service)
	ir2 := LowerToIR2(ctx)
	require.NotNil(t, ir2)
	require.NotEmpty(t, ir2.Handlers)
	found := false
	for _, h := range ir2.Handlers {
		if h.Kind == EntryImport {
			found = true
			assert.NotEmpty(t, h.Triggered)
		}
	}
	assert.True(t, found, "an import arrival should trigger at least one statement")
}

func TestLowerToIR2AddsTimerHandlerWhenTimeUsed(t *testing.T) {
	ctx := compileAndNormalize(`
service Main @ [50, 50] {
	export now: int;
	now = time();
}
`)
	require.False(t, ctx.Errs.hasErrors())
	ir2 := LowerToIR2(ctx)
	require.NotNil(t, ir2)
	assert.Equal(t, 50, ir2.TimerMs)
	hasTimer := false
	for _, h := range ir2.Handlers {
		if h.Kind == EntryTimer {
			hasTimer = true
		}
	}
	assert.True(t, hasTimer)
}
