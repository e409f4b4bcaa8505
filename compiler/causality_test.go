package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCausalityAcceptsFbyBrokenLoop(t *testing.T) {
	ctx := compileSource(`
component Counter(tick: int) -> (count: int) {
	let n = 0 fby (n + tick);
	count = n;
}
`)
	require.False(t, ctx.Errs.hasErrors(), "a self-referential fby binding must compile cleanly")
	require.False(t, hasErrorKind(ctx, ErrNotCausalComponent))
}

func TestCausalityAcceptsForwardReferenceToLaterLet(t *testing.T) {
	ctx := compileSource(`
component counter(reset: bool, tick: bool) -> (o: int) {
	o = if reset then 0 else (0 fby o) + inc;
	let inc: int = if tick then 1 else 0;
}
`)
	require.False(t, ctx.Errs.hasErrors(), "an earlier statement must be able to reference a later let")
}

func TestCausalityRejectsInstantSelfReference(t *testing.T) {
	ctx := compileSource(`
component Loopy(tick: int) -> (x: int) {
	x = x + tick;
}
`)
	assert.True(t, hasErrorKind(ctx, ErrNotCausalComponent))
}

func TestCausalityRejectsMutualInstantCycle(t *testing.T) {
	ctx := compileSource(`
component Mutual(tick: int) -> (a: int) {
	let b = a + tick;
	a = b + tick;
}
`)
	assert.True(t, hasErrorKind(ctx, ErrNotCausalComponent))
}
