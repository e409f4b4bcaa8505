package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeCheckAcceptsMatchingFbyTypes(t *testing.T) {
	ctx := compileSource(`
component Counter(tick: int) -> (count: int) {
	let n = 0 fby (n + tick);
	count = n;
}
`)
	assert.False(t, hasErrorKind(ctx, ErrIncompatibleInitial))
	assert.False(t, hasErrorKind(ctx, ErrIncompatibleType))
}

func TestTypeCheckRejectsMismatchedFbyInitial(t *testing.T) {
	ctx := compileSource(`
component Bad(tick: int) -> (x: int) {
	x = true fby tick;
}
`)
	assert.True(t, hasErrorKind(ctx, ErrIncompatibleInitial))
}

func TestTypeCheckRejectsBinopOnIncompatibleTypes(t *testing.T) {
	ctx := compileSource(`
component Bad2(flag: bool) -> (x: int) {
	x = flag + 1;
}
`)
	assert.True(t, hasErrorKind(ctx, ErrIncompatibleType))
}

func TestTypeCheckResolvesStructFieldAccess(t *testing.T) {
	ctx := compileSource(`
struct Point { x: int, y: int }
component Extract(p: Point) -> (x: int) {
	x = p.x;
}
`)
	require.False(t, ctx.Errs.hasErrors())
}

func TestTypeCheckReportsUnknownField(t *testing.T) {
	ctx := compileSource(`
struct Point { x: int, y: int }
component Extract(p: Point) -> (z: int) {
	z = p.missing;
}
`)
	assert.True(t, hasErrorKind(ctx, ErrUnknownField))
}

func TestTypeCheckRejectsStructPatternMissingField(t *testing.T) {
	ctx := compileSource(`
struct Point { x: int, y: int }
component Extract(p: Point) -> (z: int) {
	match p {
		Point { x } => z = x;
	}
}
`)
	assert.True(t, hasErrorKind(ctx, ErrMissingField), "a struct pattern omitting y with no rest-binder must be rejected")
}

func TestTypeCheckAcceptsStructPatternWithRestBinder(t *testing.T) {
	ctx := compileSource(`
struct Point { x: int, y: int }
component Extract(p: Point) -> (z: int) {
	match p {
		Point { x, .. } => z = x;
	}
}
`)
	assert.False(t, hasErrorKind(ctx, ErrMissingField), "`..` excuses the pattern from naming every field")
}

func TestTypeCheckAcceptsFullyCoveredStructPattern(t *testing.T) {
	ctx := compileSource(`
struct Point { x: int, y: int }
component Extract(p: Point) -> (z: int) {
	match p {
		Point { x, y } => z = x + y;
	}
}
`)
	assert.False(t, hasErrorKind(ctx, ErrMissingField))
}
