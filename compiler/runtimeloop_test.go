package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateServiceFile(ctx *Context, opts CodegenOptions) *TargetFile {
	ir2 := LowerToIR2(ctx)
	return GenerateService(ctx, ir2, nil, opts)
}

func joinedBody(m *TargetMethod) string {
	return strings.Join(m.Body, "\n")
}

func TestGenerateServiceWiresMinDelayCoalescingEnforcer(t *testing.T) {
	ctx := compileAndNormalize(`
service Main @ [10, 100] {
	import tick: int;
	export doubled: int;
	doubled = tick + tick;
}
`)
	require.False(t, ctx.Errs.hasErrors())
	file := generateServiceFile(ctx, CodegenOptions{})
	require.Len(t, file.Methods, 1)
	body := joinedBody(file.Methods[0])

	assert.Contains(t, body, "minDelay := time.Duration(10) * time.Millisecond")
	assert.Contains(t, body, "var lastTrigger time.Time")
	assert.Contains(t, body, "time.Since(lastTrigger) < minDelay")
	assert.Contains(t, body, "s.Out.IncCoalesced()")
	assert.Contains(t, body, "lastTrigger = time.Now()")
	assert.Contains(t, file.Imports, "time")
}

func TestGenerateServiceWiresMaxDelayWatchdog(t *testing.T) {
	ctx := compileAndNormalize(`
service Main @ [10, 100] {
	import tick: int;
	export doubled: int;
	doubled = tick + tick;
}
`)
	require.False(t, ctx.Errs.hasErrors())
	file := generateServiceFile(ctx, CodegenOptions{})
	body := joinedBody(file.Methods[0])

	assert.Contains(t, body, "watchdog := time.NewTimer(time.Duration(100) * time.Millisecond)")
	assert.Contains(t, body, "case <-watchdog.C:")
	assert.Contains(t, body, `s.Out.Send("service_timeout", struct{}{})`)
	assert.Contains(t, body, "watchdog.Reset(time.Duration(100) * time.Millisecond)")
}

func TestGenerateServiceOmitsTimeRangeMachineryWhenUndeclared(t *testing.T) {
	ctx := compileAndNormalize(`
service Main {
	import tick: int;
	export doubled: int;
	doubled = tick + tick;
}
`)
	require.False(t, ctx.Errs.hasErrors())
	file := generateServiceFile(ctx, CodegenOptions{})
	body := joinedBody(file.Methods[0])

	assert.NotContains(t, body, "minDelay")
	assert.NotContains(t, body, "watchdog")
	assert.NotContains(t, body, "lastTrigger")
}
