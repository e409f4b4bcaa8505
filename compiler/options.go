package compiler

import "go.uber.org/zap"

// options.go splits a public Options from a private opt
// (interp.go's Interpreter.opt): Options is the caller-facing
// configuration surface; opt is the normalized, defaulted form the
// Compiler actually reads.

// Options configures one Compiler. Zero-value Options is a usable
// default: OnChange propagation, no stats report, no parallel codegen,
// no diagnostic output.
type Options struct {
	// Propagation selects the service-level triggering strategy
	// (the design notes). PropagationDefault resolves to PropagationOnChange.
	Propagation PropagationStrategy

	// Parallel emits golang.org/x/sync/errgroup-based concurrent stepping
	// for independently-triggered component calls within one tick.
	Parallel bool

	// DumpCodePath, when non-empty, writes generated Go source under this
	// directory via viant/afs instead of only returning it in memory.
	DumpCodePath string

	// StatsDepth bounds how many nested levels of the phase-timing report
	// (stats.go) are rendered; 0 disables the report entirely.
	StatsDepth int

	// Logger receives structured diagnostics for every pass. Defaults to
	// a no-op logger, matching yaegi's io.Writer-injection default of
	// os.Std{in,out,err} rather than a silently-discarding global.
	Logger *zap.Logger
}

type opt struct {
	propagation  PropagationStrategy
	parallel     bool
	dumpCodePath string
	statsDepth   int
	logger       *zap.Logger
}

func normalizeOptions(o Options) opt {
	propagation := o.Propagation
	if propagation == PropagationDefault {
		propagation = PropagationOnChange
	}
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return opt{
		propagation:  propagation,
		parallel:     o.Parallel,
		dumpCodePath: o.DumpCodePath,
		statsDepth:   o.StatsDepth,
		logger:       logger,
	}
}
