package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/grlang/grc/compiler"
)

var (
	styleErrKind = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	styleSpan    = lipgloss.NewStyle().Faint(true)

	diagLogger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
)

// setupDiagLogging mirrors a verbose/quiet logging split:
// verbose raises the level to Debug so pass timing lands on stderr.
func setupDiagLogging(verbose bool) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	diagLogger = log.NewWithOptions(os.Stderr, log.Options{Level: level, ReportTimestamp: false})
}

// reportErrors renders every accumulated CompileError to stderr, styled
// by kind, and returns whether any were reported.
func reportErrors(errs []*compiler.CompileError) bool {
	for _, e := range errs {
		msg := ""
		if len(e.Messages) > 0 {
			msg = e.Messages[0]
		}
		fmt.Fprintf(os.Stderr, "%s %s %s\n",
			styleErrKind.Render(e.Kind.String()),
			msg,
			styleSpan.Render(e.Primary.String()),
		)
	}
	return len(errs) > 0
}
