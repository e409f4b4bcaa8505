package compiler

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind enumerates the recoverable diagnostic kinds of the design notes.
type ErrorKind int

const (
	ErrUnknownIdentifier ErrorKind = iota
	ErrUnknownField
	ErrMissingField
	ErrIncompatibleType
	ErrIncompatibleTuple
	ErrIncompatiblePattern
	ErrExpectSignal
	ErrExpectEvent
	ErrExpectConstant
	ErrExpectOptionPattern
	ErrExpectTuplePattern
	ErrNotCausalComponent
	ErrDuplicateDefinition
	ErrUnknownEnumeration
	ErrUnknownVariant
	ErrArityMismatch
	ErrIncompatibleInitial
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnknownIdentifier:
		return "UnknownIdentifier"
	case ErrUnknownField:
		return "UnknownField"
	case ErrMissingField:
		return "MissingField"
	case ErrIncompatibleType:
		return "IncompatibleType"
	case ErrIncompatibleTuple:
		return "IncompatibleTuple"
	case ErrIncompatiblePattern:
		return "IncompatiblePattern"
	case ErrExpectSignal:
		return "ExpectSignal"
	case ErrExpectEvent:
		return "ExpectEvent"
	case ErrExpectConstant:
		return "ExpectConstant"
	case ErrExpectOptionPattern:
		return "ExpectOptionPattern"
	case ErrExpectTuplePattern:
		return "ExpectTuplePattern"
	case ErrNotCausalComponent:
		return "NotCausalComponent"
	case ErrDuplicateDefinition:
		return "DuplicateDefinition"
	case ErrUnknownEnumeration:
		return "UnknownEnumeration"
	case ErrUnknownVariant:
		return "UnknownVariant"
	case ErrArityMismatch:
		return "ArityMismatch"
	case ErrIncompatibleInitial:
		return "IncompatibleInitial"
	default:
		return "Unknown"
	}
}

// LabeledSpan is a secondary location carrying a short explanatory label.
type LabeledSpan struct {
	Span  Span
	Label string
}

// CompileError is a single accumulated diagnostic, carrying everything
// the design notes requires of the compiler's error output: kind, primary span,
// secondary spans, and a message list.
type CompileError struct {
	Kind      ErrorKind
	Primary   Span
	Secondary []LabeledSpan
	Messages  []string
}

func (e *CompileError) Error() string {
	msg := e.Kind.String()
	if len(e.Messages) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, e.Messages[0])
	}
	return fmt.Sprintf("%s at %s", msg, e.Primary)
}

// errorList is the mutable error sink threaded through every pass, per
// the propagation policy: recoverable mismatches append and the
// pass continues.
type errorList struct {
	items []*CompileError
}

func newErrorList() *errorList { return &errorList{} }

func (l *errorList) add(e *CompileError) { l.items = append(l.items, e) }

func (l *errorList) addSimple(kind ErrorKind, primary Span, format string, args ...interface{}) {
	l.add(&CompileError{Kind: kind, Primary: primary, Messages: []string{fmt.Sprintf(format, args...)}})
}

func (l *errorList) addWithSecondary(kind ErrorKind, primary Span, secondary []LabeledSpan, format string, args ...interface{}) {
	l.add(&CompileError{Kind: kind, Primary: primary, Secondary: secondary, Messages: []string{fmt.Sprintf(format, args...)}})
}

func (l *errorList) hasErrors() bool { return len(l.items) > 0 }

func (l *errorList) errors() []*CompileError { return l.items }

// errTerminatedBase is the sentinel for a pass that cannot proceed
// because a prior recoverable error deprived it of a value it needed. It
// is never user-reachable on its own: callers render the accumulated
// errorList instead, per the design notes. pkg/errors.WithStack attaches a
// maintainer-facing stack trace without inventing a bespoke wrapping type.
var errTerminatedBase = errors.New("compilation terminated after unrecoverable error")

// Terminated wraps errTerminatedBase with a stack trace captured at the
// point a pass gives up.
func Terminated() error {
	return errors.WithStack(errTerminatedBase)
}

// IsTerminated reports whether err is (or wraps) the termination sentinel.
func IsTerminated(err error) bool {
	return errors.Is(err, errTerminatedBase)
}

// assertf panics on an internal invariant violation. This is only ever
// reached for compiler bugs, never for malformed user input (those go
// through errorList instead), matching the "no panics
// user-reachable" guarantee.
func assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(errors.Wrapf(errTerminatedBase, format, args...))
	}
}
