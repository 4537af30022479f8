package engine

import (
	"errors"
	"fmt"
)

// constErr lets a package-level error value be compared with errors.Is
// while keeping a fixed, non-wrapped identity, matching the sentinel
// error style used throughout this codebase.
type constErr struct{ error }

func makeConstErr(msg string) error {
	return constErr{error: errors.New(msg)}
}

var (
	// ErrInvariantViolation is the sentinel wrapped by every InvariantViolation.
	ErrInvariantViolation = makeConstErr("invariant violation")
	// ErrInterruptedForTeardown marks a thread aborted during driver teardown.
	// It is never placed on the exception queue; spec: "not an error".
	ErrInterruptedForTeardown = makeConstErr("interrupted for teardown")
)

// InvariantViolation reports a programmer error inside the core or user
// code: a wrong-thread close, a stack-discipline mismatch, or an
// unexpected scheduler state. It is always fatal.
type InvariantViolation struct {
	Msg   string
	Trace Trace
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation: %s\n%s", e.Msg, e.Trace)
}

func (e *InvariantViolation) Unwrap() error {
	return ErrInvariantViolation
}

func newInvariantViolation(format string, args ...any) *InvariantViolation {
	return &InvariantViolation{
		Msg:   fmt.Sprintf(format, args...),
		Trace: CaptureTrace(1),
	}
}

// UserException wraps an arbitrary panic value raised by a user thread's
// body. The thread that raised it terminates without running its
// scope-unwinding assertions; the scheduler is still invoked, and with the
// exception pending it hands control straight back to the driver, so no
// other thread runs until the next RunThreads call.
type UserException struct {
	ThreadID   int
	Value      any
	Stacktrace []byte
}

func (e *UserException) Error() string {
	return fmt.Sprintf("thread %d panicked: %v\n%s", e.ThreadID, e.Value, e.Stacktrace)
}

// ConflictKind distinguishes the two conflict checks timestep() performs.
type ConflictKind int

const (
	// ConflictMultiWriter reports two thread lineages driving the same
	// signal within one timestep.
	ConflictMultiWriter ConflictKind = iota
	// ConflictPeekAfterPoke reports a peek that observed a poke driven by a
	// thread outside the peeking thread's scope-chain ancestry.
	ConflictPeekAfterPoke
)

func (k ConflictKind) String() string {
	switch k {
	case ConflictMultiWriter:
		return "multi-writer"
	case ConflictPeekAfterPoke:
		return "peek-after-poke"
	default:
		return "unknown-conflict"
	}
}

// ConflictError is raised synchronously from Timestep when the action log
// shows two threads racing on a signal, or a thread peeking a signal driven
// by a poke outside its own lineage.
type ConflictError struct {
	Kind      ConflictKind
	Signal    Signal
	// DisplayName is Signal resolved through the driver's dataNames map, or
	// string(Signal) when no name was registered.
	DisplayName string
	Timestep    int64
	Traces      []Trace
}

func (e *ConflictError) Error() string {
	var b []byte
	b = fmt.Appendf(b, "%s conflict on signal %q at timestep %d:\n", e.Kind, e.DisplayName, e.Timestep)
	for i, tr := range e.Traces {
		b = fmt.Appendf(b, "  contributor %d:\n%s", i, indent(tr.String()))
	}
	return string(b)
}

func indent(s string) string {
	out := make([]byte, 0, len(s))
	for _, line := range splitLines(s) {
		out = append(out, "    "...)
		out = append(out, line...)
		out = append(out, '\n')
	}
	return string(out)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
