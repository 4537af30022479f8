package engine

import (
	"fmt"
	"runtime"
	"strings"
)

// Trace is an opaque captured call site, recorded on every poke and peek so
// that a conflict detected later can point back at the code that caused it.
//
// Capturing is cheap (a handful of program counters); formatting is lazy so
// the non-blocking hot path in doPoke/doPeek never pays for string
// formatting unless a ConflictError is actually rendered.
type Trace struct {
	pcs []uintptr
}

// CaptureTrace records the call stack of its caller, skipping skip
// additional frames beyond CaptureTrace itself.
func CaptureTrace(skip int) Trace {
	var pcs [32]uintptr
	n := runtime.Callers(2+skip, pcs[:])
	return Trace{pcs: append([]uintptr(nil), pcs[:n]...)}
}

// String renders the trace as one "func\n\tfile:line" pair per line, most
// recent call first, in the style of a Go panic traceback.
func (t Trace) String() string {
	if len(t.pcs) == 0 {
		return "<no trace>"
	}
	var b strings.Builder
	frames := runtime.CallersFrames(t.pcs)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return b.String()
}
