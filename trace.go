package tscope

import "github.com/ductest/tscope/internal/engine"

// Trace is an opaque captured call site, attached to every poke, peek,
// and conflict for diagnostics.
type Trace = engine.Trace
