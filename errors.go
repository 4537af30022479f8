package tscope

import "github.com/ductest/tscope/internal/engine"

// Type aliases re-export the engine's error taxonomy under the public
// package, so callers never need to import internal/engine themselves.
type (
	InvariantViolation = engine.InvariantViolation
	UserException      = engine.UserException
	ConflictError       = engine.ConflictError
	ConflictKind        = engine.ConflictKind
)

const (
	ConflictMultiWriter   = engine.ConflictMultiWriter
	ConflictPeekAfterPoke = engine.ConflictPeekAfterPoke
)

var (
	// ErrInvariantViolation is the sentinel every *InvariantViolation wraps.
	ErrInvariantViolation = engine.ErrInvariantViolation
	// ErrInterruptedForTeardown marks a thread unwound by Driver.Teardown.
	// It is the panic value that unwinds a thread out of a cancelled join or
	// clock wait, and it is swallowed at the thread boundary: it never
	// reaches a caller through Timestep or RunThreads.
	ErrInterruptedForTeardown = engine.ErrInterruptedForTeardown
)
