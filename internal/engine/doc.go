// Package engine implements the cooperative scheduler, timescope tree, and
// conflict-detection action log that make up the core of a hardware
// simulation test driver.
//
// A Driver multiplexes many user "threads" (goroutines, in this
// implementation, each parked on its own binary semaphore between
// dispatches) onto the single sequential call the simulator bridge expects.
// Threads poke and peek signals through nested Timescopes; closing a
// Timescope reverts its pokes to whatever the next enclosing scope was
// driving. The Driver detects poke/poke and poke/peek conflicts across
// concurrent threads that share combinational fan-in at each Timestep
// boundary.
//
// This package is internal: the public surface is package tscope, which
// wraps a *Driver and its per-thread operations in a small, stable API.
package engine
