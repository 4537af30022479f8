/*
Package tscope implements the cooperative threading and timescope core of a
hardware-simulation test driver.

A test exercises a device under test through any number of concurrent
"threads" — goroutines whose execution this package multiplexes onto a
single sequential simulator one at a time, so that drive and observation
order stays deterministic even though the user writes ordinary concurrent
Go code. Threads [Driver.Fork] children, which run at a strictly higher
scheduling level than their parent and always dispatch first; a parent
that [Driver.Join]s a child blocks until it finishes.

# Timescopes

Every thread keeps a stack of timescopes: lexically-scoped signal-drive
regions opened with [Driver.NewTimescope] and closed with
[Driver.CloseTimescope], or more conveniently with [Driver.WithTimescope]. A
poke recorded by [Driver.Poke] while a timescope is open is automatically
reverted — to whatever value the nearest enclosing timescope still drives,
or released entirely — the instant that timescope closes. This lets a test
drive a signal for "the duration of this block" without manually
remembering to put it back.

# Conflicts

At each simulated-time boundary the external driver calls [Driver.Timestep]
to ask whether the pokes and peeks recorded since the last boundary are
free of conflicts: two concurrent thread lineages driving the same signal,
or one thread peeking a signal that another thread — outside of its own
scope-chain ancestry — just drove. [Driver.Timestep] also understands
combinational fan-in: a peek of a signal derived from other signals is
attributed back to them for conflict purposes.

# What this package does not do

This package has no notion of the simulator itself: applying a poked
value to a wire, evaluating combinational logic, or advancing simulated
time between calls to [Driver.Timestep] is all the job of an external
driver built on top of this package.
*/
package tscope
