package tscope

import "github.com/ductest/tscope/internal/engine"

// Timescope is a lexically-scoped signal-drive region. Open one with
// Driver.NewTimescope or Driver.WithTimescope; every poke recorded while
// it is open reverts automatically when it closes.
type Timescope struct {
	ts *engine.Timescope
}

// Poke records a poke on the current thread's open timescope. Must be
// called from within a thread body (a closure passed to NewRootThread or
// Fork).
func (d *Driver) Poke(sig Signal, val Value) { d.d.DoPoke(sig, val) }

// Peek records a peek of sig on the current thread's open timescope, for
// conflict-detection purposes. The value itself is read by the external
// simulator bridge.
func (d *Driver) Peek(sig Signal) { d.d.DoPeek(sig) }

// NewTimescope opens a child of the current thread's open timescope.
func (d *Driver) NewTimescope() Timescope {
	return Timescope{ts: d.d.NewTimescope()}
}

// CloseTimescope closes ts, which must be the current thread's open
// timescope, and returns the signal reverts the simulator bridge should
// apply: Some(v) to revert to v, or a nil *Value to release the drive.
func (d *Driver) CloseTimescope(ts Timescope) map[Signal]*Value {
	return d.d.CloseTimescope(ts.ts)
}

// WithTimescope opens a timescope, runs body, then closes it on both
// normal and exceptional exit, applying the returned reverts through
// apply. A panic inside body still closes the timescope before
// propagating.
func (d *Driver) WithTimescope(apply func(map[Signal]*Value), body func()) {
	ts := d.NewTimescope()
	defer func() {
		apply(d.CloseTimescope(ts))
	}()
	body()
}

// Fork creates a new Thread whose spawning scope is the caller's current
// open timescope. The child is queued at the tail of the current level's
// run queue, so the caller continues running until it next yields.
func (d *Driver) Fork(run func(d *Driver)) Thread {
	t := d.d.DoFork(func() { run(d) })
	return Thread{t: t}
}

// Join blocks the calling thread until target has finished. The caller's
// level must be strictly less than target's.
func (d *Driver) Join(target Thread) { d.d.DoJoin(target.t) }

// BlockOnClock parks the calling thread until the driver resumes it after
// advancing clk. The driver learns clk has a waiter through RunThreads'
// return value.
func (d *Driver) BlockOnClock(clk Clock) { d.d.BlockOnClock(clk) }
