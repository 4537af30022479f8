package tscope

import (
	"log/slog"

	"github.com/ductest/tscope/internal/engine"
)

// Signal, Clock, and Value are re-exported from internal/engine so callers
// never need to import it directly.
type (
	Signal = engine.Signal
	Clock  = engine.Clock
	Value  = engine.Value
)

// DriverConfig configures a Driver. There is deliberately no package-level
// flag registration: this package is a library with no process entry
// point of its own, so configuration is passed in explicitly instead of
// parsed from argv.
type DriverConfig struct {
	// LogLevel is the minimum slog level recorded. The zero value is
	// slog.LevelInfo.
	LogLevel slog.Level
	// LogFormat selects the console rendering: "raw", "pretty" (default),
	// or "zap".
	LogFormat string
	// Trace is a comma-separated list of debug trace flags to enable:
	// "schedule", "conflict", "timescope".
	Trace string
	// CombinationalPaths maps an output signal to the input signals it is
	// combinationally derived from, for conflict propagation in Timestep.
	CombinationalPaths map[Signal][]Signal
	// DataNames maps a signal to a human-readable name used in diagnostics.
	DataNames map[Signal]string
}

func (c DriverConfig) toEngineConfig() engine.Config {
	return engine.Config{
		LogLevel:           c.LogLevel,
		LogFormat:          engine.LogFormat(c.LogFormat),
		Trace:              c.Trace,
		CombinationalPaths: c.CombinationalPaths,
		DataNames:          c.DataNames,
	}
}

// Driver multiplexes any number of user stimulus threads onto one
// sequential simulator. The zero value is not usable; construct one with
// NewDriver.
type Driver struct {
	d *engine.Driver
}

// NewDriver constructs an idle Driver. Call RunThreads to begin
// dispatching threads.
func NewDriver(cfg DriverConfig) *Driver {
	return &Driver{d: engine.NewDriver(cfg.toEngineConfig())}
}

// Logger exposes the driver's structured logger, stamped per-record with
// the currently-running thread and timestep.
func (d *Driver) Logger() *slog.Logger { return d.d.Logger() }

// CurrentTimestep returns the simulated-time boundary the driver has
// currently set.
func (d *Driver) CurrentTimestep() int64 { return d.d.CurrentTimestep() }

// SetCurrentTimestep is called by the external driver to advance simulated
// time between RunThreads phases.
func (d *Driver) SetCurrentTimestep(ts int64) { d.d.SetCurrentTimestep(ts) }

// OnException enqueues an error to be raised on the next RunThreads call,
// through the same queue user-thread panics use. Intended for an external
// simulator bridge to report a failure that didn't originate in a
// TesterThread's own body.
func (d *Driver) OnException(err error) { d.d.OnException(err) }

// NewRootThread constructs a level-0 Thread spawned directly by the
// driver. The returned thread is not yet dispatched; pass it to RunThreads
// to run its body.
func (d *Driver) NewRootThread(run func(d *Driver)) Thread {
	t := d.d.NewRootThread(func() { run(d) })
	return Thread{t: t}
}

// RunThreads is the driver's entry point for one execution phase: threads
// are dispatched level-descending FIFO until every thread has finished,
// blocked on a clock, or blocked in a join, then control returns here with
// the set of threads now waiting on each clock.
func (d *Driver) RunThreads(threads []Thread) (map[Clock][]Thread, error) {
	raw := make([]*engine.TesterThread, len(threads))
	for i, th := range threads {
		raw[i] = th.t
	}
	blocked, err := d.d.RunThreads(raw)
	if blocked == nil {
		return nil, err
	}
	result := make(map[Clock][]Thread, len(blocked))
	for clk, ts := range blocked {
		wrapped := make([]Thread, len(ts))
		for i, t := range ts {
			wrapped[i] = Thread{t: t}
		}
		result[clk] = wrapped
	}
	return result, err
}

// Timestep is called by the external driver at every simulated-time
// boundary. It prunes closed timescopes from the action log, runs the two
// conflict checks for the timestep just ended, and clears recorded peeks.
func (d *Driver) Timestep() error { return d.d.Timestep() }

// Teardown cancels every thread still blocked in a join or clock wait,
// unwinding them without running their scope-close assertions.
func (d *Driver) Teardown() { d.d.Teardown() }
