package engine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Driver holds all scheduler, timescope, and action-log state for one
// simulation run. It has no exported fields; every mutation goes through a
// method so that the "exactly one thread mutates this state at a time"
// invariant in spec.md §5 stays enforceable in one place.
type Driver struct {
	cfg    Config
	logger *slog.Logger
	trace  traceFlags

	nextThreadID int
	allThreads   intrusiveList[*TesterThread]

	currentThread *TesterThread
	currentLevel  int
	activeThreads map[int]*threadQueue
	blockedThreads map[Clock]*threadQueue

	joinedThreads map[*TesterThread]*threadQueue

	exceptions []error

	activePokes map[Signal][]*Timescope
	signalPeeks map[Signal][]PeekRecord

	currentTimestep int64

	driverSem *semaphore.Weighted

	teardownCtx    context.Context
	requestTeardown context.CancelFunc
}

// NewDriver constructs an idle Driver. Call RunThreads to begin dispatching
// threads.
func NewDriver(cfg Config) *Driver {
	tf, err := parseTraceFlags(cfg.Trace)
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	d := &Driver{
		cfg:             cfg,
		trace:           tf,
		currentLevel:    -1,
		activeThreads:   make(map[int]*threadQueue),
		blockedThreads:  make(map[Clock]*threadQueue),
		joinedThreads:   make(map[*TesterThread]*threadQueue),
		activePokes:     make(map[Signal][]*Timescope),
		signalPeeks:     make(map[Signal][]PeekRecord),
		driverSem:       semaphore.NewWeighted(1),
		teardownCtx:     ctx,
		requestTeardown: cancel,
	}
	_ = d.driverSem.Acquire(context.Background(), 1)

	d.logger = makeLogger(cfg, defaultLogWriter(), currentContext{
		threadID: func() (int, bool) {
			if d.currentThread != nil {
				return d.currentThread.ID, true
			}
			return 0, false
		},
		timestep: func() (int64, bool) {
			return d.currentTimestep, true
		},
	})

	return d
}

// CurrentTimestep returns the simulated-time boundary the driver has
// currently set.
func (d *Driver) CurrentTimestep() int64 { return d.currentTimestep }

// SetCurrentTimestep is called by the external driver to advance simulated
// time between runThreads phases.
func (d *Driver) SetCurrentTimestep(ts int64) { d.currentTimestep = ts }

// OnException lets an external collaborator (typically the simulator
// bridge) enqueue an error to be raised on the next RunThreads call,
// through the same queue user-thread panics use.
func (d *Driver) OnException(err error) {
	d.exceptions = append(d.exceptions, err)
}

// Logger exposes the driver's structured logger, stamped per-record with
// the currently-running thread and timestep.
func (d *Driver) Logger() *slog.Logger { return d.logger }

// Teardown cancels every thread still blocked in a join or clock wait,
// unwinding them via ErrInterruptedForTeardown without running their
// scope-close assertions.
func (d *Driver) Teardown() { d.requestTeardown() }

// NewRootThread constructs a level-0 TesterThread spawned directly by the
// driver rather than forked from another thread. Its scope chain roots at
// theRoot, matching spec.md §3's "Root: parent of all top-level threads."
// The returned thread is not yet dispatched; pass it to RunThreads to run
// its body.
func (d *Driver) NewRootThread(run func()) *TesterThread {
	id := d.nextThreadID
	d.nextThreadID++

	t := newTesterThread(id, 0, theRoot, d.currentTimestep, 0)
	d.addThread(t)

	go func() {
		if err := t.wait(d.teardownCtx); err != nil {
			return
		}
		d.runThreadBody(t, run)
	}()

	return t
}

// DoPoke records a poke on the current thread's topTimescope.
func (d *Driver) DoPoke(sig Signal, val Value) {
	doPoke(d, sig, val, CaptureTrace(1))
}

// DoPeek records a peek of sig on the current thread's topTimescope. The
// value itself is read by the external simulator bridge; this call only
// contributes to conflict detection.
func (d *Driver) DoPeek(sig Signal) {
	doPeek(d, sig, CaptureTrace(1))
}

// NewTimescope opens a child of the current thread's topTimescope.
func (d *Driver) NewTimescope() *Timescope {
	return newTimescope(d)
}

// CloseTimescope closes ts, which must be the current thread's
// topTimescope, and returns the signal reverts the simulator bridge should
// apply.
func (d *Driver) CloseTimescope(ts *Timescope) map[Signal]*Value {
	return closeTimescope(d, ts)
}

// Timestep is called by the external driver at every simulated-time
// boundary. It prunes closed timescopes from activePokes, runs the two
// conflict checks for the timestep just ended, and clears signalPeeks.
func (d *Driver) Timestep() error {
	d.pruneClosedPokes()

	conflicts := checkConflicts(d)

	d.signalPeeks = make(map[Signal][]PeekRecord)

	if len(conflicts) == 0 {
		return nil
	}
	errs := make([]error, len(conflicts))
	for i := range conflicts {
		c := conflicts[i]
		errs[i] = &c
	}
	return errors.Join(errs...)
}

// runThreadBody executes t's user-visible body: open its root timescope,
// run the closure, close it, and hand off to the scheduler. An
// *InvariantViolation panic is queued as itself; any other panic from the
// closure is captured as a UserException; ErrInterruptedForTeardown is
// swallowed without running the unwinding assertions.
func (d *Driver) runThreadBody(t *TesterThread, run func()) {
	d.currentThread = t

	interrupted := func() (interrupted bool) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if err, ok := r.(error); ok && errors.Is(err, ErrInterruptedForTeardown) {
				interrupted = true
				return
			}
			if iv, ok := r.(*InvariantViolation); ok {
				d.exceptions = append(d.exceptions, iv)
				interrupted = true
				return
			}
			d.exceptions = append(d.exceptions, &UserException{
				ThreadID:   t.ID,
				Value:      r,
				Stacktrace: capturePanicStack(),
			})
			interrupted = true
		}()

		ts := openInitialTimescope(d, t)
		run()
		closeTimescope(d, ts)
		if t.topTimescope != scope(t.bottomTimescope) {
			panic(newInvariantViolation("thread %d: timescopes not fully unwound on exit", t.ID))
		}
		return false
	}()

	if !interrupted {
		t.done = true
		d.threadFinished(t)
	}

	d.currentThread = nil
	d.scheduler()
}

func capturePanicStack() []byte {
	buf := make([]byte, 32*1024)
	return buf[:runtime.Stack(buf, false)]
}
