package engine

// scope is the private sum type behind the three timescope variants: Root,
// ThreadRoot, and Timescope. Downcasting to a concrete type via a type
// switch stands in for the match arms a tagged union would give directly.
type scope interface {
	scopeParent() scope
	scopeOwner() *TesterThread
}

// rootScope is the singleton at the top of every scope chain: no pokes, no
// parent, no owning thread.
type rootScope struct{}

func (r *rootScope) scopeParent() scope        { return nil }
func (r *rootScope) scopeOwner() *TesterThread { return nil }

var theRoot = &rootScope{}

// threadRootScope sits at the bottom of every thread's scope stack. It
// carries no pokes of its own; it exists to record where the thread was
// spawned from so newTimescope and the ancestor walk can cross thread
// boundaries transparently.
type threadRootScope struct {
	parent         scope // the spawning Timescope, or theRoot for a top-level thread
	owner          *TesterThread
	openedTimestep int64
	parentActionID int64
}

func (tr *threadRootScope) scopeParent() scope        { return tr.parent }
func (tr *threadRootScope) scopeOwner() *TesterThread { return tr.owner }

// PokeRecord is the latest poke on one signal within a Timescope.
type PokeRecord struct {
	Timestep int64
	ActionID int64
	Value    Value
	Trace    Trace
}

// PeekRecord is one observed read of a signal.
type PeekRecord struct {
	Timescope *Timescope
	Timestep  int64
	ActionID  int64
	Trace     Trace
}

// Timescope is a mutable, lexically-scoped signal-drive region opened by
// newTimescope. Closing it reverts every signal it poked to whatever the
// nearest enclosing scope was driving.
type Timescope struct {
	parent         scope
	openedTimestep int64
	parentActionID int64
	nextActionID   int64
	closedTimestep *int64

	pokes map[Signal]*PokeRecord
}

func (ts *Timescope) scopeParent() scope        { return ts.parent }
func (ts *Timescope) scopeOwner() *TesterThread { return ts.parent.scopeOwner() }

func (ts *Timescope) isClosed() bool { return ts.closedTimestep != nil }

// newTimescope opens a child of the current thread's topTimescope. The
// caller must already be inside a Timescope; the very first scope of a
// thread's life is opened by openInitialTimescope instead, since a fresh
// thread's topTimescope is a ThreadRoot with no nextActionID of its own.
func newTimescope(d *Driver) *Timescope {
	t := d.mustCurrent()
	top, ok := t.topTimescope.(*Timescope)
	if !ok {
		panic(newInvariantViolation("newTimescope: top of stack is not a Timescope"))
	}

	parentActionID := top.nextActionID
	top.nextActionID++

	child := &Timescope{
		parent:         top,
		openedTimestep: d.currentTimestep,
		parentActionID: parentActionID,
		pokes:          make(map[Signal]*PokeRecord),
	}
	t.topTimescope = child

	if d.trace.timescope() {
		d.logger.Debug("opened timescope", "parent_action_id", parentActionID)
	}

	return child
}

// openInitialTimescope opens the root-open path a thread uses exactly once,
// turning its bare ThreadRoot into a real Timescope for user code to poke
// and peek through.
func openInitialTimescope(d *Driver, t *TesterThread) *Timescope {
	root, ok := t.topTimescope.(*threadRootScope)
	if !ok {
		panic(newInvariantViolation("openInitialTimescope: top of stack is not a ThreadRoot"))
	}
	child := &Timescope{
		parent:         root,
		openedTimestep: d.currentTimestep,
		parentActionID: 0,
		pokes:          make(map[Signal]*PokeRecord),
	}
	t.topTimescope = child
	return child
}

// closeTimescope requires ts is the current thread's topTimescope. It
// returns, for every signal ts poked, the value to revert the live drive
// to: a non-nil *Value naming the nearest enclosing poke, or nil to mean
// "release the drive entirely."
func closeTimescope(d *Driver, ts *Timescope) map[Signal]*Value {
	t := d.mustCurrent()
	if t.topTimescope != scope(ts) {
		panic(newInvariantViolation("closeTimescope: not the top of stack"))
	}

	closed := d.currentTimestep
	ts.closedTimestep = &closed
	t.topTimescope = ts.parent

	reverts := make(map[Signal]*Value, len(ts.pokes))
	for sig := range ts.pokes {
		if val, ok := findAncestorPoke(ts.parent, sig); ok {
			v := val
			reverts[sig] = &v
		} else {
			reverts[sig] = nil
		}
	}

	if d.trace.timescope() {
		d.logger.Debug("closed timescope", "reverted_signals", len(reverts))
	}

	return reverts
}

// findAncestorPoke walks the scope chain starting at s, skipping
// ThreadRoots transparently, looking for the nearest enclosing Timescope
// that pokes sig.
func findAncestorPoke(s scope, sig Signal) (Value, bool) {
	for s != nil {
		if ts, ok := s.(*Timescope); ok {
			if pr, ok := ts.pokes[sig]; ok {
				return pr.Value, true
			}
		}
		s = s.scopeParent()
	}
	return nil, false
}

// isAncestorScope reports whether a is b itself or an ancestor of b along
// the raw scope chain (crossing ThreadRoots).
func isAncestorScope(a, b scope) bool {
	for b != nil {
		if b == a {
			return true
		}
		b = b.scopeParent()
	}
	return false
}

// threadInChain reports whether target appears as the owning thread of any
// node in s's ancestor chain, including s itself.
func threadInChain(target *TesterThread, s scope) bool {
	for s != nil {
		if s.scopeOwner() == target {
			return true
		}
		s = s.scopeParent()
	}
	return false
}
