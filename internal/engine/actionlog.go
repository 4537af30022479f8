package engine

// doPoke records a poke on the current thread's topTimescope. It is
// non-blocking and never invokes the scheduler.
func doPoke(d *Driver, sig Signal, val Value, tr Trace) {
	t := d.mustCurrent()
	top, ok := t.topTimescope.(*Timescope)
	if !ok {
		panic(newInvariantViolation("doPoke: top of stack is not a Timescope"))
	}

	actionID := top.nextActionID
	top.nextActionID++

	_, alreadyActive := top.pokes[sig]
	top.pokes[sig] = &PokeRecord{
		Timestep: d.currentTimestep,
		ActionID: actionID,
		Value:    val,
		Trace:    tr,
	}
	if !alreadyActive {
		d.activePokes[sig] = append(d.activePokes[sig], top)
	}

	if d.trace.schedule() {
		d.logger.Debug("poke", "signal", sig)
	}
}

// doPeek appends a PeekRecord for sig. It is non-blocking and never
// invokes the scheduler.
func doPeek(d *Driver, sig Signal, tr Trace) {
	t := d.mustCurrent()
	top, ok := t.topTimescope.(*Timescope)
	if !ok {
		panic(newInvariantViolation("doPeek: top of stack is not a Timescope"))
	}

	actionID := top.nextActionID
	top.nextActionID++

	d.signalPeeks[sig] = append(d.signalPeeks[sig], PeekRecord{
		Timescope: top,
		Timestep:  d.currentTimestep,
		ActionID:  actionID,
		Trace:     tr,
	})
}

// pruneClosedPokes drops every closed Timescope from activePokes, as
// timestep() is required to do before running its conflict checks.
func (d *Driver) pruneClosedPokes() {
	for sig, list := range d.activePokes {
		kept := list[:0]
		for _, ts := range list {
			if !ts.isClosed() {
				kept = append(kept, ts)
			}
		}
		if len(kept) == 0 {
			delete(d.activePokes, sig)
		} else {
			d.activePokes[sig] = kept
		}
	}
}
