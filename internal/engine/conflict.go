package engine

import "sort"

// checkConflicts runs the two independent checks timestep() performs,
// emitted in signal-name order: multiple-writer conflicts over
// activePokes, then peek-after-poke-by-non-ancestor conflicts over
// signalPeeks (expanded through combinationalPaths).
func checkConflicts(d *Driver) []ConflictError {
	var conflicts []ConflictError

	for _, sig := range sortedPokeSignals(d.activePokes) {
		if c, ok := multiWriterConflict(d, sig); ok {
			conflicts = append(conflicts, c)
		}
	}

	expanded := expandedPeeks(d)
	for _, sig := range sortedPeekSignals(expanded) {
		conflicts = append(conflicts, peekAfterPokeConflicts(d, sig, expanded[sig])...)
	}

	if d.trace.conflict() && len(conflicts) > 0 {
		first := conflicts[0]
		d.logger.Debug("conflicts detected",
			"count", len(conflicts),
			"timestep", d.currentTimestep,
			"signal", first.Signal,
			"trace", first.Traces[0].String(),
		)
	}

	return conflicts
}

func sortedPokeSignals(m map[Signal][]*Timescope) []Signal {
	sigs := make([]Signal, 0, len(m))
	for sig := range m {
		sigs = append(sigs, sig)
	}
	sort.Slice(sigs, func(i, j int) bool { return sigs[i] < sigs[j] })
	return sigs
}

func sortedPeekSignals(m map[Signal][]PeekRecord) []Signal {
	sigs := make([]Signal, 0, len(m))
	for sig := range m {
		sigs = append(sigs, sig)
	}
	sort.Slice(sigs, func(i, j int) bool { return sigs[i] < sigs[j] })
	return sigs
}

// multiWriterConflict reports a conflict when the Timescopes freshly poking
// sig this timestep span more than one thread-lineage branch: no single one
// of them is an ancestor, along the raw scope chain, of all the others.
func multiWriterConflict(d *Driver, sig Signal) (ConflictError, bool) {
	var fresh []*Timescope
	for _, ts := range d.activePokes[sig] {
		if ts.isClosed() {
			continue
		}
		if pr := ts.pokes[sig]; pr != nil && pr.Timestep == d.currentTimestep {
			fresh = append(fresh, ts)
		}
	}
	if len(fresh) < 2 {
		return ConflictError{}, false
	}

	for _, candidate := range fresh {
		coversAll := true
		for _, other := range fresh {
			if !isAncestorScope(candidate, other) {
				coversAll = false
				break
			}
		}
		if coversAll {
			return ConflictError{}, false
		}
	}

	traces := make([]Trace, len(fresh))
	for i, ts := range fresh {
		traces[i] = ts.pokes[sig].Trace
	}
	return ConflictError{
		Kind:        ConflictMultiWriter,
		Signal:      sig,
		DisplayName: d.cfg.displayName(sig),
		Timestep:    d.currentTimestep,
		Traces:      traces,
	}, true
}

// expandedPeeks copies signalPeeks and additionally attributes each
// output's peeks to every input signal it is combinationally derived from,
// per spec.md §4.5's fan-in propagation rule.
func expandedPeeks(d *Driver) map[Signal][]PeekRecord {
	expanded := make(map[Signal][]PeekRecord, len(d.signalPeeks))
	for sig, peeks := range d.signalPeeks {
		expanded[sig] = append(expanded[sig], peeks...)
	}
	for out, ins := range d.cfg.CombinationalPaths {
		peeks, ok := d.signalPeeks[out]
		if !ok {
			continue
		}
		for _, in := range ins {
			expanded[in] = append(expanded[in], peeks...)
		}
	}
	return expanded
}

// peekAfterPokeConflicts reports, for every active poke of sig driven this
// timestep, every recorded peek of sig that did not originate in a thread
// contained in the poking thread's scope chain.
func peekAfterPokeConflicts(d *Driver, sig Signal, peeks []PeekRecord) []ConflictError {
	var conflicts []ConflictError
	for _, ts := range d.activePokes[sig] {
		if ts.isClosed() {
			continue
		}
		pr := ts.pokes[sig]
		if pr == nil || pr.Timestep != d.currentTimestep {
			continue
		}
		writer := ts.scopeOwner()
		for _, peek := range peeks {
			if peek.Timestep != d.currentTimestep {
				continue
			}
			if threadInChain(writer, peek.Timescope) {
				continue
			}
			conflicts = append(conflicts, ConflictError{
				Kind:        ConflictPeekAfterPoke,
				Signal:      sig,
				DisplayName: d.cfg.displayName(sig),
				Timestep:    d.currentTimestep,
				Traces:      []Trace{pr.Trace, peek.Trace},
			})
		}
	}
	return conflicts
}
