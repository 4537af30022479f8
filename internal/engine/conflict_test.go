package engine

import "testing"

// Two sibling threads driving the same signal in the same timestep, with
// neither an ancestor of the other, is a multi-writer conflict. Both park
// on a clock after poking so their timescopes are still open (and so not
// pruned) when Timestep runs.
func TestMultiWriterConflictAcrossSiblingLineages(t *testing.T) {
	d := NewDriver(Config{})

	th := d.NewRootThread(func() {
		c1 := d.DoFork(func() {
			d.DoPoke("x", 1)
			d.BlockOnClock("clk")
		})
		c2 := d.DoFork(func() {
			d.DoPoke("x", 2)
			d.BlockOnClock("clk")
		})
		d.DoJoin(c1)
		d.DoJoin(c2)
	})

	if _, err := d.RunThreads([]*TesterThread{th}); err != nil {
		t.Fatalf("RunThreads: %v", err)
	}

	err := d.Timestep()
	if err == nil {
		t.Fatal("expected a multi-writer conflict")
	}
	var cerr *ConflictError
	if !asConflictError(err, &cerr) {
		t.Fatalf("expected a *ConflictError, got %T: %v", err, err)
	}
	if cerr.Kind != ConflictMultiWriter {
		t.Errorf("expected ConflictMultiWriter, got %v", cerr.Kind)
	}
	if cerr.Signal != "x" {
		t.Errorf("expected conflict on signal x, got %q", cerr.Signal)
	}
}

// A parent poke and a child poke on the same signal do not conflict: the
// parent's scope chain covers the child's.
func TestNoConflictWhenOneLineageCoversTheOther(t *testing.T) {
	d := NewDriver(Config{})

	th := d.NewRootThread(func() {
		outer := d.NewTimescope()
		d.DoPoke("x", 1)

		child := d.DoFork(func() {
			d.DoPoke("x", 2)
		})
		d.DoJoin(child)

		d.CloseTimescope(outer)
	})

	if _, err := d.RunThreads([]*TesterThread{th}); err != nil {
		t.Fatalf("RunThreads: %v", err)
	}

	if err := d.Timestep(); err != nil {
		t.Fatalf("expected no conflict, got %v", err)
	}
}

// A peek of a combinationally-derived output signal is attributed back to
// its input signals for conflict purposes. The poker parks on a clock so
// its poke is still driving when Timestep runs.
func TestPeekAfterPokeThroughCombinationalFanIn(t *testing.T) {
	d := NewDriver(Config{
		CombinationalPaths: map[Signal][]Signal{
			"b": {"a"},
		},
	})

	th := d.NewRootThread(func() {
		poker := d.DoFork(func() {
			d.DoPoke("a", 1)
			d.BlockOnClock("clk")
		})
		peeker := d.DoFork(func() {
			d.DoPeek("b")
		})
		d.DoJoin(poker)
		d.DoJoin(peeker)
	})

	if _, err := d.RunThreads([]*TesterThread{th}); err != nil {
		t.Fatalf("RunThreads: %v", err)
	}

	err := d.Timestep()
	if err == nil {
		t.Fatal("expected a peek-after-poke conflict through the combinational path")
	}
	var cerr *ConflictError
	if !asConflictError(err, &cerr) {
		t.Fatalf("expected a *ConflictError, got %T: %v", err, err)
	}
	if cerr.Kind != ConflictPeekAfterPoke {
		t.Errorf("expected ConflictPeekAfterPoke, got %v", cerr.Kind)
	}
	if cerr.Signal != "a" {
		t.Errorf("expected the conflict attributed to input signal a, got %q", cerr.Signal)
	}
}

// A peek by a thread inside the poking thread's own lineage is not a
// conflict, even through a combinational path.
func TestNoConflictWhenPeekIsWithinPokingLineage(t *testing.T) {
	d := NewDriver(Config{
		CombinationalPaths: map[Signal][]Signal{
			"b": {"a"},
		},
	})

	th := d.NewRootThread(func() {
		outer := d.NewTimescope()
		d.DoPoke("a", 1)

		child := d.DoFork(func() {
			d.DoPeek("b")
		})
		d.DoJoin(child)

		d.CloseTimescope(outer)
	})

	if _, err := d.RunThreads([]*TesterThread{th}); err != nil {
		t.Fatalf("RunThreads: %v", err)
	}

	if err := d.Timestep(); err != nil {
		t.Fatalf("expected no conflict, got %v", err)
	}
}

// asConflictError unwraps the errors.Join tree Timestep returns to find the
// first *ConflictError, without importing errors just for one Join walk.
func asConflictError(err error, target **ConflictError) bool {
	type unwrapMulti interface{ Unwrap() []error }
	if c, ok := err.(*ConflictError); ok {
		*target = c
		return true
	}
	if m, ok := err.(unwrapMulti); ok {
		for _, e := range m.Unwrap() {
			if asConflictError(e, target) {
				return true
			}
		}
	}
	return false
}
