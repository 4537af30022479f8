package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

// S1: revert on close. Closing the inner scope reverts to the outer
// scope's poke; closing the outer scope releases the drive entirely.
func TestRevertOnClose(t *testing.T) {
	d := NewDriver(Config{})

	var revertB, revertA map[Signal]*Value
	th := d.NewRootThread(func() {
		a := d.NewTimescope()
		d.DoPoke("x", 1)
		b := d.NewTimescope()
		d.DoPoke("x", 2)

		revertB = d.CloseTimescope(b)
		revertA = d.CloseTimescope(a)
	})

	if _, err := d.RunThreads([]*TesterThread{th}); err != nil {
		t.Fatalf("RunThreads: %v", err)
	}

	one := Value(1)
	if diff := cmp.Diff(map[Signal]*Value{"x": &one}, revertB, cmp.Comparer(equalValuePtr)); diff != "" {
		t.Errorf("revertB mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[Signal]*Value{"x": nil}, revertA, cmp.Comparer(equalValuePtr)); diff != "" {
		t.Errorf("revertA mismatch (-want +got):\n%s", diff)
	}
}

func equalValuePtr(a, b *Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// S6: action-id monotonicity within one Timescope.
func TestActionIDMonotonicity(t *testing.T) {
	d := NewDriver(Config{})

	var pokeID, peekID, childParentID int64
	th := d.NewRootThread(func() {
		a := d.NewTimescope()
		d.DoPoke("x", nil)
		d.DoPeek("y")
		b := d.NewTimescope()

		pokeID = a.pokes["x"].ActionID
		peekID = d.signalPeeks["y"][0].ActionID
		childParentID = b.parentActionID

		d.CloseTimescope(b)
		d.CloseTimescope(a)
	})

	if _, err := d.RunThreads([]*TesterThread{th}); err != nil {
		t.Fatalf("RunThreads: %v", err)
	}

	if pokeID != 0 {
		t.Errorf("expected poke action id 0, got %d", pokeID)
	}
	if peekID != 1 {
		t.Errorf("expected peek action id 1, got %d", peekID)
	}
	if childParentID != 2 {
		t.Errorf("expected child parentActionID 2, got %d", childParentID)
	}
}

// S2: fork inheritance. A forked child observes the parent's still-open
// pokes across the ThreadRoot boundary.
func TestForkInheritsParentDrive(t *testing.T) {
	d := NewDriver(Config{})

	var sawPoke bool
	t0 := d.NewRootThread(func() {
		a := d.NewTimescope()
		d.DoPoke("x", 5)

		child := d.DoFork(func() {
			d.DoPeek("x")
			for _, ts := range d.activePokes["x"] {
				if !ts.isClosed() {
					if _, ok := findAncestorPoke(d.currentThread.topTimescope, "x"); ok {
						sawPoke = true
					}
					_ = ts
				}
			}
		})
		d.DoJoin(child)
		d.CloseTimescope(a)
	})

	if _, err := d.RunThreads([]*TesterThread{t0}); err != nil {
		t.Fatalf("RunThreads: %v", err)
	}
	if !sawPoke {
		t.Error("expected forked child to observe parent's poke on x")
	}
}

// Invariant 1: for well-formed stack-discipline open/close sequences, the
// thread ends back at its bottomTimescope.
func TestStackDisciplinePropertyRapid(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := NewDriver(Config{})
		depth := rapid.IntRange(0, 8).Draw(rt, "depth")

		th := d.NewRootThread(func() {
			var opened []*Timescope
			for i := 0; i < depth; i++ {
				opened = append(opened, d.NewTimescope())
			}
			for i := len(opened) - 1; i >= 0; i-- {
				d.CloseTimescope(opened[i])
			}
		})

		if _, err := d.RunThreads([]*TesterThread{th}); err != nil {
			rt.Fatalf("RunThreads: %v", err)
		}
		if th.topTimescope != scope(th.bottomTimescope) {
			rt.Fatalf("thread did not unwind to bottomTimescope")
		}
	})
}

// Invariant 2: closeTimescope's revert map always names the nearest
// enclosing poke on each signal, or nil when no ancestor drives it.
func TestRevertMapFindsNearestAncestorPropertyRapid(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := NewDriver(Config{})

		var outerPokes bool
		var got map[Signal]*Value
		th := d.NewRootThread(func() {
			outer := d.NewTimescope()
			outerPokes = rapid.Bool().Draw(rt, "outer_pokes")
			if outerPokes {
				d.DoPoke(Signal("s"), 100)
			}

			inner := d.NewTimescope()
			d.DoPoke(Signal("s"), 200)
			got = d.CloseTimescope(inner)

			d.CloseTimescope(outer)
		})

		if _, err := d.RunThreads([]*TesterThread{th}); err != nil {
			rt.Fatalf("RunThreads: %v", err)
		}

		v, ok := got[Signal("s")]
		if !ok {
			rt.Fatalf("expected an entry for signal s")
		}
		if outerPokes {
			if v == nil || *v != Value(100) {
				rt.Fatalf("expected revert to the outer poke 100, got %v", v)
			}
		} else if v != nil {
			rt.Fatalf("expected a nil revert with no enclosing poke, got %v", *v)
		}
	})
}
