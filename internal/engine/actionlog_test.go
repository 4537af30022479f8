package engine

import "testing"

func TestDoPokeRecordsFirstOccurrenceInActivePokes(t *testing.T) {
	d := NewDriver(Config{})

	th := d.NewRootThread(func() {
		top := d.currentThread.topTimescope.(*Timescope)
		doPoke(d, "x", 1, CaptureTrace(0))
		doPoke(d, "x", 2, CaptureTrace(0))

		if got := top.pokes["x"].Value; got != 2 {
			t.Errorf("expected latest poke value 2, got %v", got)
		}
		if len(d.activePokes["x"]) != 1 {
			t.Errorf("expected activePokes[x] to record the timescope once, got %d entries", len(d.activePokes["x"]))
		}
	})

	if _, err := d.RunThreads([]*TesterThread{th}); err != nil {
		t.Fatalf("RunThreads: %v", err)
	}
}

func TestDoPeekAppendsInOrder(t *testing.T) {
	d := NewDriver(Config{})

	th := d.NewRootThread(func() {
		doPeek(d, "y", CaptureTrace(0))
		doPeek(d, "y", CaptureTrace(0))

		peeks := d.signalPeeks["y"]
		if len(peeks) != 2 {
			t.Fatalf("expected 2 peeks recorded, got %d", len(peeks))
		}
		if peeks[0].ActionID >= peeks[1].ActionID {
			t.Errorf("expected increasing action ids, got %d then %d", peeks[0].ActionID, peeks[1].ActionID)
		}
	})

	if _, err := d.RunThreads([]*TesterThread{th}); err != nil {
		t.Fatalf("RunThreads: %v", err)
	}
}

func TestPruneClosedPokesRemovesOnlyClosedEntries(t *testing.T) {
	d := NewDriver(Config{})

	var outer, inner *Timescope
	th := d.NewRootThread(func() {
		outer = d.NewTimescope()
		doPoke(d, "x", 1, CaptureTrace(0))
		inner = d.NewTimescope()
		doPoke(d, "x", 2, CaptureTrace(0))

		d.CloseTimescope(inner)
		d.pruneClosedPokes()

		if len(d.activePokes["x"]) != 1 {
			t.Fatalf("expected one surviving poker after pruning, got %d", len(d.activePokes["x"]))
		}
		if d.activePokes["x"][0] != outer {
			t.Errorf("expected the surviving poker to be the outer timescope")
		}

		d.CloseTimescope(outer)
		d.pruneClosedPokes()
		if _, ok := d.activePokes["x"]; ok {
			t.Errorf("expected activePokes[x] to be deleted once every poker is closed")
		}
	})

	if _, err := d.RunThreads([]*TesterThread{th}); err != nil {
		t.Fatalf("RunThreads: %v", err)
	}
}
