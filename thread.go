package tscope

import (
	"fmt"

	"github.com/ductest/tscope/internal/engine"
)

// Thread is a handle to one user stimulus thread. Values are comparable
// and safe to use as map keys, matching spec.md §10's "Thread handle
// equality" supplement.
type Thread struct {
	t *engine.TesterThread
}

// ID returns the thread's identifier, unique for the lifetime of its
// Driver.
func (th Thread) ID() int { return th.t.ID }

// Level returns the thread's scheduling level: 0 for a thread the driver
// spawned directly, or parent.Level()+1 for a forked child.
func (th Thread) Level() int { return th.t.Level }

func (th Thread) String() string {
	return fmt.Sprintf("thread(%d)", th.t.ID)
}
