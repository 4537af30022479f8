package engine

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// TesterThread is a user-visible stimulus thread. Every TesterThread runs
// on its own goroutine, parked on sem between dispatches; the cooperative
// discipline in scheduler.go guarantees that at most one TesterThread's
// goroutine is ever off that park at a time, so the fields below need no
// locking beyond the happens-before edge sem.Acquire/Release already gives.
type TesterThread struct {
	ID    int
	Level int
	done  bool

	sem *semaphore.Weighted

	bottomTimescope *threadRootScope
	topTimescope    scope

	allIdx int // index in Driver.allThreads, or -1
}

func newTesterThread(id, level int, parentScope scope, openedTimestep int64, parentActionID int64) *TesterThread {
	t := &TesterThread{
		ID:     id,
		Level:  level,
		sem:    semaphore.NewWeighted(1),
		allIdx: -1,
	}
	// Fully acquire the single unit now, on the constructing goroutine, so
	// the thread's own goroutine blocks on its first Acquire until the
	// scheduler's first Release.
	_ = t.sem.Acquire(context.Background(), 1)

	root := &threadRootScope{
		parent:         parentScope,
		owner:          t,
		openedTimestep: openedTimestep,
		parentActionID: parentActionID,
	}
	t.bottomTimescope = root
	t.topTimescope = root
	return t
}

func (t *TesterThread) allIdxPtr() *int { return &t.allIdx }

// release hands the virtual CPU to t; called only by scheduler().
func (t *TesterThread) release() { t.sem.Release(1) }

// wait blocks t's goroutine until the scheduler releases it, or ctx is
// cancelled during driver teardown.
func (t *TesterThread) wait(ctx context.Context) error {
	return t.sem.Acquire(ctx, 1)
}
