package internal

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// runtimes holds one Runtime per goroutine, keyed by goroutine id — the same
// mechanism the teacher's signals runtime uses to avoid a single global
// mutable graph shared (and corrupted) across goroutines.
var runtimes sync.Map // map[int64]*Runtime

// GetRuntime returns (creating if necessary) the Runtime bound to the
// calling goroutine.
func GetRuntime() *Runtime {
	gid := goid.Get()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r := newRuntime(gid)
	runtimes.Store(gid, r)
	return r
}

// Runtime is the process-scoped (here: per-goroutine) execution context
// described in §4.1: the reaction stack, the pending-effects FIFO, the
// tracking toggle, and the two optional fork maps.
type Runtime struct {
	gid int64

	// stack of currently running reactions; nil entries are the "sentinel"
	// that disables tracking for a nested untracked/teardown scope.
	stack []*node

	tracking bool

	queue []*node // FIFO of effects pending microtask drain
	draining bool
	batchDepth int

	rootIndexCounter int64

	activeFork   *forkMap
	applyingFork *forkMap
}

func newRuntime(gid int64) *Runtime {
	return &Runtime{gid: gid, tracking: true}
}

// current returns the innermost running reaction, or nil if the stack is
// empty or the top is the tracking-disabled sentinel.
func (r *Runtime) current() *node {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// push enters n (or a tracking-disabling sentinel, if n is nil) as the
// current reaction.
func (r *Runtime) push(n *node) {
	r.stack = append(r.stack, n)
}

// pop leaves the innermost reaction.
func (r *Runtime) pop() {
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Runtime) nextRootIndex() int {
	return int(atomic.AddInt64(&r.rootIndexCounter, 1))
}

// Untrack runs fn with tracking suspended; reads still return current
// values but register no edges (§4.6).
func (r *Runtime) Untrack(fn func()) {
	prev := r.tracking
	r.tracking = false
	defer func() { r.tracking = prev }()
	fn()
}

// Batch runs fn and then forces exactly one drain once the outermost Batch
// returns — a convenience checkpoint for callers who want a synchronous
// "flush now" without a separate Flush() call, and safe to nest since only
// the outermost Batch triggers the drain (§4.4, §4.5's "end of the
// outermost batch").
func (r *Runtime) Batch(fn func()) {
	r.batchDepth++
	defer func() {
		r.batchDepth--
		r.flushIfOutermost()
	}()
	fn()
}
