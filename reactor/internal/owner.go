package internal

import "github.com/petermattis/goid"

// NewOwner creates a plain ownership scope: something that can parent
// Derived/Effect nodes and accumulate cleanups/error handlers without
// itself being part of the dependency graph. NewRoot is built on top of
// this (§5, §6 "NewOwner").
func (r *Runtime) NewOwner(parent *node) *node {
	n := newNode(r, kindOwner)
	if parent != nil {
		appendChild(parent, n)
	} else {
		n.flags.add(flagRoot)
	}
	return n
}

// Run executes fn with owner as the current node, so any Signal/Derived/
// Effect/OnCleanup/OnError created inside fn is scoped to owner. A panic
// is caught and routed to the nearest ancestor (including owner itself)
// with a registered error handler via OnError; if none exists, it
// continues to propagate (§7).
//
// Run pins an Owner to the goroutine that created it: owner.rt is the
// Runtime its creating goroutine resolved via GetRuntime, so calling Run
// from any other goroutine would push owner onto a graph it was never
// linked into — a silent cross-goroutine corruption rather than a loud
// failure. Mirrors the teacher's isSameGID guard in its Tracker, but here
// it's fatal: a mismatch panics with CrossGoroutineOwnerError (§5)
// instead of Run silently degrading to an untracked/unowned call.
func (r *Runtime) Run(owner *node, fn func() error) (err error) {
	if goid.Get() != owner.rt.gid {
		panic(&CrossGoroutineOwnerError{})
	}

	r.push(owner)
	defer r.pop()

	defer func() {
		if rec := recover(); rec != nil {
			if !r.dispatchError(owner, rec) {
				panic(rec)
			}
		}
	}()

	err = fn()
	if err != nil {
		r.dispatchError(owner, err)
	}
	return err
}

func (r *Runtime) dispatchError(n *node, e any) bool {
	for o := n; o != nil; o = o.parent {
		if len(o.catchers) > 0 {
			for _, c := range o.catchers {
				c(e)
			}
			return true
		}
	}
	return false
}

// Dispose tears down owner and everything beneath it (§6 "Owner.Dispose").
func (r *Runtime) Dispose(owner *node) {
	r.teardownEffect(owner)
}

// OnCleanup registers fn to run when the current reaction/owner is next
// torn down or rerun (§4.6, §6).
func (r *Runtime) OnCleanup(fn func()) {
	if cur := r.current(); cur != nil {
		cur.cleanups = append(cur.cleanups, fn)
	}
}

// OnCleanupOn registers fn against owner directly, without requiring
// owner to be the currently-running node.
func (r *Runtime) OnCleanupOn(owner *node, fn func()) {
	owner.cleanups = append(owner.cleanups, fn)
}

// OnError registers fn as the current owner's error handler (§6, §7).
func (r *Runtime) OnError(fn func(any)) {
	if cur := r.current(); cur != nil {
		cur.catchers = append(cur.catchers, fn)
	}
}

// OnErrorOn registers fn as owner's error handler directly, without
// requiring owner to be the currently-running node.
func (r *Runtime) OnErrorOn(owner *node, fn func(any)) {
	owner.catchers = append(owner.catchers, fn)
}

// CurrentOwner returns whichever reaction or owner is presently running,
// or nil at top level — the parent a freshly created child node attaches
// to.
func (r *Runtime) CurrentOwner() *node {
	return r.current()
}
