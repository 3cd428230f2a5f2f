package internal

// NewEffect creates an Effect node under parent (or as a root effect if
// parent is nil) and runs it once immediately to establish its initial
// deps, children and cleanups (§4.6 "create_effect").
func (r *Runtime) NewEffect(parent *node, body func() any) *node {
	n := newNode(r, kindEffect)
	n.fn = body

	if parent != nil {
		appendChild(parent, n)
	} else {
		n.flags.add(flagRoot)
		n.rootIndex = r.nextRootIndex()
	}

	r.runEffect(n)
	return n
}

// runEffect runs the previous run's cleanups (most-recently-registered
// first) and tears down its children and dep edges, then runs the body
// fresh under tracking with n as the current reaction (§4.6, each
// (re)run). Cleanups run under the tracking-disabling sentinel, not
// under whatever reaction happens to be on the stack (the caller that
// triggered this rerun) — otherwise a cleanup's reads would register a
// spurious edge on that reaction, and a cleanup's writes could spuriously
// raise UnsafeMutation if that reaction is a Derived (§4.6).
func (r *Runtime) runEffect(n *node) {
	r.push(nil)
	for i := len(n.cleanups) - 1; i >= 0; i-- {
		n.cleanups[i]()
	}
	n.cleanups = nil
	r.pop()

	for c := n.childHead; c != nil; {
		next := c.nextSibling
		r.teardownEffect(c)
		c = next
	}
	n.childHead, n.childTail = nil, nil
	n.clearDeps()

	n.flags.remove(flagDirty)

	r.push(n)
	defer r.pop()
	n.fn()
}

// teardownEffect disposes n (an Effect or Owner) and its whole subtree
// depth-first: children before parent, each one's OnCleanup callbacks run
// (most-recently-registered first) before its dep edges are cut (§4.6
// "teardown_effect"). The whole pass — recursing into children and
// running n's own cleanups — runs under the tracking-disabling sentinel,
// for the same reason as runEffect: teardown can be triggered while some
// unrelated reaction is current (e.g. a Derived tearing down a stale
// child before recomputing), and cleanup code must neither track reads
// nor risk an UnsafeMutation write into it.
func (r *Runtime) teardownEffect(n *node) {
	r.push(nil)
	defer r.pop()

	for c := n.childHead; c != nil; {
		next := c.nextSibling
		r.teardownEffect(c)
		c = next
	}
	n.childHead, n.childTail = nil, nil

	for i := len(n.cleanups) - 1; i >= 0; i-- {
		n.cleanups[i]()
	}
	n.cleanups = nil

	n.clearDeps()
	unlinkSibling(n)
	n.parent = nil
	n.flags.add(flagDisconnected)
}
