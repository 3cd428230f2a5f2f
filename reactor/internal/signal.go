package internal

// NewSource creates a Source node holding the given initial value.
func (r *Runtime) NewSource(initial any) *node {
	n := newNode(r, kindSource)
	n.value = initial
	return n
}

// Read is the dependency-tracker read path shared by Source and Derived
// (§4.2): link the current reaction to n, prefer an active fork's shadow
// value, and refresh a stale Derived before returning its value.
func (r *Runtime) Read(n *node) any {
	if r.tracking {
		if cur := r.current(); cur != nil && cur != n && cur.isReaction() {
			link_(cur, n)
		}
	}

	if r.activeFork != nil {
		if v, ok := r.activeFork.values[n]; ok {
			return v
		}
	}

	if n.kind == kindDerived && (n.flags.has(flagUninitialized) || n.flags.has(flagMaybeDirty)) {
		r.updateDerived(n)
	}

	return r.effectiveValue(n)
}

// Set is the write path for a Source (§4.4 steps 1-4). It rejects writes
// made from inside a Derived's compute, no-ops on a same-value write, and
// otherwise stores the new value and propagates dirtiness: deriveds are
// recomputed depth-first right here (so a diamond settles before any
// affected effect is even queued, §8 S1), while affected effects are only
// enqueued, never run. Set never drains the effect queue itself — per
// §5/§9, multiple `set` calls in one synchronous region coalesce into a
// single drain at "the next microtask boundary", and since Go has no
// implicit event-loop tick to hang that on, draining is left to an
// explicit Flush() call (or to an enclosing Batch, which flushes once at
// its own exit). A Set that auto-drained on every call would instead
// drain once per write, breaking that coalescing guarantee (S5).
func (r *Runtime) Set(n *node, v any) error {
	if cur := r.current(); cur != nil && cur.kind == kindDerived {
		return &UnsafeMutationError{}
	}

	if sameValue(r.effectiveValue(n), v) {
		return nil
	}

	r.storeValue(n, v)
	r.markDirty(n)

	return nil
}

// Peek reads n's current value without registering a dependency edge and
// without refreshing a stale Derived — the read behind Signal.Peek.
func (r *Runtime) Peek(n *node) any {
	return r.effectiveValue(n)
}
