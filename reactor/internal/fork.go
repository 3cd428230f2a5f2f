package internal

// forkMap is the shadow overlay a Fork maintains: writes made while the
// fork is active land here instead of on the real nodes, and reads prefer
// it over node.value (§4.7).
type forkMap struct {
	values map[*node]any
}

func newForkMap() *forkMap {
	return &forkMap{values: make(map[*node]any)}
}

func (m *forkMap) clone() *forkMap {
	cp := newForkMap()
	for k, v := range m.values {
		cp.values[k] = v
	}
	return cp
}

// effectiveValue returns the value a read of n would currently observe:
// the active fork's shadow value if present, else the committed value.
func (r *Runtime) effectiveValue(n *node) any {
	if r.activeFork != nil {
		if v, ok := r.activeFork.values[n]; ok {
			return v
		}
	}
	return n.value
}

// storeValue writes v either into the active fork's shadow map, or onto
// the node directly if no fork is active.
func (r *Runtime) storeValue(n *node, v any) {
	if r.activeFork != nil {
		r.activeFork.values[n] = v
		return
	}
	n.value = v
}

// Fork is the internal state behind a fork(fn) call: the captured shadow
// map plus a one-shot guard so Apply/With can't be reused after settling.
type Fork struct {
	rt      *Runtime
	m       *forkMap
	settled bool
}

// NewFork runs fn with a fresh shadow map active, capturing its writes
// without touching global state (§4.7 step 1-2).
func NewFork(rt *Runtime, fn func()) *Fork {
	prev := rt.activeFork
	rt.activeFork = newForkMap()
	fn()
	m := rt.activeFork
	rt.activeFork = prev

	return &Fork{rt: rt, m: m}
}

// With runs g with a cloned copy of the fork's shadow map active, so g's
// writes don't pollute the handle's own map (§4.7 "with").
func (f *Fork) With(g func()) error {
	if f.settled {
		return &ForkAlreadySettledError{}
	}

	prev := f.rt.activeFork
	f.rt.activeFork = f.m.clone()
	g()
	f.rt.activeFork = prev

	return nil
}

// Apply commits the fork's shadow writes (§4.7 "apply"). Every shadowed
// node — Source and Derived alike — is written directly, since the
// Derived values were already produced by a real recompute inside the
// fork's fn (With runs on a clone and never adds to this map);
// mark_dirty is then only driven from the Source entries, and skips
// recomputing any Derived the fork already supplies a value for
// (§4.4 step 2, forkSkipsDerived).
func (f *Fork) Apply() error {
	if f.settled {
		return &ForkAlreadySettledError{}
	}
	f.settled = true

	changed := make(map[*node]bool, len(f.m.values))
	for n, v := range f.m.values {
		changed[n] = !sameValue(n.value, v)
		n.value = v
	}

	prevApplying := f.rt.applyingFork
	f.rt.applyingFork = f.m

	f.rt.batchDepth++
	for n := range f.m.values {
		if n.kind == kindSource && changed[n] {
			f.rt.markDirty(n)
		}
	}
	f.rt.batchDepth--
	f.rt.flushIfOutermost()

	f.rt.applyingFork = prevApplying

	return nil
}

// forkSkipsDerived reports whether mark_dirty should skip recomputing d
// because the fork being applied already supplies d's next value
// (§4.4 step 2, §9 "applying_fork flag").
func (r *Runtime) forkSkipsDerived(d *node) bool {
	if r.applyingFork == nil {
		return false
	}
	_, ok := r.applyingFork.values[d]
	return ok
}
