package internal

// NewDerived creates a Derived node wrapping compute. It starts
// UNINITIALIZED; the first Read drives its initial computation (§4.3,
// "lazy: never recomputes until read").
func (r *Runtime) NewDerived(compute func() any) *node {
	n := newNode(r, kindDerived)
	n.flags.add(flagDerived)
	n.flags.add(flagUninitialized)
	n.fn = compute
	return n
}

// updateDerived runs d's compute function and reports whether its value
// changed (§4.3). It tears down d's child effects and dep edges before
// running the body, so a throw mid-body leaves d's dep set partially
// rebuilt — matching the teacher's own "only what ran before the throw
// sticks" behavior for owner scopes.
func (r *Runtime) updateDerived(d *node) (changed bool) {
	// teardownEffect pushes its own tracking-disabling sentinel around
	// each child's cleanups, since this loop runs with whatever reaction
	// is currently on the stack (the reader that triggered this
	// recompute) still current — d itself isn't pushed until below.
	for c := d.childHead; c != nil; {
		next := c.nextSibling
		r.teardownEffect(c)
		c = next
	}
	d.childHead, d.childTail = nil, nil
	d.clearDeps()

	prev := r.effectiveValue(d)
	wasUninitialized := d.flags.has(flagUninitialized)

	r.push(d)
	defer r.pop()
	result := d.fn()

	// Reached only on normal completion — a panic from d.fn unwinds past
	// this point, leaving d's value and flags exactly as they were.
	d.flags.remove(flagUninitialized)
	d.flags.remove(flagMaybeDirty)

	if !wasUninitialized && sameValue(result, prev) {
		return false
	}

	r.storeValue(d, result)
	return true
}
