package internal

import "sort"

// markDirty is the dirty propagator (§4.4 steps 2-4): it walks n's direct
// subscribers, recursing eagerly into deriveds that have readers (so their
// own subscribers see fresh dirtiness) and deferring deriveds with none to
// MAYBE_DIRTY (checked lazily on next read), while collecting candidate
// effects to queue for the next drain.
func (r *Runtime) markDirty(n *node) {
	n.flags.add(flagDirty)

	var queuedDeriveds []*node
	var effectsToCheck []*node

	for sub := range n.subs() {
		switch sub.kind {
		case kindDerived:
			if r.forkSkipsDerived(sub) {
				continue
			}
			if sub.hasSubscribers() {
				queuedDeriveds = append(queuedDeriveds, sub)
			} else {
				sub.flags.add(flagMaybeDirty)
			}
		case kindEffect:
			if r.activeFork != nil {
				// Speculative writes inside fork(...) never run effects.
				continue
			}
			if !sub.flags.has(flagDirty) {
				effectsToCheck = append(effectsToCheck, sub)
			}
		}
	}

	for _, d := range queuedDeriveds {
		if r.updateDerived(d) {
			r.markDirty(d)
		}
	}

	if len(effectsToCheck) > 0 {
		r.enqueueEffects(r.filterAncestors(effectsToCheck))
	}

	n.flags.remove(flagDirty)
}

// filterAncestors drops any effect in candidates that has an ancestor also
// in candidates, walking up the parent chain until the first Derived
// (effects owned by a Derived are independent) — the ancestor's rerun will tear down and
// recreate the descendant anyway, so scheduling the descendant too would
// run stale work that's about to be discarded (§4.5 "ancestor wins").
func (r *Runtime) filterAncestors(candidates []*node) []*node {
	set := make(map[*node]struct{}, len(candidates))
	for _, e := range candidates {
		set[e] = struct{}{}
	}

	kept := candidates[:0:0]
	for _, e := range candidates {
		shadowed := false
		for p := e.parent; p != nil; p = p.parent {
			if p.kind == kindDerived {
				break
			}
			if _, ok := set[p]; ok {
				shadowed = true
				break
			}
		}
		if !shadowed {
			kept = append(kept, e)
		}
	}
	return kept
}

// enqueueEffects marks each not-yet-dirty candidate DIRTY and appends it to
// the pending queue in depth/root_index/document-order (§4.4 step 4, §4.5).
// It never drains the queue itself: draining only happens via an explicit
// Flush() or at a Batch/Fork.Apply's own exit, so a write can cascade
// through several nested mark_dirty calls — and, outside of those, several
// separate top-level Set calls in the same synchronous region — before
// anything runs.
func (r *Runtime) enqueueEffects(candidates []*node) {
	added := false
	for _, e := range candidates {
		if e.flags.has(flagDirty) {
			continue
		}
		e.flags.add(flagDirty)
		r.queue = append(r.queue, e)
		added = true
	}

	if added {
		sort.SliceStable(r.queue, func(i, j int) bool {
			return compareOrder(r.queue[i], r.queue[j]) < 0
		})
	}
}

// flushIfOutermost runs the drain once batchDepth has unwound back to zero
// — called by Batch and Fork.Apply when their own scope closes, so either
// one acts as an explicit, synchronous microtask-boundary checkpoint.
func (r *Runtime) flushIfOutermost() {
	if r.batchDepth == 0 {
		r.Flush()
	}
}

// Flush runs every queued effect to completion, including any further
// effects queued by those runs, until the queue is empty (§4.5 "drain").
func (r *Runtime) Flush() {
	if r.draining {
		return
	}
	r.draining = true
	defer func() { r.draining = false }()

	for len(r.queue) > 0 {
		e := r.queue[0]
		r.queue = r.queue[1:]

		if e.flags.has(flagDisconnected) {
			continue
		}

		e.flags.remove(flagDirty)
		r.runEffect(e)
	}
}

// compareOrder implements the effect scheduling order of §4.5: shallower
// depth first; among root effects (depth 0), creation order; otherwise
// document order within the shared ancestor's children. Two effects from
// disjoint trees have no defined relative order — compareOrder returns a
// stable "a first" for that case.
func compareOrder(a, b *node) int {
	if a == b {
		return 0
	}

	da, db := a.depth(), b.depth()
	if da != db {
		if da < db {
			return -1
		}
		return 1
	}

	if a.flags.has(flagRoot) && b.flags.has(flagRoot) {
		switch {
		case a.rootIndex < b.rootIndex:
			return -1
		case a.rootIndex > b.rootIndex:
			return 1
		default:
			return 0
		}
	}

	pa, pb := a, b
	for pa.parent != nil && pb.parent != nil && pa.parent != pb.parent {
		pa, pb = pa.parent, pb.parent
	}
	if pa.parent == nil || pb.parent == nil {
		return -1 // disjoint trees
	}

	for s := pa.nextSibling; s != nil; s = s.nextSibling {
		if s == pb {
			return -1
		}
	}
	return 1
}
