// Package internal implements the reactor dependency graph: node storage,
// the dirty propagator, the effect scheduler, scope teardown, and the fork
// engine. The public package wraps these with generics.
package internal

import "iter"

// kind tags which node variant a node is: one of the three graph variants
// (Source, Derived, Effect) or a plain Owner scope. A typed systems
// implementation would use a tagged sum; Go doesn't have one, so the shared
// fields factor into node and the variant-specific fields are all present
// but only meaningful for their kind.
type kind uint8

const (
	kindSource kind = iota
	kindDerived
	kindEffect
	kindOwner
)

type flags uint16

const (
	flagDirty flags = 1 << iota
	flagMaybeDirty
	flagDerived
	flagUninitialized
	flagRoot
	flagDisconnected
)

func (f flags) has(flag flags) bool  { return f&flag != 0 }
func (f *flags) add(flag flags)      { *f |= flag }
func (f *flags) remove(flag flags)   { *f &^= flag }
func (f *flags) set(v flags)         { *f = v }

// link is a bidirectional dependency edge between a reaction (sub, a Derived
// or Effect) and a trackable (dep, a Source or Derived). It lives in two
// doubly-linked lists at once: sub's dep list and dep's sub list.
type link struct {
	dep *node
	sub *node

	prevDep, nextDep *link
	prevSub, nextSub *link
}

// node is the common representation for Source, Derived and Effect. The
// fields below that don't apply to a given kind are simply unused.
type node struct {
	kind  kind
	flags flags

	// value storage (Source, Derived)
	value any

	// producer / runner. A Derived's fn returns its freshly computed value;
	// an Effect's fn runs the user body (registering cleanups via
	// OnCleanup) and its return value is ignored.
	fn func() any

	// explicit cleanups registered via OnCleanup, and error handlers
	// registered via OnError — both apply to Effect and Owner nodes alike
	cleanups []func()
	catchers []func(any)

	// owner-scoped context values (Derived/Effect/Owner), lazily allocated
	context map[any]any

	// dep/sub lists
	depsHead *link // this node as subscriber (Derived, Effect)
	subsHead *link // this node as dependency (Source, Derived)

	// ownership tree (Effect and Owner nodes are parented; a Derived only
	// owns child effects and is never parented itself; Source nodes live
	// independently of the effect tree)
	parent                   *node
	prevSibling, nextSibling *node
	childHead, childTail     *node

	// assigned monotonically, only to parentless Effects (§3 invariant 4)
	rootIndex int

	rt *Runtime
}

// Node is node's exported name — the public reactor package holds *Node
// handles but only ever calls through Runtime's exported methods on them.
type Node = node

func newNode(rt *Runtime, k kind) *node {
	return &node{kind: k, rt: rt}
}

// isReaction reports whether this node can itself have dependencies.
func (n *node) isReaction() bool { return n.kind == kindDerived || n.kind == kindEffect }

// isTrackable reports whether other reactions can depend on this node.
func (n *node) isTrackable() bool { return n.kind == kindSource || n.kind == kindDerived }

// hasSubscribers reports whether anything currently depends on this node —
// invariant 3's "at least one upward reader".
func (n *node) hasSubscribers() bool { return n.subsHead != nil }

// link_ creates a dependency edge from sub (a reaction) to dep (a trackable),
// unless an equivalent edge already exists (edge sets are sets semantically
// even though stored as linked lists — §4.2 step 1).
func link_(sub, dep *node) {
	for l := sub.depsHead; l != nil; l = l.nextDep {
		if l.dep == dep {
			return
		}
	}

	l := &link{dep: dep, sub: sub}

	// append to sub's dep list
	if sub.depsHead == nil {
		sub.depsHead = l
	} else {
		tail := sub.depsHead
		for tail.nextDep != nil {
			tail = tail.nextDep
		}
		tail.nextDep = l
		l.prevDep = tail
	}

	// append to dep's sub list
	if dep.subsHead == nil {
		dep.subsHead = l
	} else {
		tail := dep.subsHead
		for tail.nextSub != nil {
			tail = tail.nextSub
		}
		tail.nextSub = l
		l.prevSub = tail
	}
}

// removeSubLink removes l from dep's sub list only, leaving sub's dep list (the
// caller is iterating and clearing that list itself).
func (dep *node) removeSubLink(l *link) {
	if l.prevSub != nil {
		l.prevSub.nextSub = l.nextSub
	} else {
		dep.subsHead = l.nextSub
	}
	if l.nextSub != nil {
		l.nextSub.prevSub = l.prevSub
	}
	l.prevSub, l.nextSub = nil, nil
}

// clearDeps unlinks sub from every one of its current dependencies and
// empties its dep list (§4.3 step 2, §4.6 teardown).
func (sub *node) clearDeps() {
	for l := sub.depsHead; l != nil; {
		next := l.nextDep
		l.dep.removeSubLink(l)
		l = next
	}
	sub.depsHead = nil
}

// deps iterates this node's dependencies in link order.
func (sub *node) deps() iter.Seq[*node] {
	return func(yield func(*node) bool) {
		for l := sub.depsHead; l != nil; l = l.nextDep {
			if !yield(l.dep) {
				return
			}
		}
	}
}

// subs iterates this node's subscribers (reactions) in link order.
func (dep *node) subs() iter.Seq[*node] {
	return func(yield func(*node) bool) {
		for l := dep.subsHead; l != nil; l = l.nextSub {
			if !yield(l.sub) {
				return
			}
		}
	}
}

// children iterates this node's owned children in creation order.
func (n *node) children() iter.Seq[*node] {
	return func(yield func(*node) bool) {
		for c := n.childHead; c != nil; c = c.nextSibling {
			if !yield(c) {
				return
			}
		}
	}
}

// appendChild links child as the newest child of parent.
func appendChild(parent, child *node) {
	child.parent = parent
	child.prevSibling = parent.childTail
	child.nextSibling = nil

	if parent.childTail != nil {
		parent.childTail.nextSibling = child
	} else {
		parent.childHead = child
	}
	parent.childTail = child
}

// unlinkSibling removes child from its parent's child list without touching
// the parent pointer's former value (depth() and friends still need it while
// running, so callers clear n.parent separately once they're done with it).
func unlinkSibling(child *node) {
	parent := child.parent
	if parent == nil {
		return
	}

	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else {
		parent.childHead = child.nextSibling
	}
	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	} else {
		parent.childTail = child.prevSibling
	}
	child.prevSibling, child.nextSibling = nil, nil
}

// depth returns the number of ancestors between n and its topmost (owning)
// root effect — used by the scheduler's tree-depth sort (§4.5).
func (n *node) depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}
