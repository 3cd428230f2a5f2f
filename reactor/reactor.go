// Package reactor is the public face of the dependency-graph runtime:
// generic Signal/Derived/Effect/Owner/Context wrappers over the untyped
// node graph in internal, plus the fork engine for speculative writes.
package reactor

import "github.com/alderfall/alder/reactor/internal"

func rt() *internal.Runtime { return internal.GetRuntime() }

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// Signal is a mutable leaf of the dependency graph (§3 "Source").
type Signal[T any] struct{ n *internal.Node }

// NewSignal creates a Signal holding initial.
func NewSignal[T any](initial T) Signal[T] {
	return Signal[T]{n: rt().NewSource(initial)}
}

// Read returns the current value, tracking a dependency edge if called
// from inside a Derived or Effect.
func (s Signal[T]) Read() T { return as[T](rt().Read(s.n)) }

// Write stores v, no-op if it same-values the prior value, otherwise
// propagating dirtiness to dependents (§4.4). Affected effects are
// queued, not run — call Flush (or wrap the write in NewBatch) to drain
// them. Panics with *internal.UnsafeMutationError if called from inside a
// Derived's compute.
func (s Signal[T]) Write(v T) {
	if err := rt().Set(s.n, v); err != nil {
		panic(err)
	}
}

// Peek reads the current value without tracking a dependency edge.
func (s Signal[T]) Peek() T { return as[T](rt().Peek(s.n)) }

// Derived is a lazily-recomputed, memoized node (§3 "Derived").
type Derived[T any] struct{ n *internal.Node }

// NewDerived creates a Derived wrapping compute. Nothing runs until the
// first Read.
func NewDerived[T any](compute func() T) Derived[T] {
	n := rt().NewDerived(func() any { return compute() })
	return Derived[T]{n: n}
}

// Read returns the current (recomputing if stale) value, tracking a
// dependency edge if called from inside another Derived or an Effect.
func (d Derived[T]) Read() T { return as[T](rt().Read(d.n)) }

// Effect is a reaction that runs for its side effects, scheduled on the
// next drain whenever one of its deps changes (§3 "Effect").
type Effect struct{ n *internal.Node }

// NewEffect creates an Effect under the current owner (or as a root effect
// if there is none) and runs it once immediately. Call OnCleanup from
// inside body to register teardown logic for the next rerun or dispose.
func NewEffect(body func()) Effect {
	parent := rt().CurrentOwner()
	n := rt().NewEffect(parent, func() any { body(); return nil })
	return Effect{n: n}
}

// Dispose tears the effect (and anything it owns) down immediately.
func (e Effect) Dispose() { rt().Dispose(e.n) }

// Owner is a plain ownership scope for grouping cleanups/error handlers
// and parenting Derived/Effect nodes without itself reacting to anything.
type Owner struct{ n *internal.Node }

// NewOwner creates an ownership scope nested under the current owner, or
// as a new root if there is none.
func NewOwner() Owner {
	return Owner{n: rt().NewOwner(rt().CurrentOwner())}
}

// NewRoot creates a fresh, parentless owner scope, immediately runs fn
// inside it, and returns a disposer that tears the whole scope down (§6
// "root(fn) → dispose").
func NewRoot(fn func()) (dispose func()) {
	o := rt().NewOwner(nil)
	dispose = func() { rt().Dispose(o) }

	_ = rt().Run(o, func() error {
		fn()
		return nil
	})

	return dispose
}

// Run executes fn with this owner current, so anything it creates is
// scoped underneath. A returned error (or recovered panic) is routed to
// the nearest ancestor OnError handler; absent one, it propagates.
func (o Owner) Run(fn func() error) error { return rt().Run(o.n, fn) }

// Dispose tears the owner and its whole subtree down: children before
// parent, cleanups most-recently-registered first.
func (o Owner) Dispose() { rt().Dispose(o.n) }

// OnCleanup registers fn on this owner, to run when it is disposed.
func (o Owner) OnCleanup(fn func()) {
	rt().OnCleanupOn(o.n, fn)
}

// OnDispose registers fn to run when this owner is disposed. An Owner
// never reruns, so this is equivalent to OnCleanup; it exists under its
// own name because "cleanup" elsewhere in this package specifically means
// "runs again before the next rerun", which doesn't apply to Owner.
func (o Owner) OnDispose(fn func()) {
	rt().OnCleanupOn(o.n, fn)
}

// OnError registers fn as this owner's error handler.
func (o Owner) OnError(fn func(any)) {
	rt().OnErrorOn(o.n, fn)
}

// OnCleanup registers fn against whatever reaction or owner is currently
// running.
func OnCleanup(fn func()) { rt().OnCleanup(fn) }

// OnError registers fn as the current owner's error handler.
func OnError(fn func(any)) { rt().OnError(fn) }

// Untrack runs fn without registering dependency edges for any Read it
// performs, even though it's still called from inside a reaction.
func Untrack[T any](fn func() T) T {
	var result T
	rt().Untrack(func() { result = fn() })
	return result
}

// NewBatch runs fn and then flushes exactly once when the outermost
// nesting returns, coalescing writes made inside it into a single drain.
func NewBatch(fn func()) { rt().Batch(fn) }

// Flush runs every effect currently queued, to completion — the explicit
// microtask-boundary checkpoint spec.md §9 calls for ("tests should
// expose a flush() entry point for determinism"). Go has no implicit
// event-loop tick to hang an automatic drain off of, so Write queues
// affected effects but never runs them; call Flush once a synchronous
// region of writes is done (a host driver loop would call this once per
// tick, the way NewBatch already does once per batch).
func Flush() { rt().Flush() }

// Context provides an owner-scoped value inherited down the ownership
// tree, shadowable by nested Set calls (§6).
type Context[T any] struct {
	key     *int
	fallback T
}

// NewContext creates a Context with a default value.
func NewContext[T any](fallback T) Context[T] {
	return Context[T]{key: new(int), fallback: fallback}
}

// Set stores v for this context on the current owner, visible to its
// whole subtree unless shadowed again deeper down.
func (c Context[T]) Set(v T) {
	if cur := rt().CurrentOwner(); cur != nil {
		rt().SetContext(cur, c.key, v)
	}
}

// Value returns the nearest ancestor's value for this context, or the
// context's fallback if none was set.
func (c Context[T]) Value() T {
	if v, ok := rt().ContextValue(c.key); ok {
		return as[T](v)
	}
	return c.fallback
}
