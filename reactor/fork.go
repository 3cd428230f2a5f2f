package reactor

import "github.com/alderfall/alder/reactor/internal"

// Fork runs fn with a private, shadowed overlay of the graph's writes:
// reads inside fn see fn's own writes, but nothing outside fn's scope is
// affected until Apply commits the overlay through the normal propagator
// (§4.7).
type Fork struct{ f *internal.Fork }

// NewFork captures fn's writes into a new shadow overlay without touching
// live state.
func NewFork(fn func()) Fork {
	return Fork{f: internal.NewFork(rt(), fn)}
}

// With runs g against a clone of the fork's current overlay, letting g
// explore further speculative writes without mutating the fork itself.
func (f Fork) With(g func()) error { return f.f.With(g) }

// Apply commits the fork's shadow writes through the normal dirty
// propagator. A fork can only be applied once; a second Apply or With
// returns *internal.ForkAlreadySettledError.
func (f Fork) Apply() error { return f.f.Apply() }
