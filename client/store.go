// Package client is the tiny reactive model a browser-side hydration
// layer would build on: the current route as a Signal, with derived
// page title and nav-active state recomputing off it. It exercises
// reactor the way DOM bindings would, without depending on anything
// beyond it.
package client

import (
	"strings"

	"github.com/alderfall/alder/reactor"
)

// Page describes one entry in the site's nav.
type Page struct {
	Slug  string
	Title string
}

// Store is the client-side page model: one Signal for the active
// route, and Deriveds recomputed off it.
type Store struct {
	pages []Page

	route reactor.Signal[string]
	title reactor.Derived[string]
}

// NewStore builds a Store over the given nav pages, starting on start.
func NewStore(pages []Page, start string) *Store {
	s := &Store{
		pages: pages,
		route: reactor.NewSignal(start),
	}

	s.title = reactor.NewDerived(func() string {
		route := s.route.Read()
		for _, p := range s.pages {
			if p.Slug == route {
				return p.Title
			}
		}
		return "Not Found"
	})

	return s
}

// Navigate updates the active route, which drives Title and IsActive to
// recompute for anything reading them, then flushes immediately: a
// navigation is the host-level event this model exists to react to (the
// DOM-binding equivalent of a browser dispatching a popstate handler and
// running its microtask checkpoint before yielding back to the caller),
// so OnNavigate listeners observe it synchronously rather than the
// caller having to remember to call reactor.Flush() itself.
func (s *Store) Navigate(slug string) {
	s.route.Write(slug)
	reactor.Flush()
}

// Route returns the current route, tracking a dependency if read from
// inside a Derived or Effect.
func (s *Store) Route() string { return s.route.Read() }

// Title returns the active page's title, memoized until the route
// changes.
func (s *Store) Title() string { return s.title.Read() }

// IsActive reports whether slug is the current route or an ancestor of
// it in a "/"-delimited path — used to light up nav links.
func (s *Store) IsActive(slug string) bool {
	route := s.route.Read()
	return route == slug || strings.HasPrefix(route, slug+"/")
}

// OnNavigate registers an Effect that runs fn with the new title every
// time a route change changes the title, including once immediately for
// the initial route; a navigation that leaves the title the same does not
// run fn again — this is the shape a DOM binding updating document.title
// would take.
func (s *Store) OnNavigate(fn func(title string)) reactor.Effect {
	return reactor.NewEffect(func() {
		fn(s.title.Read())
	})
}
