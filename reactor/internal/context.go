package internal

// contextKey identifies a Context[T] instance across the generic boundary;
// the public package hands back an opaque *int (or similar) per context.
type contextKey = any

// SetContext stores v for key on owner's own context map, shadowing any
// ancestor value for the duration of owner's subtree (§6 "Context").
func (r *Runtime) SetContext(owner *node, key contextKey, v any) {
	if owner.context == nil {
		owner.context = make(map[any]any)
	}
	owner.context[key] = v
}

// ContextValue looks up key starting at the current reaction/owner and
// walking up the ownership tree, returning the nearest ancestor's value
// (or ok=false if no ancestor provided one).
func (r *Runtime) ContextValue(key contextKey) (any, bool) {
	for n := r.current(); n != nil; n = n.parent {
		if n.context != nil {
			if v, ok := n.context[key]; ok {
				return v, true
			}
		}
	}
	return nil, false
}
