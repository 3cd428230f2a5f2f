package internal

import (
	"math"
	"reflect"
)

// sameValue implements the same-value comparison §3 requires for deciding
// whether a write or a recompute actually changed anything: NaN equals NaN,
// and +0/-0 are distinct, matching float semantics rather than Go's plain
// ==. Non-numeric, non-comparable values (slices, maps) fall back to a deep
// comparison so storing them in a Signal doesn't panic on write.
func sameValue(a, b any) (eq bool) {
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return false
		}
		return sameFloat(av, bv)
	case float32:
		bv, ok := b.(float32)
		if !ok {
			return false
		}
		return sameFloat(float64(av), float64(bv))
	}

	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}

func sameFloat(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	if a == 0 && b == 0 {
		return math.Signbit(a) == math.Signbit(b)
	}
	return a == b
}
