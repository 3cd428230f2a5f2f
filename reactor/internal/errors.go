package internal

// UnsafeMutationError is raised when set is called while the innermost
// reaction is a Derived (§4.4 step 1, §7).
type UnsafeMutationError struct{}

func (e *UnsafeMutationError) Error() string {
	return "reactor: write to a signal from inside a derived's compute function"
}

// CrossGoroutineOwnerError is raised when an Owner's Run is invoked from a
// goroutine other than the one that created it (§5).
type CrossGoroutineOwnerError struct{}

func (e *CrossGoroutineOwnerError) Error() string {
	return "reactor: owner run from a different goroutine than it was created on"
}

// ForkAlreadySettledError is raised by Apply or With on a fork handle that
// has already been applied.
type ForkAlreadySettledError struct{}

func (e *ForkAlreadySettledError) Error() string {
	return "reactor: fork already applied"
}
