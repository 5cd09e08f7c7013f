// Package assert aborts on broken container invariants. Reaching one of these
// panics means the container implementation is wrong, not the caller's input.
package assert

import "github.com/pkg/errors"

// That panics with a stack-carrying error when cond is false.
func That(cond bool, format string, args ...any) {
	if !cond {
		panic(errors.Errorf("invariant violated: "+format, args...))
	}
}

