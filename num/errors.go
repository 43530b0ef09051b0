package num

import (
	"errors"
	"fmt"
)

var (
	// ErrMismatch is the cause of every cross-backend failure.
	ErrMismatch = errors.New("num: backend mismatch")
	// ErrUnordered is returned by Compare when an operand is NaN.
	ErrUnordered = errors.New("num: NaN is unordered")
)

// MismatchError names the two backends that were combined.
type MismatchError struct {
	Left  string
	Right string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("num: incompatible backends %s with %s", e.Left, e.Right)
}

func (e *MismatchError) Unwrap() error { return ErrMismatch }
