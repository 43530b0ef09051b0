package market

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrCapacityExceeded = errors.New("series capacity exceeded")
	ErrEmptySeries      = errors.New("series is empty")
	ErrOutOfOrder       = errors.New("trade older than the open bar")
	ErrInvalidTimeframe = errors.New("invalid timeframe")
)

// RangeError reports an absolute index outside [Begin, End].
type RangeError struct {
	Op    string
	Index int
	Begin int
	End   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: index %d out of range [%d, %d]", e.Op, e.Index, e.Begin, e.End)
}

func (e *RangeError) Unwrap() error { return ErrIndexOutOfRange }
