// Package num provides a backend-agnostic number type for price and volume
// arithmetic.
//
// A Num is one of four value types: DecimalNum (arbitrary precision),
// FixedNum (int64 mantissa with a fixed number of fractional digits),
// FloatNum (float64) or NaN. Values are only created through a Factory, so the
// backend is always explicit, and the backend of a series is fixed for its
// lifetime.
//
// NaN is absorbing and unordered: arithmetic with a NaN operand yields NaN,
// and every predicate or comparison involving NaN reports false. Division by
// zero yields NaN. Mixing backends in one operation is a programming error and
// panics with a *MismatchError; use Check or Compare to get it as an error.
package num

import (
	"fmt"
	"strings"
)

// Kind identifies a numeric backend.
type Kind uint8

const (
	KindDecimal Kind = iota
	KindFixed
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindDecimal:
		return "decimal"
	case KindFixed:
		return "fixed"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind maps a config name ("decimal", "fixed", "float") to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "decimal", "bigdecimal", "":
		return KindDecimal, nil
	case "fixed", "decimal5f":
		return KindFixed, nil
	case "float", "double", "float64":
		return KindFloat, nil
	default:
		return 0, fmt.Errorf("unknown numeric backend %q", s)
	}
}

// Num is an immutable number of one backend.
type Num interface {
	Kind() Kind
	Factory() Factory

	Add(Num) Num
	Sub(Num) Num
	Mul(Num) Num
	Div(Num) Num
	Rem(Num) Num
	Pow(n int) Num
	Log() Num
	Sqrt() Num
	Abs() Num
	Neg() Num

	IsNaN() bool
	IsZero() bool
	IsPositive() bool
	IsPositiveOrZero() bool
	IsNegative() bool
	IsNegativeOrZero() bool

	IsEqual(Num) bool
	IsGreaterThan(Num) bool
	IsGreaterThanOrEqual(Num) bool
	IsLessThan(Num) bool
	IsLessThanOrEqual(Num) bool

	Min(Num) Num
	Max(Num) Num

	// Equals is total: it never panics, reports false across backends and
	// treats two NaNs of the same backend as equal.
	Equals(Num) bool

	Float64() float64
	String() string

	sealed()
}

// Compare returns -1, 0 or +1. It fails with ErrMismatch when the backends
// differ and ErrUnordered when either side is NaN.
func Compare(a, b Num) (int, error) {
	if err := Check(a, b); err != nil {
		return 0, err
	}
	if a.IsNaN() || b.IsNaN() {
		return 0, ErrUnordered
	}
	switch {
	case a.IsLessThan(b):
		return -1, nil
	case a.IsGreaterThan(b):
		return 1, nil
	default:
		return 0, nil
	}
}

// Check reports whether a and b may be combined in one operation.
func Check(a, b Num) error {
	if a == nil || b == nil {
		return fmt.Errorf("%w: nil operand", ErrMismatch)
	}
	if !compatible(a.Factory(), b.Factory()) {
		return &MismatchError{Left: a.Factory().Name(), Right: b.Factory().Name()}
	}
	return nil
}

// Sum adds values of one backend; an empty input yields f.Zero().
func Sum(f Factory, values ...Num) Num {
	total := f.Zero()
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

func compatible(a, b Factory) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	if a.Kind() == KindFixed {
		return a.(*FixedFactory).digits == b.(*FixedFactory).digits
	}
	return true
}

func mismatch(a, b Num) *MismatchError {
	right := "<nil>"
	if b != nil {
		right = b.Factory().Name()
	}
	return &MismatchError{Left: a.Factory().Name(), Right: right}
}
