package num

import (
	"fmt"
	"strings"
)

// Factory constructs the values of one backend. Factories are immutable and
// safe to share.
type Factory interface {
	Kind() Kind
	Name() string

	Zero() Num
	One() Num
	Two() Num
	Three() Num
	Ten() Num
	Hundred() Num
	Thousand() Num
	NaN() Num

	FromFloat(float64) Num
	FromInt(int) Num
	FromInt64(int64) Num
	// Parse reads s with the backend's own precision rules. "NaN" parses to
	// the backend's NaN.
	Parse(s string) (Num, error)
	MustParse(s string) Num
}

const (
	DefaultDecimalPrecision = 32
	DefaultFixedDigits      = 5
)

// Process-wide factories, one per backend.
var (
	Decimal = NewDecimalFactory(DefaultDecimalPrecision)
	Fixed   = NewFixedFactory(DefaultFixedDigits)
	Float   = newFloatFactory()
)

// ForKind returns the default factory of a backend.
func ForKind(k Kind) (Factory, error) {
	switch k {
	case KindDecimal:
		return Decimal, nil
	case KindFixed:
		return Fixed, nil
	case KindFloat:
		return Float, nil
	}
	return nil, fmt.Errorf("unknown numeric backend %v", k)
}

type constants struct {
	zero, one, two, three, ten, hundred, thousand Num
	nan                                           NaN
}

func newConstants(f Factory) constants {
	return constants{
		zero:     f.FromInt64(0),
		one:      f.FromInt64(1),
		two:      f.FromInt64(2),
		three:    f.FromInt64(3),
		ten:      f.FromInt64(10),
		hundred:  f.FromInt64(100),
		thousand: f.FromInt64(1000),
		nan:      NaN{f: f},
	}
}

func (c *constants) Zero() Num     { return c.zero }
func (c *constants) One() Num      { return c.one }
func (c *constants) Two() Num      { return c.two }
func (c *constants) Three() Num    { return c.three }
func (c *constants) Ten() Num      { return c.ten }
func (c *constants) Hundred() Num  { return c.hundred }
func (c *constants) Thousand() Num { return c.thousand }
func (c *constants) NaN() Num      { return c.nan }

func isNaNString(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "nan")
}

func mustParse(f Factory, s string) Num {
	v, err := f.Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}
