package num

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// DecimalFactory builds arbitrary-precision values rounded half up to a fixed
// number of significant digits.
type DecimalFactory struct {
	constants
	precision int32
}

// NewDecimalFactory returns a factory rounding to precision significant
// digits. A non-positive precision selects DefaultDecimalPrecision.
func NewDecimalFactory(precision int) *DecimalFactory {
	if precision <= 0 {
		precision = DefaultDecimalPrecision
	}
	f := &DecimalFactory{precision: int32(precision)}
	f.constants = newConstants(f)
	return f
}

func (f *DecimalFactory) Kind() Kind     { return KindDecimal }
func (f *DecimalFactory) Name() string   { return fmt.Sprintf("decimal(%d)", f.precision) }
func (f *DecimalFactory) Precision() int { return int(f.precision) }

func (f *DecimalFactory) FromFloat(v float64) Num {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return f.nan
	}
	return f.wrap(decimal.NewFromFloat(v))
}

func (f *DecimalFactory) FromInt(v int) Num     { return f.wrap(decimal.NewFromInt(int64(v))) }
func (f *DecimalFactory) FromInt64(v int64) Num { return f.wrap(decimal.NewFromInt(v)) }

// FromDecimal wraps an existing decimal, rounding it to the factory precision.
func (f *DecimalFactory) FromDecimal(d decimal.Decimal) Num { return f.wrap(d) }

func (f *DecimalFactory) Parse(s string) (Num, error) {
	if isNaNString(s) {
		return f.nan, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return f.wrap(d), nil
}

func (f *DecimalFactory) MustParse(s string) Num { return mustParse(f, s) }

func (f *DecimalFactory) wrap(d decimal.Decimal) DecimalNum {
	return DecimalNum{d: f.round(d), f: f}
}

// round keeps at most f.precision significant digits.
func (f *DecimalFactory) round(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return d
	}
	if int32(d.NumDigits()) <= f.precision {
		return d
	}
	return d.Round(f.precision - magnitude(d))
}

func (f *DecimalFactory) div(x, y decimal.Decimal) decimal.Decimal {
	places := f.precision - (magnitude(x) - magnitude(y)) + 2
	if places < 0 {
		places = 0
	}
	return x.DivRound(y, places)
}

// magnitude is the count of digits left of the decimal point; negative for
// values below 0.1.
func magnitude(d decimal.Decimal) int32 {
	return int32(d.NumDigits()) + d.Exponent()
}

// DecimalNum is an arbitrary-precision value.
type DecimalNum struct {
	d decimal.Decimal
	f *DecimalFactory
}

func (DecimalNum) sealed() {}

func (a DecimalNum) Kind() Kind       { return KindDecimal }
func (a DecimalNum) Factory() Factory { return a.f }

// Decimal exposes the underlying value.
func (a DecimalNum) Decimal() decimal.Decimal { return a.d }

func (a DecimalNum) operand(b Num) (DecimalNum, bool) {
	switch o := b.(type) {
	case DecimalNum:
		return o, true
	case NaN:
		if o.Kind() == KindDecimal {
			return DecimalNum{}, false
		}
	}
	panic(mismatch(a, b))
}

func (a DecimalNum) Add(b Num) Num {
	o, ok := a.operand(b)
	if !ok {
		return a.f.nan
	}
	return a.f.wrap(a.d.Add(o.d))
}

func (a DecimalNum) Sub(b Num) Num {
	o, ok := a.operand(b)
	if !ok {
		return a.f.nan
	}
	return a.f.wrap(a.d.Sub(o.d))
}

func (a DecimalNum) Mul(b Num) Num {
	o, ok := a.operand(b)
	if !ok {
		return a.f.nan
	}
	return a.f.wrap(a.d.Mul(o.d))
}

func (a DecimalNum) Div(b Num) Num {
	o, ok := a.operand(b)
	if !ok || o.d.IsZero() {
		return a.f.nan
	}
	return a.f.wrap(a.f.div(a.d, o.d))
}

func (a DecimalNum) Rem(b Num) Num {
	o, ok := a.operand(b)
	if !ok || o.d.IsZero() {
		return a.f.nan
	}
	return a.f.wrap(a.d.Mod(o.d))
}

func (a DecimalNum) Pow(n int) Num {
	if n == 0 {
		return a.f.one
	}
	exp := n
	if exp < 0 {
		exp = -exp
	}
	p := a.d.Pow(decimal.NewFromInt(int64(exp)))
	if n > 0 {
		return a.f.wrap(p)
	}
	if p.IsZero() {
		return a.f.nan
	}
	return a.f.wrap(a.f.div(decimal.NewFromInt(1), p))
}

func (a DecimalNum) Log() Num {
	if !a.d.IsPositive() {
		return a.f.nan
	}
	return a.f.FromFloat(math.Log(a.d.InexactFloat64()))
}

// Sqrt refines the float64 estimate with Newton steps until the result is
// stable at the factory precision.
func (a DecimalNum) Sqrt() Num {
	switch a.d.Sign() {
	case -1:
		return a.f.nan
	case 0:
		return a.f.zero
	}
	x := decimal.NewFromFloat(math.Sqrt(a.d.InexactFloat64()))
	if x.IsZero() {
		x = a.d
	}
	two := decimal.NewFromInt(2)
	for i := 0; i < 8; i++ {
		next := a.f.round(a.f.div(x.Add(a.f.div(a.d, x)), two))
		if next.Equal(x) {
			break
		}
		x = next
	}
	return a.f.wrap(x)
}

func (a DecimalNum) Abs() Num { return a.f.wrap(a.d.Abs()) }
func (a DecimalNum) Neg() Num { return a.f.wrap(a.d.Neg()) }

func (a DecimalNum) IsNaN() bool            { return false }
func (a DecimalNum) IsZero() bool           { return a.d.IsZero() }
func (a DecimalNum) IsPositive() bool       { return a.d.Sign() > 0 }
func (a DecimalNum) IsPositiveOrZero() bool { return a.d.Sign() >= 0 }
func (a DecimalNum) IsNegative() bool       { return a.d.Sign() < 0 }
func (a DecimalNum) IsNegativeOrZero() bool { return a.d.Sign() <= 0 }

func (a DecimalNum) cmp(b Num) (int, bool) {
	o, ok := a.operand(b)
	if !ok {
		return 0, false
	}
	return a.d.Cmp(o.d), true
}

func (a DecimalNum) IsEqual(b Num) bool {
	c, ok := a.cmp(b)
	return ok && c == 0
}

func (a DecimalNum) IsGreaterThan(b Num) bool {
	c, ok := a.cmp(b)
	return ok && c > 0
}

func (a DecimalNum) IsGreaterThanOrEqual(b Num) bool {
	c, ok := a.cmp(b)
	return ok && c >= 0
}

func (a DecimalNum) IsLessThan(b Num) bool {
	c, ok := a.cmp(b)
	return ok && c < 0
}

func (a DecimalNum) IsLessThanOrEqual(b Num) bool {
	c, ok := a.cmp(b)
	return ok && c <= 0
}

func (a DecimalNum) Min(b Num) Num {
	o, ok := a.operand(b)
	if !ok {
		return a.f.nan
	}
	if o.d.Cmp(a.d) < 0 {
		return o
	}
	return a
}

func (a DecimalNum) Max(b Num) Num {
	o, ok := a.operand(b)
	if !ok {
		return a.f.nan
	}
	if o.d.Cmp(a.d) > 0 {
		return o
	}
	return a
}

func (a DecimalNum) Equals(b Num) bool {
	o, ok := b.(DecimalNum)
	return ok && a.d.Equal(o.d)
}

func (a DecimalNum) Float64() float64 { return a.d.InexactFloat64() }
func (a DecimalNum) String() string   { return a.d.String() }
