package num

import (
	"fmt"
	"math"
	"math/bits"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxFixedDigits bounds the fractional digits of a fixed-point factory.
const MaxFixedDigits = 9

var (
	maxMantissa = decimal.NewFromInt(math.MaxInt64)
	minMantissa = decimal.NewFromInt(-math.MaxInt64)
)

// FixedFactory builds fixed-point values: an int64 mantissa scaled by
// 10^digits. Results that do not fit the mantissa become NaN. Rounding is half
// away from zero.
type FixedFactory struct {
	constants
	digits int
	scale  int64
}

// NewFixedFactory returns a factory with the given number of fractional
// digits, clamped to [0, MaxFixedDigits]. A negative count selects
// DefaultFixedDigits.
func NewFixedFactory(digits int) *FixedFactory {
	if digits < 0 {
		digits = DefaultFixedDigits
	}
	if digits > MaxFixedDigits {
		digits = MaxFixedDigits
	}
	scale := int64(1)
	for i := 0; i < digits; i++ {
		scale *= 10
	}
	f := &FixedFactory{digits: digits, scale: scale}
	f.constants = newConstants(f)
	return f
}

func (f *FixedFactory) Kind() Kind   { return KindFixed }
func (f *FixedFactory) Name() string { return fmt.Sprintf("fixed(%d)", f.digits) }
func (f *FixedFactory) Digits() int  { return f.digits }

func (f *FixedFactory) FromFloat(v float64) Num {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return f.nan
	}
	return f.fromDecimal(decimal.NewFromFloat(v))
}

func (f *FixedFactory) FromInt(v int) Num { return f.FromInt64(int64(v)) }

func (f *FixedFactory) FromInt64(v int64) Num {
	if v > math.MaxInt64/f.scale || v < -math.MaxInt64/f.scale {
		return f.nan
	}
	return FixedNum{v: v * f.scale, f: f}
}

// FromMantissa wraps an already scaled integer, e.g. 123456 for 1.23456 at
// five digits.
func (f *FixedFactory) FromMantissa(m int64) Num {
	if m == math.MinInt64 {
		return f.nan
	}
	return FixedNum{v: m, f: f}
}

func (f *FixedFactory) Parse(s string) (Num, error) {
	if isNaNString(s) {
		return f.nan, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("parse fixed %q: %w", s, err)
	}
	return f.fromDecimal(d), nil
}

func (f *FixedFactory) MustParse(s string) Num { return mustParse(f, s) }

func (f *FixedFactory) fromDecimal(d decimal.Decimal) Num {
	m := d.Round(int32(f.digits)).Shift(int32(f.digits))
	if m.GreaterThan(maxMantissa) || m.LessThan(minMantissa) {
		return f.nan
	}
	return FixedNum{v: m.IntPart(), f: f}
}

// FixedNum is a fixed-point value.
type FixedNum struct {
	v int64
	f *FixedFactory
}

func (FixedNum) sealed() {}

func (a FixedNum) Kind() Kind       { return KindFixed }
func (a FixedNum) Factory() Factory { return a.f }

// Mantissa is the scaled integer representation.
func (a FixedNum) Mantissa() int64 { return a.v }

func (a FixedNum) operand(b Num) (FixedNum, bool) {
	switch o := b.(type) {
	case FixedNum:
		if o.f.digits == a.f.digits {
			return o, true
		}
	case NaN:
		if compatible(a.f, o.f) {
			return FixedNum{}, false
		}
	}
	panic(mismatch(a, b))
}

func (a FixedNum) result(v int64, ok bool) Num {
	if !ok {
		return a.f.nan
	}
	return FixedNum{v: v, f: a.f}
}

func (a FixedNum) Add(b Num) Num {
	o, ok := a.operand(b)
	if !ok {
		return a.f.nan
	}
	return a.result(addInt(a.v, o.v))
}

func (a FixedNum) Sub(b Num) Num {
	o, ok := a.operand(b)
	if !ok {
		return a.f.nan
	}
	return a.result(addInt(a.v, -o.v))
}

func (a FixedNum) Mul(b Num) Num {
	o, ok := a.operand(b)
	if !ok {
		return a.f.nan
	}
	return a.result(mulDiv(a.v, o.v, a.f.scale))
}

func (a FixedNum) Div(b Num) Num {
	o, ok := a.operand(b)
	if !ok || o.v == 0 {
		return a.f.nan
	}
	return a.result(mulDiv(a.v, a.f.scale, o.v))
}

func (a FixedNum) Rem(b Num) Num {
	o, ok := a.operand(b)
	if !ok || o.v == 0 {
		return a.f.nan
	}
	return FixedNum{v: a.v % o.v, f: a.f}
}

// Pow multiplies by squaring, rounding at every step.
func (a FixedNum) Pow(n int) Num {
	if n == 0 {
		return a.f.one
	}
	exp := n
	if exp < 0 {
		exp = -exp
	}
	result, base := a.f.scale, a.v
	ok := true
	for exp > 0 {
		if exp&1 == 1 {
			if result, ok = mulDiv(result, base, a.f.scale); !ok {
				return a.f.nan
			}
		}
		exp >>= 1
		if exp > 0 {
			if base, ok = mulDiv(base, base, a.f.scale); !ok {
				return a.f.nan
			}
		}
	}
	if n < 0 {
		if result == 0 {
			return a.f.nan
		}
		return a.result(mulDiv(a.f.scale, a.f.scale, result))
	}
	return FixedNum{v: result, f: a.f}
}

func (a FixedNum) Log() Num {
	if a.v <= 0 {
		return a.f.nan
	}
	return a.f.FromFloat(math.Log(a.Float64()))
}

func (a FixedNum) Sqrt() Num {
	if a.v < 0 {
		return a.f.nan
	}
	return a.f.FromFloat(math.Sqrt(a.Float64()))
}

func (a FixedNum) Abs() Num {
	if a.v < 0 {
		return FixedNum{v: -a.v, f: a.f}
	}
	return a
}

func (a FixedNum) Neg() Num { return FixedNum{v: -a.v, f: a.f} }

func (a FixedNum) IsNaN() bool            { return false }
func (a FixedNum) IsZero() bool           { return a.v == 0 }
func (a FixedNum) IsPositive() bool       { return a.v > 0 }
func (a FixedNum) IsPositiveOrZero() bool { return a.v >= 0 }
func (a FixedNum) IsNegative() bool       { return a.v < 0 }
func (a FixedNum) IsNegativeOrZero() bool { return a.v <= 0 }

func (a FixedNum) cmp(b Num) (int, bool) {
	o, ok := a.operand(b)
	if !ok {
		return 0, false
	}
	switch {
	case a.v < o.v:
		return -1, true
	case a.v > o.v:
		return 1, true
	}
	return 0, true
}

func (a FixedNum) IsEqual(b Num) bool {
	c, ok := a.cmp(b)
	return ok && c == 0
}

func (a FixedNum) IsGreaterThan(b Num) bool {
	c, ok := a.cmp(b)
	return ok && c > 0
}

func (a FixedNum) IsGreaterThanOrEqual(b Num) bool {
	c, ok := a.cmp(b)
	return ok && c >= 0
}

func (a FixedNum) IsLessThan(b Num) bool {
	c, ok := a.cmp(b)
	return ok && c < 0
}

func (a FixedNum) IsLessThanOrEqual(b Num) bool {
	c, ok := a.cmp(b)
	return ok && c <= 0
}

func (a FixedNum) Min(b Num) Num {
	o, ok := a.operand(b)
	if !ok {
		return a.f.nan
	}
	if o.v < a.v {
		return o
	}
	return a
}

func (a FixedNum) Max(b Num) Num {
	o, ok := a.operand(b)
	if !ok {
		return a.f.nan
	}
	if o.v > a.v {
		return o
	}
	return a
}

func (a FixedNum) Equals(b Num) bool {
	o, ok := b.(FixedNum)
	return ok && o.f.digits == a.f.digits && o.v == a.v
}

func (a FixedNum) Float64() float64 { return float64(a.v) / float64(a.f.scale) }

func (a FixedNum) String() string {
	return decimal.New(a.v, -int32(a.f.digits)).StringFixed(int32(a.f.digits))
}

// addInt adds with overflow detection; math.MinInt64 is never produced so
// negation stays safe.
func addInt(a, b int64) (int64, bool) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) || s == math.MinInt64 {
		return 0, false
	}
	return s, true
}

// mulDiv returns a*b/c rounded half away from zero using a 128-bit
// intermediate product.
func mulDiv(a, b, c int64) (int64, bool) {
	neg := (a < 0) != (b < 0)
	if c < 0 {
		neg = !neg
	}
	ua, ub, uc := absU(a), absU(b), absU(c)
	hi, lo := bits.Mul64(ua, ub)
	if hi >= uc {
		return 0, false
	}
	q, r := bits.Div64(hi, lo, uc)
	if q > math.MaxInt64 {
		return 0, false
	}
	if r >= uc-r {
		q++
		if q > math.MaxInt64 {
			return 0, false
		}
	}
	v := int64(q)
	if neg {
		v = -v
	}
	return v, true
}

func absU(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}
