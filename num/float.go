package num

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FloatFactory builds float64 values. IEEE NaN results are reported as the
// NaN variant.
type FloatFactory struct {
	constants
}

func newFloatFactory() *FloatFactory {
	f := &FloatFactory{}
	f.constants = newConstants(f)
	return f
}

func (f *FloatFactory) Kind() Kind   { return KindFloat }
func (f *FloatFactory) Name() string { return "float64" }

func (f *FloatFactory) FromFloat(v float64) Num { return f.wrap(v) }
func (f *FloatFactory) FromInt(v int) Num       { return FloatNum{v: float64(v)} }
func (f *FloatFactory) FromInt64(v int64) Num   { return FloatNum{v: float64(v)} }

func (f *FloatFactory) Parse(s string) (Num, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("parse float %q: %w", s, err)
	}
	return f.wrap(v), nil
}

func (f *FloatFactory) MustParse(s string) Num { return mustParse(f, s) }

func (f *FloatFactory) wrap(v float64) Num {
	if math.IsNaN(v) {
		return f.nan
	}
	return FloatNum{v: v}
}

// FloatNum is a float64 value.
type FloatNum struct {
	v float64
}

func (FloatNum) sealed() {}

func (a FloatNum) Kind() Kind       { return KindFloat }
func (a FloatNum) Factory() Factory { return Float }

func (a FloatNum) operand(b Num) (FloatNum, bool) {
	switch o := b.(type) {
	case FloatNum:
		return o, true
	case NaN:
		if o.Kind() == KindFloat {
			return FloatNum{}, false
		}
	}
	panic(mismatch(a, b))
}

func (a FloatNum) Add(b Num) Num {
	o, ok := a.operand(b)
	if !ok {
		return Float.nan
	}
	return Float.wrap(a.v + o.v)
}

func (a FloatNum) Sub(b Num) Num {
	o, ok := a.operand(b)
	if !ok {
		return Float.nan
	}
	return Float.wrap(a.v - o.v)
}

func (a FloatNum) Mul(b Num) Num {
	o, ok := a.operand(b)
	if !ok {
		return Float.nan
	}
	return Float.wrap(a.v * o.v)
}

func (a FloatNum) Div(b Num) Num {
	o, ok := a.operand(b)
	if !ok || o.v == 0 {
		return Float.nan
	}
	return Float.wrap(a.v / o.v)
}

func (a FloatNum) Rem(b Num) Num {
	o, ok := a.operand(b)
	if !ok || o.v == 0 {
		return Float.nan
	}
	return Float.wrap(math.Mod(a.v, o.v))
}

func (a FloatNum) Pow(n int) Num {
	if a.v == 0 && n < 0 {
		return Float.nan
	}
	return Float.wrap(math.Pow(a.v, float64(n)))
}

func (a FloatNum) Log() Num {
	if a.v <= 0 {
		return Float.nan
	}
	return Float.wrap(math.Log(a.v))
}

func (a FloatNum) Sqrt() Num {
	if a.v < 0 {
		return Float.nan
	}
	return Float.wrap(math.Sqrt(a.v))
}

func (a FloatNum) Abs() Num { return FloatNum{v: math.Abs(a.v)} }
func (a FloatNum) Neg() Num { return FloatNum{v: -a.v} }

func (a FloatNum) IsNaN() bool            { return false }
func (a FloatNum) IsZero() bool           { return a.v == 0 }
func (a FloatNum) IsPositive() bool       { return a.v > 0 }
func (a FloatNum) IsPositiveOrZero() bool { return a.v >= 0 }
func (a FloatNum) IsNegative() bool       { return a.v < 0 }
func (a FloatNum) IsNegativeOrZero() bool { return a.v <= 0 }

func (a FloatNum) IsEqual(b Num) bool {
	o, ok := a.operand(b)
	return ok && a.v == o.v
}

func (a FloatNum) IsGreaterThan(b Num) bool {
	o, ok := a.operand(b)
	return ok && a.v > o.v
}

func (a FloatNum) IsGreaterThanOrEqual(b Num) bool {
	o, ok := a.operand(b)
	return ok && a.v >= o.v
}

func (a FloatNum) IsLessThan(b Num) bool {
	o, ok := a.operand(b)
	return ok && a.v < o.v
}

func (a FloatNum) IsLessThanOrEqual(b Num) bool {
	o, ok := a.operand(b)
	return ok && a.v <= o.v
}

func (a FloatNum) Min(b Num) Num {
	o, ok := a.operand(b)
	if !ok {
		return Float.nan
	}
	if o.v < a.v {
		return o
	}
	return a
}

func (a FloatNum) Max(b Num) Num {
	o, ok := a.operand(b)
	if !ok {
		return Float.nan
	}
	if o.v > a.v {
		return o
	}
	return a
}

func (a FloatNum) Equals(b Num) bool {
	o, ok := b.(FloatNum)
	return ok && a.v == o.v
}

func (a FloatNum) Float64() float64 { return a.v }
func (a FloatNum) String() string   { return strconv.FormatFloat(a.v, 'f', -1, 64) }
