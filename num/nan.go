package num

import "math"

// NaN is the not-a-number value of one backend. It absorbs arithmetic and is
// unordered: every predicate and comparison reports false. Combining it with
// a value of another backend still panics.
type NaN struct {
	f Factory
}

func (NaN) sealed() {}

func (n NaN) Kind() Kind       { return n.f.Kind() }
func (n NaN) Factory() Factory { return n.f }

func (n NaN) check(b Num) {
	if err := Check(n, b); err != nil {
		panic(err)
	}
}

func (n NaN) Add(b Num) Num { n.check(b); return n }
func (n NaN) Sub(b Num) Num { n.check(b); return n }
func (n NaN) Mul(b Num) Num { n.check(b); return n }
func (n NaN) Div(b Num) Num { n.check(b); return n }
func (n NaN) Rem(b Num) Num { n.check(b); return n }
func (n NaN) Pow(int) Num   { return n }
func (n NaN) Log() Num      { return n }
func (n NaN) Sqrt() Num     { return n }
func (n NaN) Abs() Num      { return n }
func (n NaN) Neg() Num      { return n }

func (n NaN) IsNaN() bool            { return true }
func (n NaN) IsZero() bool           { return false }
func (n NaN) IsPositive() bool       { return false }
func (n NaN) IsPositiveOrZero() bool { return false }
func (n NaN) IsNegative() bool       { return false }
func (n NaN) IsNegativeOrZero() bool { return false }

func (n NaN) IsEqual(b Num) bool              { n.check(b); return false }
func (n NaN) IsGreaterThan(b Num) bool        { n.check(b); return false }
func (n NaN) IsGreaterThanOrEqual(b Num) bool { n.check(b); return false }
func (n NaN) IsLessThan(b Num) bool           { n.check(b); return false }
func (n NaN) IsLessThanOrEqual(b Num) bool    { n.check(b); return false }

func (n NaN) Min(b Num) Num { n.check(b); return n }
func (n NaN) Max(b Num) Num { n.check(b); return n }

func (n NaN) Equals(b Num) bool {
	o, ok := b.(NaN)
	return ok && compatible(n.f, o.f)
}

func (n NaN) Float64() float64 { return math.NaN() }
func (n NaN) String() string   { return "NaN" }
