package indicators

import (
	"fmt"

	"github.com/rustyeddy/ohlcv/num"
)

// smoothed returns prev + (x - prev) * alpha, seeded with the first value of
// the series.
func smoothed(name string, src Indicator, n int, alpha num.Num) *Cached {
	s := src.Series()
	c := newRecursive(name, s, n, src)
	c.calc = func(i int) (num.Num, error) {
		x, err := src.Value(i)
		if err != nil || i == s.BeginIndex() {
			return x, err
		}
		prev, err := c.Value(i - 1)
		if err != nil {
			return nil, err
		}
		return prev.Add(x.Sub(prev).Mul(alpha)), nil
	}
	return c
}

// EMA is the exponential moving average with smoothing factor 2/(n+1).
func EMA(src Indicator, n int) (*Cached, error) {
	name := fmt.Sprintf("EMA(%s,%d)", src.Name(), n)
	if err := checkPeriod(name, n); err != nil {
		return nil, err
	}
	f := src.Series().Factory()
	return smoothed(name, src, n, f.Two().Div(f.FromInt(n+1))), nil
}

// MMA is Wilder's modified moving average with smoothing factor 1/n.
func MMA(src Indicator, n int) (*Cached, error) {
	name := fmt.Sprintf("MMA(%s,%d)", src.Name(), n)
	if err := checkPeriod(name, n); err != nil {
		return nil, err
	}
	f := src.Series().Factory()
	return smoothed(name, src, n, f.One().Div(f.FromInt(n))), nil
}
