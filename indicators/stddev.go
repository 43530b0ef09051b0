package indicators

import (
	"fmt"

	"github.com/rustyeddy/ohlcv/num"
)

// StdDev is the population standard deviation of the last n values. It is NaN
// until n values exist.
func StdDev(src Indicator, n int) (*Cached, error) {
	mean, err := SMA(src, n)
	if err != nil {
		return nil, err
	}
	return stdDev(src, mean, n), nil
}

func stdDev(src Indicator, mean *Cached, n int) *Cached {
	f := src.Series().Factory()
	size := f.FromInt(n)
	c := NewCached(fmt.Sprintf("StdDev(%s,%d)", src.Name(), n), src.Series(), func(i int) (num.Num, error) {
		m, err := mean.Value(i)
		if err != nil || m.IsNaN() {
			return f.NaN(), err
		}
		vals, ok, err := window(src, i, n)
		if err != nil || !ok {
			return f.NaN(), err
		}
		sum := f.Zero()
		for _, v := range vals {
			sum = sum.Add(v.Sub(m).Pow(2))
		}
		return sum.Div(size).Sqrt(), nil
	}, src, mean)
	c.warmup = n
	return c
}
