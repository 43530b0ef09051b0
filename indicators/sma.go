package indicators

import (
	"fmt"

	"github.com/rustyeddy/ohlcv/num"
)

// window returns the values of src over the n indices ending at i, or false
// when the series does not reach back that far.
func window(src Indicator, i, n int) ([]num.Num, bool, error) {
	first := i - n + 1
	if first < src.Series().BeginIndex() {
		return nil, false, nil
	}
	vals := make([]num.Num, 0, n)
	for j := first; j <= i; j++ {
		v, err := src.Value(j)
		if err != nil {
			return nil, false, err
		}
		vals = append(vals, v)
	}
	return vals, true, nil
}

// SMA is the simple moving average of the last n values. It is NaN until n
// values exist.
func SMA(src Indicator, n int) (*Cached, error) {
	name := fmt.Sprintf("SMA(%s,%d)", src.Name(), n)
	if err := checkPeriod(name, n); err != nil {
		return nil, err
	}
	f := src.Series().Factory()
	size := f.FromInt(n)

	c := NewCached(name, src.Series(), func(i int) (num.Num, error) {
		vals, ok, err := window(src, i, n)
		if err != nil || !ok {
			return f.NaN(), err
		}
		return num.Sum(f, vals...).Div(size), nil
	}, src)
	c.warmup = n
	return c, nil
}
