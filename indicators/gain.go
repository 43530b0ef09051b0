package indicators

import (
	"fmt"

	"github.com/rustyeddy/ohlcv/num"
)

// delta is src(i) - src(i-1), zero at the first index of the series.
func delta(src Indicator, i int) (num.Num, error) {
	f := src.Series().Factory()
	if i <= src.Series().BeginIndex() {
		return f.Zero(), nil
	}
	cur, err := src.Value(i)
	if err != nil {
		return nil, err
	}
	prev, err := src.Value(i - 1)
	if err != nil {
		return nil, err
	}
	return cur.Sub(prev), nil
}

// Gain is the positive part of the change from the previous bar.
func Gain(src Indicator) *Cached {
	zero := src.Series().Factory().Zero()
	return NewCached(fmt.Sprintf("Gain(%s)", src.Name()), src.Series(), func(i int) (num.Num, error) {
		d, err := delta(src, i)
		if err != nil || !d.IsPositive() {
			return zero, err
		}
		return d, nil
	}, src)
}

// Loss is the magnitude of the negative part of the change from the previous
// bar.
func Loss(src Indicator) *Cached {
	zero := src.Series().Factory().Zero()
	return NewCached(fmt.Sprintf("Loss(%s)", src.Name()), src.Series(), func(i int) (num.Num, error) {
		d, err := delta(src, i)
		if err != nil || !d.IsNegative() {
			return zero, err
		}
		return d.Neg(), nil
	}, src)
}

// average sums part over the last n indices and divides by the number of
// indices actually available, at most n.
func average(name string, part Indicator, n int) *Cached {
	s := part.Series()
	f := s.Factory()
	c := NewCached(name, s, func(i int) (num.Num, error) {
		first := max(i-n+1, s.BeginIndex())
		sum := f.Zero()
		for j := first; j <= i; j++ {
			v, err := part.Value(j)
			if err != nil {
				return nil, err
			}
			sum = sum.Add(v)
		}
		return sum.Div(f.FromInt(i - first + 1)), nil
	}, part)
	c.warmup = n
	return c
}

// AverageGain averages Gain over the last n bars.
func AverageGain(src Indicator, n int) (*Cached, error) {
	name := fmt.Sprintf("AverageGain(%s,%d)", src.Name(), n)
	if err := checkPeriod(name, n); err != nil {
		return nil, err
	}
	return average(name, Gain(src), n), nil
}

// AverageLoss averages Loss over the last n bars.
func AverageLoss(src Indicator, n int) (*Cached, error) {
	name := fmt.Sprintf("AverageLoss(%s,%d)", src.Name(), n)
	if err := checkPeriod(name, n); err != nil {
		return nil, err
	}
	return average(name, Loss(src), n), nil
}
