package indicators

import (
	"fmt"

	"github.com/rustyeddy/ohlcv/num"
)

// RSI is the relative strength index over n bars, computed from simple
// averages of gains and losses rather than Wilder smoothing.
func RSI(src Indicator, n int) (*Cached, error) {
	gain, err := AverageGain(src, n)
	if err != nil {
		return nil, err
	}
	loss, err := AverageLoss(src, n)
	if err != nil {
		return nil, err
	}
	c := RSIFrom(gain, loss)
	c.name = fmt.Sprintf("RSI(%s,%d)", src.Name(), n)
	c.warmup = n
	return c, nil
}

// RSIFrom builds an RSI from precomputed average gain and loss indicators.
// It is 0 at the first index and 100 while the average loss is zero.
func RSIFrom(gain, loss Indicator) *Cached {
	s := gain.Series()
	f := s.Factory()
	name := fmt.Sprintf("RSI(%s,%s)", gain.Name(), loss.Name())
	return NewCached(name, s, func(i int) (num.Num, error) {
		if i == s.BeginIndex() {
			return f.Zero(), nil
		}
		l, err := loss.Value(i)
		if err != nil {
			return nil, err
		}
		if l.IsZero() {
			return f.Hundred(), nil
		}
		g, err := gain.Value(i)
		if err != nil {
			return nil, err
		}
		rs := g.Div(l)
		return f.Hundred().Sub(f.Hundred().Div(f.One().Add(rs))), nil
	}, gain, loss)
}
