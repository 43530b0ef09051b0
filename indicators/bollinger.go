package indicators

import (
	"fmt"

	"github.com/rustyeddy/ohlcv/num"
)

const DefaultBollingerK = 2.0

// Bollinger holds the three bands. Middle is the SMA; Upper and Lower are
// offset from it by K standard deviations.
type Bollinger struct {
	Middle *Cached
	Upper  *Cached
	Lower  *Cached
	StdDev *Cached
	K      num.Num
}

// BollingerBands builds the bands over n bars. A k of zero or less selects
// DefaultBollingerK.
func BollingerBands(src Indicator, n int, k float64) (*Bollinger, error) {
	if k <= 0 {
		k = DefaultBollingerK
	}
	mid, err := SMA(src, n)
	if err != nil {
		return nil, err
	}
	s := src.Series()
	f := s.Factory()
	b := &Bollinger{
		Middle: mid,
		StdDev: stdDev(src, mid, n),
		K:      f.FromFloat(k),
	}
	band := func(name string, sign func(m, off num.Num) num.Num) *Cached {
		c := NewCached(fmt.Sprintf("%s(%s,%d,%g)", name, src.Name(), n, k), s, func(i int) (num.Num, error) {
			m, err := mid.Value(i)
			if err != nil {
				return nil, err
			}
			sd, err := b.StdDev.Value(i)
			if err != nil {
				return nil, err
			}
			return sign(m, sd.Mul(b.K)), nil
		}, mid, b.StdDev)
		c.warmup = n
		return c
	}
	b.Upper = band("BBUpper", num.Num.Add)
	b.Lower = band("BBLower", num.Num.Sub)
	return b, nil
}

// Indicators returns the bands in lower, middle, upper order.
func (b *Bollinger) Indicators() []Indicator {
	return []Indicator{b.Lower, b.Middle, b.Upper}
}
