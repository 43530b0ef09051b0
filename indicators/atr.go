package indicators

import (
	"fmt"

	"github.com/rustyeddy/ohlcv/market"
	"github.com/rustyeddy/ohlcv/num"
)

// TrueRange is the largest of high-low, |high-prev close| and |low-prev
// close|. At the first index it is high-low.
func TrueRange(s *market.Series) *Cached {
	return NewCached("TR", s, func(i int) (num.Num, error) {
		hl := s.HighPrice(i).Sub(s.LowPrice(i))
		if i == s.BeginIndex() {
			return hl, nil
		}
		prev := s.ClosePrice(i - 1)
		hc := s.HighPrice(i).Sub(prev).Abs()
		lc := s.LowPrice(i).Sub(prev).Abs()
		return hl.Max(hc).Max(lc), nil
	})
}

// ATR is the average true range: a Wilder MMA of TrueRange over n bars.
func ATR(s *market.Series, n int) (*Cached, error) {
	c, err := MMA(TrueRange(s), n)
	if err != nil {
		return nil, err
	}
	c.name = fmt.Sprintf("ATR(%d)", n)
	return c, nil
}
