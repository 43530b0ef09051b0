package indicators

import (
	"testing"
	"time"

	"github.com/rustyeddy/ohlcv/market"
	"github.com/rustyeddy/ohlcv/num"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(i int) time.Time { return t0.Add(time.Duration(i+1) * 24 * time.Hour) }

// closeSeries holds one bar per close, with open, high and low equal to it.
func closeSeries(t *testing.T, f num.Factory, closes ...float64) *market.Series {
	t.Helper()
	s := market.New("test", f)
	for i, c := range closes {
		v := f.FromFloat(c)
		require.NoError(t, s.AddOHLCV(at(i), v, v, v, v, f.One()))
	}
	return s
}

// hlcSeries holds bars built from high, low, close triples.
func hlcSeries(t *testing.T, f num.Factory, bars ...[3]float64) *market.Series {
	t.Helper()
	s := market.New("hlc", f)
	for i, b := range bars {
		h, l, c := f.FromFloat(b[0]), f.FromFloat(b[1]), f.FromFloat(b[2])
		require.NoError(t, s.AddOHLCV(at(i), c, h, l, c, f.One()))
	}
	return s
}

// counting wraps the close column and counts reads per index.
type counting struct {
	s     *market.Series
	calls map[int]int
	deps  []Indicator
}

func newCounting(s *market.Series) *counting {
	return &counting{s: s, calls: make(map[int]int)}
}

func (c *counting) Name() string           { return "counting" }
func (c *counting) Series() *market.Series { return c.s }
func (c *counting) Deps() []Indicator      { return c.deps }

func (c *counting) Value(i int) (num.Num, error) {
	if err := c.s.CheckIndex(i); err != nil {
		return nil, err
	}
	c.calls[i]++
	return c.s.ClosePrice(i), nil
}

func (c *counting) total() int {
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

func mustValue(t *testing.T, ind Indicator, i int) num.Num {
	t.Helper()
	v, err := ind.Value(i)
	require.NoError(t, err)
	return v
}
