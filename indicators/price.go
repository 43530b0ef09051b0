package indicators

import (
	"fmt"

	"github.com/rustyeddy/ohlcv/market"
	"github.com/rustyeddy/ohlcv/num"
)

// column reads a series field directly. It is not cached; the series already
// holds the values.
type column struct {
	name string
	s    *market.Series
	get  func(i int) num.Num
}

func (c *column) Name() string           { return c.name }
func (c *column) Series() *market.Series { return c.s }
func (c *column) Deps() []Indicator      { return nil }

func (c *column) Value(i int) (num.Num, error) {
	if err := c.s.CheckIndex(i); err != nil {
		return nil, err
	}
	return c.get(i), nil
}

func ClosePrice(s *market.Series) Indicator      { return &column{"close", s, s.ClosePrice} }
func OpenPrice(s *market.Series) Indicator       { return &column{"open", s, s.OpenPrice} }
func HighPrice(s *market.Series) Indicator       { return &column{"high", s, s.HighPrice} }
func LowPrice(s *market.Series) Indicator        { return &column{"low", s, s.LowPrice} }
func VolumeIndicator(s *market.Series) Indicator { return &column{"volume", s, s.Volume} }

// TypicalPrice is (high + low + close) / 3.
func TypicalPrice(s *market.Series) Indicator {
	three := s.Factory().Three()
	return &column{"typical", s, func(i int) num.Num {
		return s.HighPrice(i).Add(s.LowPrice(i)).Add(s.ClosePrice(i)).Div(three)
	}}
}

// Source returns the price column called name: open, high, low, close,
// volume or typical. An empty name selects close.
func Source(s *market.Series, name string) (Indicator, error) {
	switch name {
	case "", "close":
		return ClosePrice(s), nil
	case "open":
		return OpenPrice(s), nil
	case "high":
		return HighPrice(s), nil
	case "low":
		return LowPrice(s), nil
	case "volume":
		return VolumeIndicator(s), nil
	case "typical":
		return TypicalPrice(s), nil
	}
	return nil, fmt.Errorf("unknown price source %q", name)
}
