package market

import (
	"fmt"
	"time"

	"github.com/rustyeddy/ohlcv/num"
)

// view reads and writes the bar at one absolute index. It holds no data of
// its own.
type view struct {
	s *Series
	i int
}

func (v *view) Index() int            { return v.i }
func (v *view) Series() *Series       { return v.s }
func (v *view) OpenPrice() num.Num    { return v.s.OpenPrice(v.i) }
func (v *view) HighPrice() num.Num    { return v.s.HighPrice(v.i) }
func (v *view) LowPrice() num.Num     { return v.s.LowPrice(v.i) }
func (v *view) ClosePrice() num.Num   { return v.s.ClosePrice(v.i) }
func (v *view) Volume() num.Num       { return v.s.Volume(v.i) }
func (v *view) Amount() num.Num       { return v.s.Amount(v.i) }
func (v *view) Trades() int64         { return v.s.Trades(v.i) }
func (v *view) Period() time.Duration { return v.s.Period(v.i) }
func (v *view) BeginTime() time.Time  { return v.s.BeginTime(v.i) }
func (v *view) EndTime() time.Time    { return v.s.EndTime(v.i) }

// Bar copies the current bar out of the columns.
func (v *view) Bar() Bar {
	k := v.s.at("bar", v.i)
	c := &v.s.cols
	return Bar{
		Period: c.period[k],
		End:    c.end[k],
		Open:   c.open[k],
		High:   c.high[k],
		Low:    c.low[k],
		Close:  c.close[k],
		Volume: c.volume[k],
		Amount: c.amount[k],
		Trades: c.trades[k],
	}
}

func (v *view) setNum(col []num.Num, op string, x num.Num) error {
	k := v.s.at(op, v.i)
	if err := v.s.valid(x); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	col[k] = x
	return nil
}

func (v *view) SetOpenPrice(x num.Num) error  { return v.setNum(v.s.cols.open, "set open price", x) }
func (v *view) SetHighPrice(x num.Num) error  { return v.setNum(v.s.cols.high, "set high price", x) }
func (v *view) SetLowPrice(x num.Num) error   { return v.setNum(v.s.cols.low, "set low price", x) }
func (v *view) SetClosePrice(x num.Num) error { return v.setNum(v.s.cols.close, "set close price", x) }
func (v *view) SetVolume(x num.Num) error     { return v.setNum(v.s.cols.volume, "set volume", x) }
func (v *view) SetAmount(x num.Num) error     { return v.setNum(v.s.cols.amount, "set amount", x) }

func (v *view) SetTrades(n int64) {
	v.s.cols.trades[v.s.at("set trades", v.i)] = n
}

// AddTrade folds one trade into the current bar: the first trade sets open,
// high and low, every trade sets close, widens high and low, and adds to
// volume, amount and the trade count.
func (v *view) AddTrade(volume, price num.Num) error {
	k := v.s.at("add trade", v.i)
	for _, x := range []num.Num{volume, price} {
		if err := v.s.valid(x); err != nil {
			return fmt.Errorf("add trade: %w", err)
		}
	}
	c := &v.s.cols
	if c.open[k] == nil {
		c.open[k] = price
	}
	c.close[k] = price
	if c.high[k] == nil || c.high[k].IsLessThan(price) {
		c.high[k] = price
	}
	if c.low[k] == nil || c.low[k].IsGreaterThan(price) {
		c.low[k] = price
	}
	c.volume[k] = c.volume[k].Add(volume)
	c.amount[k] = c.amount[k].Add(volume.Mul(price))
	c.trades[k]++
	return nil
}

// AddTradeString parses volume and price with the series factory.
func (v *view) AddTradeString(volume, price string) error {
	f := v.s.factory
	vol, err := f.Parse(volume)
	if err != nil {
		return fmt.Errorf("add trade: volume: %w", err)
	}
	px, err := f.Parse(price)
	if err != nil {
		return fmt.Errorf("add trade: price: %w", err)
	}
	return v.AddTrade(vol, px)
}

func (v *view) AddTradeFloat(volume, price float64) error {
	f := v.s.factory
	return v.AddTrade(f.FromFloat(volume), f.FromFloat(price))
}

// Cursor is a repositionable view of one bar.
type Cursor struct {
	view
}

// Cursor returns a cursor positioned at i.
func (s *Series) Cursor(i int) (*Cursor, error) {
	if err := s.checkIndex("cursor", i); err != nil {
		return nil, err
	}
	return &Cursor{view{s: s, i: i}}, nil
}

// Bar is an alias for Cursor.
func (s *Series) Bar(i int) (*Cursor, error) {
	return s.Cursor(i)
}

func (s *Series) FirstBar() (*Cursor, error) {
	if s.IsEmpty() {
		return nil, fmt.Errorf("first bar of %s: %w", s.name, ErrEmptySeries)
	}
	return s.Cursor(s.BeginIndex())
}

func (s *Series) LastBar() (*Cursor, error) {
	if s.IsEmpty() {
		return nil, fmt.Errorf("last bar of %s: %w", s.name, ErrEmptySeries)
	}
	return s.Cursor(s.EndIndex())
}

// Seek moves the cursor to i. On error the position is unchanged.
func (c *Cursor) Seek(i int) error {
	if err := c.s.checkIndex("seek", i); err != nil {
		return err
	}
	c.i = i
	return nil
}
