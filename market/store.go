package market

import (
	"time"

	"github.com/rustyeddy/ohlcv/num"
)

// columns holds one slice per bar field. All slices always have the same
// length. A nil price means unset.
type columns struct {
	begin  []time.Time
	end    []time.Time
	period []time.Duration
	open   []num.Num
	high   []num.Num
	low    []num.Num
	close  []num.Num
	volume []num.Num
	amount []num.Num
	trades []int64
}

// newColumns allocates n slots up front when ring is set, otherwise an empty
// set with capacity n.
func newColumns(n int, ring bool) columns {
	l := 0
	if ring {
		l = n
	}
	return columns{
		begin:  make([]time.Time, l, n),
		end:    make([]time.Time, l, n),
		period: make([]time.Duration, l, n),
		open:   make([]num.Num, l, n),
		high:   make([]num.Num, l, n),
		low:    make([]num.Num, l, n),
		close:  make([]num.Num, l, n),
		volume: make([]num.Num, l, n),
		amount: make([]num.Num, l, n),
		trades: make([]int64, l, n),
	}
}

// grow appends one zeroed slot to every column.
func (c *columns) grow() {
	c.begin = append(c.begin, time.Time{})
	c.end = append(c.end, time.Time{})
	c.period = append(c.period, 0)
	c.open = append(c.open, nil)
	c.high = append(c.high, nil)
	c.low = append(c.low, nil)
	c.close = append(c.close, nil)
	c.volume = append(c.volume, nil)
	c.amount = append(c.amount, nil)
	c.trades = append(c.trades, 0)
}

func (c *columns) set(k int, b Bar) {
	c.begin[k] = b.Begin()
	c.end[k] = b.End
	c.period[k] = b.Period
	c.open[k] = b.Open
	c.high[k] = b.High
	c.low[k] = b.Low
	c.close[k] = b.Close
	c.volume[k] = b.Volume
	c.amount[k] = b.Amount
	c.trades[k] = b.Trades
}
