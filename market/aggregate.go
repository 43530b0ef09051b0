package market

import (
	"fmt"
	"time"
)

// bucketStart floors t to a multiple of period counted from the Unix epoch.
func bucketStart(t time.Time, period time.Duration) time.Time {
	ns, tf := t.UnixNano(), int64(period)
	start := (ns / tf) * tf
	if ns < 0 && start != ns {
		start -= tf
	}
	return time.Unix(0, start).UTC()
}

// Aggregator routes time-stamped trades into bars of a fixed period. A trade
// in a later bucket opens a new empty bar; a trade in an earlier bucket than
// the open bar is rejected with ErrOutOfOrder.
type Aggregator struct {
	s      *Series
	period time.Duration
	cur    *Cursor
	bucket time.Time
	opened int
}

// NewAggregator aggregates into s. A zero period selects the series default.
func NewAggregator(s *Series, period time.Duration) (*Aggregator, error) {
	if period == 0 {
		period = s.DefaultBarPeriod()
	}
	if period < 0 {
		return nil, fmt.Errorf("aggregator: %w: %s", ErrInvalidTimeframe, period)
	}
	return &Aggregator{s: s, period: period}, nil
}

func (a *Aggregator) Period() time.Duration { return a.period }

// Opened is the number of bars this aggregator has appended.
func (a *Aggregator) Opened() int { return a.opened }

func (a *Aggregator) Add(t Trade) error {
	b := bucketStart(t.Time, a.period)
	if a.cur != nil && b.Before(a.bucket) {
		return fmt.Errorf("%w: %s is before bar %s", ErrOutOfOrder,
			t.Time.Format(time.RFC3339Nano), a.bucket.Format(time.RFC3339))
	}
	if a.cur == nil || b.After(a.bucket) {
		if err := a.s.AddEmptyBar(a.period, b.Add(a.period)); err != nil {
			return err
		}
		a.bucket = b
		a.opened++
		if a.cur == nil {
			c, err := a.s.Cursor(a.s.EndIndex())
			if err != nil {
				return err
			}
			a.cur = c
		} else if err := a.cur.Seek(a.s.EndIndex()); err != nil {
			return err
		}
	}
	return a.cur.AddTrade(t.Volume, t.Price)
}

// Resample builds a series of period-long bars from src. Source bars are
// bucketed by begin time; a bucket becomes a bar only when at least minBars
// source bars fall into it.
func Resample(src *Series, period time.Duration, minBars int) (*Series, error) {
	if period <= 0 {
		return nil, fmt.Errorf("resample: %w: %s", ErrInvalidTimeframe, period)
	}
	if minBars < 1 {
		minBars = 1
	}
	name := src.Name()
	if tf, err := FormatTimeframe(period); err == nil {
		name += " " + tf
	}
	dst := New(name, src.Factory(), WithPeriod(period), WithCapacity(src.BarCount()+1))

	var (
		acc    Bar
		bucket time.Time
		n      int
	)
	flush := func() error {
		if n < minBars {
			return nil
		}
		return dst.AddBar(acc)
	}

	for _, c := range src.All() {
		b := bucketStart(c.BeginTime(), period)
		if n > 0 && b.Before(bucket) {
			return nil, fmt.Errorf("resample bar %d: %w", c.Index(), ErrOutOfOrder)
		}
		if n > 0 && b.After(bucket) {
			if err := flush(); err != nil {
				return nil, err
			}
			n = 0
		}
		if n == 0 {
			bucket = b
			acc = c.Bar()
			acc.Period = period
			acc.End = b.Add(period)
			n = 1
			continue
		}
		if h := c.HighPrice(); acc.High == nil || h.IsGreaterThan(acc.High) {
			acc.High = h
		}
		if l := c.LowPrice(); acc.Low == nil || l.IsLessThan(acc.Low) {
			acc.Low = l
		}
		acc.Close = c.ClosePrice()
		acc.Volume = acc.Volume.Add(c.Volume())
		acc.Amount = acc.Amount.Add(c.Amount())
		acc.Trades += c.Trades()
		n++
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return dst, nil
}
