package market

import (
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/ohlcv/num"
)

const (
	DefaultCapacity = 64
	DefaultPeriod   = 24 * time.Hour
)

// Series is a columnar OHLCV bar store. Indices are absolute: the first bar
// ever added has index 0 and keeps it, so after a windowed series evicts k
// bars its BeginIndex is k.
//
// A Series has a single writer. Readers, cursors and iterators must not run
// concurrently with writes.
type Series struct {
	name    string
	factory num.Factory
	period  time.Duration

	window   bool
	capacity int
	maxBars  int

	removed int
	count   int
	cols    columns
}

type Option func(*Series)

// WithCapacity sets the initial column capacity of a growing series.
func WithCapacity(n int) Option {
	return func(s *Series) {
		if n > 0 && !s.window {
			s.capacity = n
		}
	}
}

// WithWindow keeps at most n bars, evicting the oldest on append.
func WithWindow(n int) Option {
	return func(s *Series) {
		if n > 0 {
			s.window = true
			s.capacity = n
		}
	}
}

// WithMaxBars makes AddBar fail with ErrCapacityExceeded once a growing series
// holds n bars. It has no effect on a windowed series.
func WithMaxBars(n int) Option {
	return func(s *Series) {
		if n > 0 {
			s.maxBars = n
		}
	}
}

// WithPeriod sets the period used for bars added without one.
func WithPeriod(d time.Duration) Option {
	return func(s *Series) {
		if d > 0 {
			s.period = d
		}
	}
}

// New returns an empty series whose values come from f. A nil factory selects
// num.Decimal.
func New(name string, f num.Factory, opts ...Option) *Series {
	if f == nil {
		f = num.Decimal
	}
	s := &Series{
		name:     name,
		factory:  f,
		period:   DefaultPeriod,
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cols = newColumns(s.capacity, s.window)
	return s
}

func (s *Series) Name() string         { return s.name }
func (s *Series) Factory() num.Factory { return s.factory }
func (s *Series) IsWindowed() bool     { return s.window }
func (s *Series) BarCount() int        { return s.count }
func (s *Series) IsEmpty() bool        { return s.count == 0 }
func (s *Series) RemovedBarCount() int { return s.removed }
func (s *Series) BeginIndex() int      { return s.removed }
func (s *Series) EndIndex() int        { return s.removed + s.count - 1 }

// DefaultBarPeriod is the period given to bars added without one.
func (s *Series) DefaultBarPeriod() time.Duration { return s.period }

// Contains reports whether i is in [BeginIndex, EndIndex].
func (s *Series) Contains(i int) bool { return i >= s.BeginIndex() && i <= s.EndIndex() }

func (s *Series) String() string {
	return fmt.Sprintf("%s[%d:%d]", s.name, s.BeginIndex(), s.EndIndex())
}

func (s *Series) valid(v num.Num) error { return num.Check(s.factory.Zero(), v) }

// MaximumBarCount is the window size, the hard bar limit, or math.MaxInt for
// an unbounded series.
func (s *Series) MaximumBarCount() int {
	switch {
	case s.window:
		return s.capacity
	case s.maxBars > 0:
		return s.maxBars
	}
	return math.MaxInt
}

// CheckIndex returns a *RangeError when i is outside [BeginIndex, EndIndex].
func (s *Series) CheckIndex(i int) error {
	return s.checkIndex("index", i)
}

func (s *Series) checkIndex(op string, i int) error {
	if !s.Contains(i) {
		return &RangeError{Op: op, Index: i, Begin: s.BeginIndex(), End: s.EndIndex()}
	}
	return nil
}

func (s *Series) slot(i int) int {
	if s.window {
		return i % s.capacity
	}
	return i
}

// at maps an absolute index to its storage slot, panicking like slice
// indexing when i is out of range.
func (s *Series) at(op string, i int) int {
	if err := s.checkIndex(op, i); err != nil {
		panic(err)
	}
	return s.slot(i)
}

// push reserves the next absolute index, evicting the oldest bar of a full
// window.
func (s *Series) push() (int, error) {
	if s.window {
		if s.count == s.capacity {
			s.removed++
			s.count--
		}
	} else {
		if s.maxBars > 0 && s.count >= s.maxBars {
			return 0, ErrCapacityExceeded
		}
		s.cols.grow()
	}
	s.count++
	return s.EndIndex(), nil
}

func (s *Series) normalize(b Bar) (Bar, error) {
	for _, v := range b.values() {
		if v == nil {
			continue
		}
		if err := s.valid(v); err != nil {
			return b, err
		}
	}
	if b.Period <= 0 {
		b.Period = s.period
	}
	if b.Volume == nil {
		b.Volume = s.factory.Zero()
	}
	if b.Amount == nil {
		b.Amount = s.factory.Zero()
	}
	return b, nil
}

// AddBar appends b at EndIndex()+1.
func (s *Series) AddBar(b Bar) error {
	b, err := s.normalize(b)
	if err != nil {
		return fmt.Errorf("add bar to %s: %w", s.name, err)
	}
	i, err := s.push()
	if err != nil {
		return fmt.Errorf("add bar to %s: %w", s.name, err)
	}
	s.cols.set(s.slot(i), b)
	return nil
}

// AddBars appends bars in order, stopping at the first failure.
func (s *Series) AddBars(bars []Bar) error {
	for _, b := range bars {
		if err := s.AddBar(b); err != nil {
			return err
		}
	}
	return nil
}

// AddOHLCV appends a bar of the default period ending at end.
func (s *Series) AddOHLCV(end time.Time, open, high, low, close, volume num.Num) error {
	return s.AddBar(Bar{
		End:    end,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: volume,
	})
}

// AddEmptyBar appends a bar with unset prices, zero volume and amount, ready
// to receive trades through a cursor.
func (s *Series) AddEmptyBar(period time.Duration, end time.Time) error {
	return s.AddBar(Bar{Period: period, End: end})
}

// InsertBar overwrites the bar at an existing index pos. Indicator values
// already cached for pos or later are not invalidated.
func (s *Series) InsertBar(pos int, b Bar) error {
	if err := s.checkIndex("insert bar", pos); err != nil {
		return err
	}
	b, err := s.normalize(b)
	if err != nil {
		return fmt.Errorf("insert bar into %s: %w", s.name, err)
	}
	s.cols.set(s.slot(pos), b)
	return nil
}

// PeriodDescription formats the end times of the first and last bars.
func (s *Series) PeriodDescription() string {
	if s.IsEmpty() {
		return ""
	}
	first := s.EndTime(s.BeginIndex()).Format(time.RFC3339)
	last := s.EndTime(s.EndIndex()).Format(time.RFC3339)
	return first + " - " + last
}

func (s *Series) price(col []num.Num, op string, i int) num.Num {
	v := col[s.at(op, i)]
	if v == nil {
		return s.factory.NaN()
	}
	return v
}

// Column accessors take an absolute index and panic when it is out of range.
// Unset prices read as the factory's NaN.

func (s *Series) OpenPrice(i int) num.Num  { return s.price(s.cols.open, "open price", i) }
func (s *Series) HighPrice(i int) num.Num  { return s.price(s.cols.high, "high price", i) }
func (s *Series) LowPrice(i int) num.Num   { return s.price(s.cols.low, "low price", i) }
func (s *Series) ClosePrice(i int) num.Num { return s.price(s.cols.close, "close price", i) }
func (s *Series) Volume(i int) num.Num     { return s.price(s.cols.volume, "volume", i) }
func (s *Series) Amount(i int) num.Num     { return s.price(s.cols.amount, "amount", i) }

func (s *Series) Trades(i int) int64         { return s.cols.trades[s.at("trades", i)] }
func (s *Series) Period(i int) time.Duration { return s.cols.period[s.at("period", i)] }
func (s *Series) BeginTime(i int) time.Time  { return s.cols.begin[s.at("begin time", i)] }
func (s *Series) EndTime(i int) time.Time    { return s.cols.end[s.at("end time", i)] }
