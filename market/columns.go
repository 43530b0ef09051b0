package market

import (
	"iter"
	"time"

	"github.com/rustyeddy/ohlcv/num"
)

// Column sequences walk [BeginIndex, EndIndex] as of each call. Ranging over
// the same sequence again starts from the beginning.

func (s *Series) Opens() iter.Seq[num.Num]   { return column(s, s.OpenPrice) }
func (s *Series) Highs() iter.Seq[num.Num]   { return column(s, s.HighPrice) }
func (s *Series) Lows() iter.Seq[num.Num]    { return column(s, s.LowPrice) }
func (s *Series) Closes() iter.Seq[num.Num]  { return column(s, s.ClosePrice) }
func (s *Series) Volumes() iter.Seq[num.Num] { return column(s, s.Volume) }
func (s *Series) Amounts() iter.Seq[num.Num] { return column(s, s.Amount) }

func (s *Series) TradeCounts() iter.Seq[int64]     { return column(s, s.Trades) }
func (s *Series) Periods() iter.Seq[time.Duration] { return column(s, s.Period) }
func (s *Series) BeginTimes() iter.Seq[time.Time]  { return column(s, s.BeginTime) }
func (s *Series) EndTimes() iter.Seq[time.Time]    { return column(s, s.EndTime) }

func column[T any](s *Series, get func(int) T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := s.BeginIndex(); i <= s.EndIndex(); i++ {
			if !yield(get(i)) {
				return
			}
		}
	}
}

// All yields every index with a single cursor that is moved along; do not
// keep the cursor past the current step.
func (s *Series) All() iter.Seq2[int, *Cursor] {
	return func(yield func(int, *Cursor) bool) {
		c := &Cursor{view{s: s}}
		for i := s.BeginIndex(); i <= s.EndIndex(); i++ {
			c.i = i
			if !yield(i, c) {
				return
			}
		}
	}
}
