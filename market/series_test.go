package market

import (
	"errors"
	"iter"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/rustyeddy/ohlcv/num"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// newSeries returns a series of n daily bars whose prices all equal i+1.
func newSeries(t *testing.T, n int, opts ...Option) *Series {
	t.Helper()
	s := New("test", num.Decimal, opts...)
	for i := 0; i < n; i++ {
		v := num.Decimal.FromInt(i + 1)
		end := t0.Add(time.Duration(i+1) * DefaultPeriod)
		require.NoError(t, s.AddOHLCV(end, v, v, v, v, num.Decimal.One()))
	}
	return s
}

func texts(seq iter.Seq[num.Num]) []string {
	var out []string
	for v := range seq {
		out = append(out, v.String())
	}
	return out
}

func TestEmptySeries(t *testing.T) {
	s := New("empty", nil)
	assert.Same(t, num.Decimal, s.Factory())
	assert.Equal(t, 0, s.BarCount())
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.BeginIndex())
	assert.Equal(t, -1, s.EndIndex())
	assert.Equal(t, "", s.PeriodDescription())
	assert.Equal(t, math.MaxInt, s.MaximumBarCount())

	_, err := s.FirstBar()
	assert.ErrorIs(t, err, ErrEmptySeries)
	_, err = s.LastBar()
	assert.ErrorIs(t, err, ErrEmptySeries)
	assert.Empty(t, texts(s.Closes()))
}

func TestAppendAssignsIndices(t *testing.T) {
	s := newSeries(t, 5, WithCapacity(2))
	assert.Equal(t, 5, s.BarCount())
	assert.Equal(t, 0, s.BeginIndex())
	assert.Equal(t, 4, s.EndIndex())
	assert.Equal(t, 0, s.RemovedBarCount())
	assert.False(t, s.IsWindowed())
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, texts(s.Closes()))
	assert.Equal(t, "test[0:4]", s.String())

	assert.Equal(t, DefaultPeriod, s.Period(2))
	assert.Equal(t, t0.Add(3*DefaultPeriod), s.EndTime(2))
	assert.Equal(t, t0.Add(2*DefaultPeriod), s.BeginTime(2))
	assert.True(t, s.Amount(0).IsZero())
	assert.Equal(t, int64(0), s.Trades(0))
}

func TestWindowEvictsOldest(t *testing.T) {
	s := newSeries(t, 5, WithWindow(3))
	assert.True(t, s.IsWindowed())
	assert.Equal(t, 3, s.MaximumBarCount())
	assert.Equal(t, 3, s.BarCount())
	assert.Equal(t, 2, s.RemovedBarCount())
	assert.Equal(t, 2, s.BeginIndex())
	assert.Equal(t, 4, s.EndIndex())
	assert.Equal(t, []string{"3", "4", "5"}, texts(s.Closes()))
	assert.Equal(t, "5", s.ClosePrice(4).String())

	assert.False(t, s.Contains(1))
	var re *RangeError
	require.ErrorAs(t, s.CheckIndex(1), &re)
	assert.Equal(t, RangeError{Op: "index", Index: 1, Begin: 2, End: 4}, *re)
	assert.Panics(t, func() { s.ClosePrice(1) })
	assert.Panics(t, func() { s.ClosePrice(5) })

	first, err := s.FirstBar()
	require.NoError(t, err)
	assert.Equal(t, 2, first.Index())
	assert.Equal(t, "3", first.OpenPrice().String())
}

func TestMaxBars(t *testing.T) {
	s := newSeries(t, 2, WithMaxBars(2))
	assert.Equal(t, 2, s.MaximumBarCount())
	err := s.AddEmptyBar(time.Hour, t0)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 2, s.BarCount())
}

func TestInsertBarOverwritesOnly(t *testing.T) {
	s := newSeries(t, 3)
	seven := num.Decimal.FromInt(7)
	require.NoError(t, s.InsertBar(1, Bar{End: t0, Close: seven}))
	assert.Equal(t, "7", s.ClosePrice(1).String())
	assert.True(t, s.OpenPrice(1).IsNaN())
	assert.Equal(t, 3, s.BarCount())

	err := s.InsertBar(3, Bar{End: t0, Close: seven})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	var re *RangeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "insert bar", re.Op)
	assert.Equal(t, 3, re.Index)
}

func TestAddBarRejectsOtherBackend(t *testing.T) {
	s := New("fixed", num.Fixed)
	one := num.Float.One()
	err := s.AddOHLCV(t0, one, one, one, one, one)
	assert.ErrorIs(t, err, num.ErrMismatch)
	assert.True(t, s.IsEmpty())

	err = s.AddBars([]Bar{
		{End: t0, Close: num.Fixed.One()},
		{End: t0, Close: num.NewFixedFactory(2).One()},
	})
	assert.ErrorIs(t, err, num.ErrMismatch)
	assert.Equal(t, 1, s.BarCount())
}

func TestEmptyBarIsUnset(t *testing.T) {
	s := New("ticks", num.Float, WithPeriod(time.Minute))
	require.NoError(t, s.AddEmptyBar(0, t0.Add(time.Minute)))
	assert.Equal(t, time.Minute, s.DefaultBarPeriod())
	assert.Equal(t, time.Minute, s.Period(0))
	assert.Equal(t, t0, s.BeginTime(0))
	for _, v := range []num.Num{s.OpenPrice(0), s.HighPrice(0), s.LowPrice(0), s.ClosePrice(0)} {
		assert.True(t, v.IsNaN())
		assert.Equal(t, num.KindFloat, v.Kind())
	}
	assert.True(t, s.Volume(0).IsZero())
	assert.True(t, s.Amount(0).IsZero())
}

func TestColumnSequences(t *testing.T) {
	s := newSeries(t, 4)
	seq := s.Highs()
	assert.Equal(t, texts(seq), texts(seq))

	var got []string
	for v := range s.Lows() {
		got = append(got, v.String())
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"1", "2"}, got)

	assert.Equal(t, []int64{0, 0, 0, 0}, slices.Collect(s.TradeCounts()))
	assert.Len(t, slices.Collect(s.Periods()), 4)
	assert.Equal(t, t0.Add(DefaultPeriod), slices.Collect(s.EndTimes())[0])
	assert.Equal(t, t0, slices.Collect(s.BeginTimes())[0])
	assert.Equal(t, []string{"1", "1", "1", "1"}, texts(s.Volumes()))
	assert.Len(t, texts(s.Opens()), 4)
	assert.Len(t, texts(s.Amounts()), 4)

	var idx []int
	for i, c := range s.All() {
		assert.Equal(t, i, c.Index())
		idx = append(idx, i)
	}
	assert.Equal(t, []int{0, 1, 2, 3}, idx)
}

func TestPeriodDescription(t *testing.T) {
	s := newSeries(t, 2)
	assert.Equal(t, "2024-01-02T00:00:00Z - 2024-01-03T00:00:00Z", s.PeriodDescription())
}
