package feed

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rustyeddy/ohlcv/market"
	"github.com/rustyeddy/ohlcv/num"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tradesCSV = `time,price,volume
2024-01-01T09:00:10Z,10,1
2024-01-01T09:00:20Z,8,2

2024-01-01T09:00:50Z,12,1
2024-01-01T09:01:05Z,11,3
2024-01-01T09:02:00Z,13
2024-01-01T09:03:30Z,9,1
`

func TestParseTradeRow(t *testing.T) {
	tests := []struct {
		name    string
		row     []string
		wantOk  bool
		wantErr bool
	}{
		{"valid", []string{"2024-01-01T09:00:00Z", "1.1000", "5"}, true, false},
		{"nano", []string{"2024-01-01T09:00:00.123456789Z", "1.1", "5"}, true, false},
		{"date time", []string{"2024-01-01 09:00:00", "1.1", "5"}, true, false},
		{"whitespace", []string{" 2024-01-01T09:00:00Z ", " 1.1 ", " 5 "}, true, false},
		{"short", []string{"2024-01-01T09:00:00Z", "1.1"}, false, false},
		{"empty time", []string{"", "1.1", "5"}, false, false},
		{"bad time", []string{"yesterday", "1.1", "5"}, false, true},
		{"bad price", []string{"2024-01-01T09:00:00Z", "abc", "5"}, false, true},
		{"bad volume", []string{"2024-01-01T09:00:00Z", "1.1", "x"}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, ok, err := parseTradeRow(num.Decimal, tt.row)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOk, ok)
			if ok {
				assert.Equal(t, 2024, tr.Time.Year())
				assert.Equal(t, 1.1, tr.Price.Float64())
			}
		})
	}
}

func TestTradesFeed(t *testing.T) {
	feed := NewTrades(strings.NewReader(tradesCSV), num.Decimal, time.Time{}, time.Time{})
	var prices []string
	for {
		tr, ok, err := feed.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		prices = append(prices, tr.Price.String())
	}
	assert.Equal(t, []string{"10", "8", "12", "11", "9"}, prices)
	assert.Equal(t, 1, feed.Skipped())
	assert.NoError(t, feed.Close())
}

func TestTradesFeedRange(t *testing.T) {
	from := time.Date(2024, 1, 1, 9, 0, 20, 0, time.UTC)
	to := time.Date(2024, 1, 1, 9, 1, 5, 0, time.UTC)
	feed := NewTrades(strings.NewReader(tradesCSV), num.Float, from, to)

	var got []float64
	for {
		tr, ok, err := feed.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, tr.Price.Float64())
	}
	assert.Equal(t, []float64{8, 12}, got)
}

func TestAggregateTrades(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "trades.csv")
	require.NoError(t, os.WriteFile(path, []byte(tradesCSV), 0o644))

	feed, err := OpenTrades(path, num.Decimal, time.Time{}, time.Time{})
	require.NoError(t, err)
	defer feed.Close()

	s := market.New("trades", num.Decimal)
	n, err := AggregateTrades(feed, s, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.Equal(t, 3, s.BarCount())

	first, err := s.FirstBar()
	require.NoError(t, err)
	assert.Equal(t, "10", first.OpenPrice().String())
	assert.Equal(t, "12", first.HighPrice().String())
	assert.Equal(t, "8", first.LowPrice().String())
	assert.Equal(t, "12", first.ClosePrice().String())
	assert.Equal(t, "4", first.Volume().String())
	assert.Equal(t, "38", first.Amount().String())
	assert.Equal(t, int64(3), first.Trades())
	assert.Equal(t, time.Date(2024, 1, 1, 9, 1, 0, 0, time.UTC), first.EndTime())

	last, err := s.LastBar()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 4, 0, 0, time.UTC), last.EndTime())
}

func TestAggregateTradesOutOfOrder(t *testing.T) {
	in := "2024-01-01T09:05:00Z,1,1\n2024-01-01T09:01:00Z,1,1\n"
	feed := NewTrades(strings.NewReader(in), num.Float, time.Time{}, time.Time{})
	s := market.New("trades", num.Float)
	n, err := AggregateTrades(feed, s, time.Minute)
	assert.ErrorIs(t, err, market.ErrOutOfOrder)
	assert.Equal(t, 1, n)
}

func TestOpenTradesMissingFile(t *testing.T) {
	_, err := OpenTrades(filepath.Join(t.TempDir(), "nope.csv"), num.Float, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

const barsCSV = `time,open,high,low,close,volume
2024-01-02,1.10,1.20,1.00,1.15,100
2024-01-03,1.15,1.25,1.10,1.20
2024-01-04,1.20,1.30
2024-01-05,1.20,1.30,1.15,1.25,50
`

func TestReadBars(t *testing.T) {
	s := market.New("EURUSD", num.Fixed)
	n, err := ReadBars(strings.NewReader(barsCSV), s, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, s.BarCount())

	assert.Equal(t, "1.15000", s.ClosePrice(0).String())
	assert.True(t, s.Volume(1).IsZero())
	assert.Equal(t, 50.0, s.Volume(2).Float64())
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), s.BeginTime(2))
}

func TestReadBarsRangeAndErrors(t *testing.T) {
	s := market.New("EURUSD", num.Decimal)
	from := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	n, err := ReadBars(strings.NewReader(barsCSV), s, from, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = ReadBars(strings.NewReader("2024-01-02,1,2,x,1\n"), market.New("bad", num.Decimal), time.Time{}, time.Time{})
	assert.ErrorContains(t, err, "row 1")

	full := market.New("full", num.Decimal, market.WithMaxBars(1))
	n, err = ReadBars(strings.NewReader(barsCSV), full, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, market.ErrCapacityExceeded)
	assert.Equal(t, 1, n)
}

func TestWriteBarsRoundTrip(t *testing.T) {
	t.Parallel()
	src := market.New("EURUSD", num.Decimal)
	_, err := ReadBars(strings.NewReader(barsCSV), src, time.Time{}, time.Time{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteBars(&buf, src))
	assert.True(t, strings.HasPrefix(buf.String(), "time,open,high,low,close,volume,amount,trades\n"))

	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	dst := market.New("copy", num.Decimal)
	n, err := LoadBars(path, dst, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, src.BarCount(), n)
	for i := range n {
		assert.True(t, src.ClosePrice(i).IsEqual(dst.ClosePrice(i)))
		assert.Equal(t, src.EndTime(i), dst.EndTime(i))
	}
}
