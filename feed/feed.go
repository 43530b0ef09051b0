// Package feed reads bars and trades from CSV, and ticks from Dukascopy bi5
// files, into a market.Series.
package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/ohlcv/internal/logger"
	"github.com/rustyeddy/ohlcv/market"
	"github.com/rustyeddy/ohlcv/num"
)

var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	var first error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if first == nil {
			first = err
		}
	}
	return time.Time{}, fmt.Errorf("bad time %q: %w", s, first)
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "time")
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

func parseNum(f num.Factory, field, s string) (num.Num, error) {
	v, err := f.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("bad %s %q: %w", field, s, err)
	}
	return v, nil
}

// CSVTradesFeed reads trade rows:
//
//	time,price,volume
//
// where time is RFC3339, RFC3339Nano, "2006-01-02 15:04:05" or a date. An
// optional header row and short rows are skipped. Trades outside [from, to)
// are dropped when the bounds are set.
type CSVTradesFeed struct {
	c    io.Closer
	r    *csv.Reader
	f    num.Factory
	from time.Time
	to   time.Time
	log  *logger.Entry

	row      int
	skipped  int
	sawFirst bool
}

// OpenTrades opens a trade CSV file. Values are parsed with f.
func OpenTrades(path string, f num.Factory, from, to time.Time) (*CSVTradesFeed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	feed := NewTrades(file, f, from, to)
	feed.c = file
	return feed, nil
}

// NewTrades reads trades from r.
func NewTrades(r io.Reader, f num.Factory, from, to time.Time) *CSVTradesFeed {
	if f == nil {
		f = num.Decimal
	}
	return &CSVTradesFeed{
		r:    newReader(r),
		f:    f,
		from: from,
		to:   to,
		log:  logger.WithComponent("feed"),
	}
}

func (t *CSVTradesFeed) Close() error {
	if t.c != nil {
		return t.c.Close()
	}
	return nil
}

// Skipped counts rows ignored for being short or blank.
func (t *CSVTradesFeed) Skipped() int { return t.skipped }

// Next returns the next trade in range. ok is false at end of input.
func (t *CSVTradesFeed) Next() (market.Trade, bool, error) {
	for {
		row, err := t.r.Read()
		if errors.Is(err, io.EOF) {
			return market.Trade{}, false, nil
		}
		if err != nil {
			return market.Trade{}, false, err
		}
		t.row++

		if !t.sawFirst {
			t.sawFirst = true
			if isHeader(row) {
				continue
			}
		}

		tr, ok, err := parseTradeRow(t.f, row)
		if err != nil {
			return market.Trade{}, false, fmt.Errorf("row %d: %w", t.row, err)
		}
		if !ok {
			t.skipped++
			t.log.WithField("row", t.row).Debug("skipping short trade row")
			continue
		}
		if !inRange(tr.Time, t.from, t.to) {
			continue
		}
		return tr, true, nil
	}
}

func parseTradeRow(f num.Factory, row []string) (market.Trade, bool, error) {
	if len(row) < 3 {
		return market.Trade{}, false, nil
	}
	ts := strings.TrimSpace(row[0])
	if ts == "" {
		return market.Trade{}, false, nil
	}
	at, err := parseTime(ts)
	if err != nil {
		return market.Trade{}, false, err
	}
	price, err := parseNum(f, "price", row[1])
	if err != nil {
		return market.Trade{}, false, err
	}
	volume, err := parseNum(f, "volume", row[2])
	if err != nil {
		return market.Trade{}, false, err
	}
	return market.Trade{Time: at, Price: price, Volume: volume}, true, nil
}

// TradeSource yields trades in time order. ok is false at end of input.
type TradeSource interface {
	Next() (tr market.Trade, ok bool, err error)
}

// Chain reads each source to its end in turn.
func Chain(srcs ...TradeSource) TradeSource { return &chain{srcs: srcs} }

type chain struct {
	srcs []TradeSource
}

func (c *chain) Next() (market.Trade, bool, error) {
	for len(c.srcs) > 0 {
		tr, ok, err := c.srcs[0].Next()
		if err != nil || ok {
			return tr, ok, err
		}
		c.srcs = c.srcs[1:]
	}
	return market.Trade{}, false, nil
}

// AggregateTrades drains feed into s through an aggregator of the given
// period and returns the number of trades consumed.
func AggregateTrades(feed TradeSource, s *market.Series, period time.Duration) (int, error) {
	agg, err := market.NewAggregator(s, period)
	if err != nil {
		return 0, err
	}
	n := 0
	for {
		tr, ok, err := feed.Next()
		if err != nil {
			return n, err
		}
		if !ok {
			return n, nil
		}
		if err := agg.Add(tr); err != nil {
			return n, fmt.Errorf("trade at %s: %w", tr.Time.Format(time.RFC3339), err)
		}
		n++
	}
}
