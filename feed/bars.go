package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/ohlcv/internal/logger"
	"github.com/rustyeddy/ohlcv/market"
)

// BarHeader is the column layout read by ReadBars and written by WriteBars.
// The time column is the bar end time. Volume is optional on input.
var BarHeader = []string{"time", "open", "high", "low", "close", "volume"}

// LoadBars appends the bars of a CSV file to s. Bars outside [from, to) are
// dropped when the bounds are set.
func LoadBars(path string, s *market.Series, from, to time.Time) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return ReadBars(f, s, from, to)
}

// ReadBars appends bars read from r to s and returns how many were added.
func ReadBars(r io.Reader, s *market.Series, from, to time.Time) (int, error) {
	log := logger.WithComponent("feed")
	cr := newReader(r)
	added, line := 0, 0
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return added, err
		}
		line++
		if line == 1 && isHeader(row) {
			continue
		}
		b, ok, err := parseBarRow(s, row)
		if err != nil {
			return added, fmt.Errorf("row %d: %w", line, err)
		}
		if !ok {
			log.WithField("row", line).Debug("skipping short bar row")
			continue
		}
		if !inRange(b.End, from, to) {
			continue
		}
		if err := s.AddBar(b); err != nil {
			return added, fmt.Errorf("row %d: %w", line, err)
		}
		added++
	}
	log.WithFields(logger.Fields{"series": s.Name(), "bars": added}).Debug("loaded bars")
	return added, nil
}

func parseBarRow(s *market.Series, row []string) (market.Bar, bool, error) {
	if len(row) < 5 || strings.TrimSpace(row[0]) == "" {
		return market.Bar{}, false, nil
	}
	end, err := parseTime(strings.TrimSpace(row[0]))
	if err != nil {
		return market.Bar{}, false, err
	}
	f := s.Factory()
	b := market.Bar{End: end}
	if b.Open, err = parseNum(f, "open", row[1]); err != nil {
		return b, false, err
	}
	if b.High, err = parseNum(f, "high", row[2]); err != nil {
		return b, false, err
	}
	if b.Low, err = parseNum(f, "low", row[3]); err != nil {
		return b, false, err
	}
	if b.Close, err = parseNum(f, "close", row[4]); err != nil {
		return b, false, err
	}
	if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
		if b.Volume, err = parseNum(f, "volume", row[5]); err != nil {
			return b, false, err
		}
	}
	return b, true, nil
}

// WriteBars writes every bar of s in BarHeader layout, plus amount and trade
// count columns.
func WriteBars(w io.Writer, s *market.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, BarHeader...), "amount", "trades")); err != nil {
		return err
	}
	for _, c := range s.All() {
		row := []string{
			c.EndTime().Format(time.RFC3339),
			c.OpenPrice().String(),
			c.HighPrice().String(),
			c.LowPrice().String(),
			c.ClosePrice().String(),
			c.Volume().String(),
			c.Amount().String(),
			strconv.FormatInt(c.Trades(), 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
