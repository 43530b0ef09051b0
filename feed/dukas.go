package feed

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz/lzma"

	"github.com/rustyeddy/ohlcv/internal/logger"
	"github.com/rustyeddy/ohlcv/market"
	"github.com/rustyeddy/ohlcv/num"
)

// Bi5RecordSize is the size of one decompressed Dukascopy tick record.
const Bi5RecordSize = 20

// Tick is one Dukascopy quote. Ask and Bid are integer points; the price is
// points / 10^digits of the instrument (5 for EURUSD, 3 for USDJPY).
type Tick struct {
	Time   time.Time
	Ask    uint32
	Bid    uint32
	AskVol float32
	BidVol float32
}

// DecodeBi5 reads big-endian tick records from an already decompressed
// stream. Record times are millisecond offsets from hour.
func DecodeBi5(r io.Reader, hour time.Time) ([]Tick, error) {
	var (
		ticks []Tick
		buf   [Bi5RecordSize]byte
	)
	for {
		_, err := io.ReadFull(r, buf[:])
		if errors.Is(err, io.EOF) {
			return ticks, nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return ticks, fmt.Errorf("bi5: truncated record %d", len(ticks))
		}
		if err != nil {
			return ticks, fmt.Errorf("bi5: %w", err)
		}
		be := binary.BigEndian
		ticks = append(ticks, Tick{
			Time:   hour.Add(time.Duration(be.Uint32(buf[0:4])) * time.Millisecond),
			Ask:    be.Uint32(buf[4:8]),
			Bid:    be.Uint32(buf[8:12]),
			AskVol: math.Float32frombits(be.Uint32(buf[12:16])),
			BidVol: math.Float32frombits(be.Uint32(buf[16:20])),
		})
	}
}

// ReadBi5 decompresses an LZMA bi5 stream and decodes its ticks.
func ReadBi5(r io.Reader, hour time.Time) ([]Tick, error) {
	zr, err := lzma.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("bi5: %w", err)
	}
	return DecodeBi5(zr, hour)
}

// Bi5Hour reads the hour from a Dukascopy path ending in
// YYYY/MM/DD/HHh_ticks.bi5. MM is zero-based, as Dukascopy stores it.
func Bi5Hour(path string) (time.Time, error) {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) < 4 {
		return time.Time{}, fmt.Errorf("bi5 path %q: want YYYY/MM/DD/HHh_ticks.bi5", path)
	}
	parts = parts[len(parts)-4:]
	parts[3] = strings.TrimSuffix(parts[3], "h_ticks.bi5")

	var v [4]int
	for k, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("bi5 path %q: %w", path, err)
		}
		v[k] = n
	}
	year, month0, day, hour := v[0], v[1], v[2], v[3]
	if month0 < 0 || month0 > 11 || day < 1 || day > 31 || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("bi5 path %q: date out of range", path)
	}
	return time.Date(year, time.Month(month0+1), day, hour, 0, 0, 0, time.UTC), nil
}

// TickFeed replays ticks as trades at the mid price with the combined ask and
// bid volume. Ticks outside [from, to) are dropped when the bounds are set.
type TickFeed struct {
	ticks []Tick
	f     num.Factory
	two   num.Num // 2 * 10^digits
	from  time.Time
	to    time.Time
	pos   int
}

// OpenTicks reads one bi5 file. A zero hour is taken from the path. Empty
// files are valid: Dukascopy serves them for hours without quotes.
func OpenTicks(path string, hour time.Time, f num.Factory, digits int, from, to time.Time) (*TickFeed, error) {
	if hour.IsZero() {
		h, err := Bi5Hour(path)
		if err != nil {
			return nil, err
		}
		hour = h
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	st, err := file.Stat()
	if err != nil {
		return nil, err
	}
	var ticks []Tick
	if st.Size() > 0 {
		if ticks, err = ReadBi5(file, hour); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	logger.WithComponent("feed").WithFields(logger.Fields{
		"path":  path,
		"hour":  hour.Format(time.RFC3339),
		"ticks": len(ticks),
	}).Debug("decoded bi5")
	return NewTickFeed(ticks, f, digits, from, to), nil
}

// NewTickFeed replays ticks whose prices have the given number of decimal
// digits. A negative count selects 5; a nil factory selects num.Decimal.
func NewTickFeed(ticks []Tick, f num.Factory, digits int, from, to time.Time) *TickFeed {
	if f == nil {
		f = num.Decimal
	}
	if digits < 0 {
		digits = num.DefaultFixedDigits
	}
	scale := int64(2)
	for range digits {
		scale *= 10
	}
	return &TickFeed{ticks: ticks, f: f, two: f.FromInt64(scale), from: from, to: to}
}

func (t *TickFeed) Len() int { return len(t.ticks) }

func (t *TickFeed) Next() (market.Trade, bool, error) {
	for t.pos < len(t.ticks) {
		tk := t.ticks[t.pos]
		t.pos++
		if !inRange(tk.Time, t.from, t.to) {
			continue
		}
		return t.trade(tk), true, nil
	}
	return market.Trade{}, false, nil
}

func (t *TickFeed) trade(tk Tick) market.Trade {
	sum := t.f.FromInt64(int64(tk.Ask) + int64(tk.Bid))
	return market.Trade{
		Time:   tk.Time,
		Price:  sum.Div(t.two),
		Volume: t.f.FromFloat(float32Value(tk.AskVol + tk.BidVol)),
	}
}

// float32Value widens v without the binary noise a plain conversion adds
// (1.23 stays 1.23, not 1.2300000190734863).
func float32Value(v float32) float64 {
	x, _ := strconv.ParseFloat(strconv.FormatFloat(float64(v), 'f', -1, 32), 64)
	return x
}
