package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/ohlcv/market"
	"github.com/rustyeddy/ohlcv/num"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	return j, path
}

// testSeries holds daily bars closing at 1..n.
func testSeries(t *testing.T, f num.Factory, n int) *market.Series {
	t.Helper()
	s := market.New("EURUSD", f)
	for i := range n {
		v := f.FromInt(i + 1)
		require.NoError(t, s.AddOHLCV(day0.Add(time.Duration(i+1)*24*time.Hour), v, v, v, v, f.Ten()))
	}
	return s
}

func testBar(idx int) BarRecord {
	return BarRecord{
		RunID:  "R1",
		Series: "EURUSD",
		Index:  idx,
		Begin:  day0.Add(time.Duration(idx) * 24 * time.Hour),
		End:    day0.Add(time.Duration(idx+1) * 24 * time.Hour),
		Open:   "1.10000",
		High:   "1.20000",
		Low:    "1.00000",
		Close:  "1.15000",
		Volume: "100",
		Amount: "NaN",
		Trades: 7,
	}
}
