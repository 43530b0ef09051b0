package journal

import (
	"testing"

	"github.com/rustyeddy/ohlcv/indicators"
	"github.com/rustyeddy/ohlcv/market"
	"github.com/rustyeddy/ohlcv/num"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSeriesAndIndicator(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	s := testSeries(t, num.Fixed, 5)
	n, err := RecordSeries(j, "R1", s)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	bars, err := j.ListBars("R1", "EURUSD")
	require.NoError(t, err)
	require.Len(t, bars, 5)
	assert.Equal(t, "3.00000", bars[2].Close)
	assert.Equal(t, "0.00000", bars[2].Amount)

	sma, err := indicators.SMA(indicators.ClosePrice(s), 3)
	require.NoError(t, err)
	n, err = RecordIndicator(j, "R1", sma, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	vals, err := j.ListValues("R1", "SMA(close,3)")
	require.NoError(t, err)
	require.Len(t, vals, 5)
	assert.True(t, vals[1].IsNaN())
	assert.Equal(t, "NaN", vals[1].Value)
	assert.Equal(t, "4.00000", vals[4].Value)
	assert.True(t, vals[4].Time.Equal(s.EndTime(4)))

	_, err = RecordIndicator(j, "R1", sma, 3, 5)
	var re *market.RangeError
	assert.ErrorAs(t, err, &re)
}

func TestRecordGraph(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	s := testSeries(t, num.Float, 6)
	inds, err := indicators.BuildAll(s, []indicators.Spec{{Type: "sma", Period: 2}, {Type: "ema", Period: 2}})
	require.NoError(t, err)
	g, err := indicators.NewGraph(inds...)
	require.NoError(t, err)

	n, err := RecordGraph(j, "R1", g, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	sma, err := j.ListValues("R1", "SMA(close,2)")
	require.NoError(t, err)
	require.Len(t, sma, 5)
	assert.Equal(t, 1.5, sma[0].Float)
	assert.Equal(t, 5.5, sma[4].Float)
}

func TestNewBarRecordUnsetPrices(t *testing.T) {
	s := market.New("BTC", num.Decimal)
	require.NoError(t, s.AddEmptyBar(0, day0))
	c, err := s.LastBar()
	require.NoError(t, err)

	rec := NewBarRecord("R9", c)
	assert.Equal(t, "NaN", rec.Open)
	assert.Equal(t, "0", rec.Volume)
	assert.Equal(t, int64(0), rec.Trades)
	assert.Equal(t, day0.Add(-market.DefaultPeriod), rec.Begin)
}
