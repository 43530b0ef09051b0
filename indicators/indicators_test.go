package indicators

import (
	"testing"

	"github.com/rustyeddy/ohlcv/num"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var factories = []num.Factory{num.Decimal, num.Fixed, num.Float}

func TestSMA(t *testing.T) {
	for _, f := range factories {
		t.Run(f.Name(), func(t *testing.T) {
			s := closeSeries(t, f, 1, 2, 3, 4, 5)
			sma, err := SMA(ClosePrice(s), 3)
			require.NoError(t, err)
			assert.Equal(t, "SMA(close,3)", sma.Name())
			assert.Equal(t, 3, Warmup(sma))

			assert.True(t, mustValue(t, sma, 0).IsNaN())
			assert.True(t, mustValue(t, sma, 1).IsNaN())
			assert.Equal(t, 2.0, mustValue(t, sma, 2).Float64())
			assert.Equal(t, 4.0, mustValue(t, sma, 4).Float64())
			assert.Equal(t, f.Kind(), mustValue(t, sma, 4).Kind())
		})
	}
}

func TestInvalidPeriods(t *testing.T) {
	s := closeSeries(t, num.Float, 1, 2, 3)
	src := ClosePrice(s)
	for name, build := range map[string]func() error{
		"sma":      func() error { _, err := SMA(src, 0); return err },
		"ema":      func() error { _, err := EMA(src, -1); return err },
		"mma":      func() error { _, err := MMA(src, 0); return err },
		"avg_gain": func() error { _, err := AverageGain(src, 0); return err },
		"avg_loss": func() error { _, err := AverageLoss(src, 0); return err },
		"rsi":      func() error { _, err := RSI(src, 0); return err },
		"stddev":   func() error { _, err := StdDev(src, 0); return err },
		"boll":     func() error { _, err := BollingerBands(src, 0, 2); return err },
		"atr":      func() error { _, err := ATR(s, 0); return err },
		"adx":      func() error { _, err := ADX(s, 0); return err },
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, build(), ErrInvalidPeriod)
		})
	}
}

func TestGainLoss(t *testing.T) {
	s := closeSeries(t, num.Float, 5, 7, 4, 4, 6)
	gain, loss := Gain(ClosePrice(s)), Loss(ClosePrice(s))
	wantGain := []float64{0, 2, 0, 0, 2}
	wantLoss := []float64{0, 0, 3, 0, 0}
	for i := range wantGain {
		assert.Equal(t, wantGain[i], mustValue(t, gain, i).Float64(), "gain %d", i)
		assert.Equal(t, wantLoss[i], mustValue(t, loss, i).Float64(), "loss %d", i)
	}

	avg, err := AverageGain(ClosePrice(s), 3)
	require.NoError(t, err)
	// fewer than n bars: divide by what is available
	assert.Equal(t, 1.0, mustValue(t, avg, 1).Float64())
	assert.InDelta(t, 2.0/3.0, mustValue(t, avg, 2).Float64(), 1e-12)
	assert.InDelta(t, 2.0/3.0, mustValue(t, avg, 4).Float64(), 1e-12)
}

func TestRSI(t *testing.T) {
	t.Run("first index is zero", func(t *testing.T) {
		s := closeSeries(t, num.Decimal, 3, 2, 1)
		rsi, err := RSI(ClosePrice(s), 14)
		require.NoError(t, err)
		assert.True(t, mustValue(t, rsi, 0).IsZero())
		assert.Equal(t, "0", mustValue(t, rsi, 2).String())
	})

	t.Run("no losses is 100", func(t *testing.T) {
		s := closeSeries(t, num.Decimal, 1, 2, 3, 4, 5)
		rsi, err := RSI(ClosePrice(s), 3)
		require.NoError(t, err)
		for i := 1; i < 5; i++ {
			assert.Equal(t, "100", mustValue(t, rsi, i).String())
		}
	})

	t.Run("mixed", func(t *testing.T) {
		s := closeSeries(t, num.Float, 1, 2, 1, 2)
		rsi, err := RSI(ClosePrice(s), 3)
		require.NoError(t, err)
		assert.InDelta(t, 100-100.0/3.0, mustValue(t, rsi, 3).Float64(), 1e-9)
		assert.Equal(t, 100.0, mustValue(t, rsi, 1).Float64())
	})

	t.Run("from averages", func(t *testing.T) {
		s := closeSeries(t, num.Float, 1, 2, 1, 2)
		g, err := AverageGain(ClosePrice(s), 3)
		require.NoError(t, err)
		l, err := AverageLoss(ClosePrice(s), 3)
		require.NoError(t, err)
		rsi := RSIFrom(g, l)
		assert.Equal(t, []Indicator{g, l}, rsi.Deps())
		assert.InDelta(t, 66.6667, mustValue(t, rsi, 3).Float64(), 1e-4)
	})
}

func TestStdDevAndBollinger(t *testing.T) {
	for _, f := range factories {
		t.Run(f.Name(), func(t *testing.T) {
			s := closeSeries(t, f, 2, 4, 4, 4, 5, 5, 7, 9)
			sd, err := StdDev(ClosePrice(s), 8)
			require.NoError(t, err)
			assert.True(t, mustValue(t, sd, 6).IsNaN())
			assert.InDelta(t, 2.0, mustValue(t, sd, 7).Float64(), 1e-9)

			bb, err := BollingerBands(ClosePrice(s), 8, 0)
			require.NoError(t, err)
			assert.Equal(t, 2.0, bb.K.Float64())
			assert.InDelta(t, 5.0, mustValue(t, bb.Middle, 7).Float64(), 1e-9)
			assert.InDelta(t, 9.0, mustValue(t, bb.Upper, 7).Float64(), 1e-9)
			assert.InDelta(t, 1.0, mustValue(t, bb.Lower, 7).Float64(), 1e-9)
			assert.True(t, mustValue(t, bb.Upper, 3).IsNaN())
			assert.Equal(t, []Indicator{bb.Lower, bb.Middle, bb.Upper}, bb.Indicators())
		})
	}
}

func TestEMAAndMMA(t *testing.T) {
	s := closeSeries(t, num.Float, 1, 2, 3)
	ema, err := EMA(ClosePrice(s), 3)
	require.NoError(t, err)
	assert.Equal(t, 1.0, mustValue(t, ema, 0).Float64())
	assert.Equal(t, 1.5, mustValue(t, ema, 1).Float64())
	assert.Equal(t, 2.25, mustValue(t, ema, 2).Float64())

	mma, err := MMA(ClosePrice(s), 2)
	require.NoError(t, err)
	assert.Equal(t, 2.25, mustValue(t, mma, 2).Float64())
	assert.Equal(t, 3, mma.Evaluations())
}

func TestTrueRangeAndATR(t *testing.T) {
	s := hlcSeries(t, num.Fixed,
		[3]float64{10, 8, 9},
		[3]float64{11, 9, 10},
		[3]float64{12, 10, 11},
		[3]float64{11, 9, 10},
		[3]float64{12, 10, 11},
		[3]float64{13, 11, 12},
	)
	atr, err := ATR(s, 3)
	require.NoError(t, err)
	assert.Equal(t, "ATR(3)", atr.Name())
	for i := 0; i < 6; i++ {
		assert.Equal(t, "2.00000", mustValue(t, atr, i).String())
	}

	gap := hlcSeries(t, num.Float,
		[3]float64{100, 90, 95},
		[3]float64{110, 100, 105},
	)
	tr := TrueRange(gap)
	assert.Equal(t, 10.0, mustValue(t, tr, 0).Float64())
	assert.Equal(t, 15.0, mustValue(t, tr, 1).Float64())
}

func TestADXTrendingUp(t *testing.T) {
	var bars [][3]float64
	for i := 0; i < 40; i++ {
		x := float64(i)
		bars = append(bars, [3]float64{10 + x, 8 + x, 9 + x})
	}
	s := hlcSeries(t, num.Float, bars...)

	adx, err := ADX(s, 5)
	require.NoError(t, err)
	assert.Equal(t, 10, Warmup(adx))
	pdi, err := PlusDI(s, 5)
	require.NoError(t, err)
	mdi, err := MinusDI(s, 5)
	require.NoError(t, err)

	assert.True(t, mustValue(t, pdi, 39).IsPositive())
	assert.True(t, mustValue(t, mdi, 39).IsZero())
	assert.True(t, mustValue(t, adx, 0).IsZero())
	last := mustValue(t, adx, 39).Float64()
	assert.Greater(t, last, 90.0)
	assert.LessOrEqual(t, last, 100.0)
}

func TestTypicalPriceAndSource(t *testing.T) {
	s := hlcSeries(t, num.Decimal, [3]float64{12, 6, 9})
	assert.Equal(t, "9", mustValue(t, TypicalPrice(s), 0).String())
	assert.Equal(t, 0, Warmup(TypicalPrice(s)))

	for _, name := range []string{"", "close", "open", "high", "low", "volume", "typical"} {
		src, err := Source(s, name)
		require.NoError(t, err, name)
		assert.Nil(t, src.Deps())
		assert.Same(t, s, src.Series())
	}
	_, err := Source(s, "median")
	assert.Error(t, err)
}
