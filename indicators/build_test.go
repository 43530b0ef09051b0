package indicators

import (
	"testing"

	"github.com/rustyeddy/ohlcv/num"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	s := closeSeries(t, num.Float, 1, 2, 3, 4, 5, 6)

	tests := []struct {
		spec  Spec
		names []string
	}{
		{Spec{Type: "price", Source: "high"}, []string{"high"}},
		{Spec{Type: "SMA", Period: 3}, []string{"SMA(close,3)"}},
		{Spec{Type: "ema", Period: 3, Source: "typical"}, []string{"EMA(typical,3)"}},
		{Spec{Type: "mma", Period: 3}, []string{"MMA(close,3)"}},
		{Spec{Type: "gain"}, []string{"Gain(close)"}},
		{Spec{Type: "loss"}, []string{"Loss(close)"}},
		{Spec{Type: "avg_gain", Period: 2}, []string{"AverageGain(close,2)"}},
		{Spec{Type: "avg_loss", Period: 2}, []string{"AverageLoss(close,2)"}},
		{Spec{Type: "rsi", Period: 14}, []string{"RSI(close,14)"}},
		{Spec{Type: "stddev", Period: 3}, []string{"StdDev(close,3)"}},
		{Spec{Type: "bollinger", Period: 3, K: 1.5}, []string{"BBLower(close,3,1.5)", "SMA(close,3)", "BBUpper(close,3,1.5)"}},
		{Spec{Type: "tr"}, []string{"TR"}},
		{Spec{Type: "atr", Period: 3}, []string{"ATR(3)"}},
		{Spec{Type: "plus_di", Period: 3}, []string{"+DI(3)"}},
		{Spec{Type: "minus_di", Period: 3}, []string{"-DI(3)"}},
		{Spec{Type: "adx", Period: 3}, []string{"ADX(3)"}},
	}
	for _, tt := range tests {
		t.Run(tt.spec.Type, func(t *testing.T) {
			inds, err := Build(s, tt.spec)
			require.NoError(t, err)
			var names []string
			for _, ind := range inds {
				names = append(names, ind.Name())
				_, err := ind.Value(5)
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.names, names)
		})
	}
	assert.Len(t, Types, len(tests))
}

func TestBuildErrors(t *testing.T) {
	s := closeSeries(t, num.Float, 1, 2)

	_, err := Build(s, Spec{Type: "macd", Period: 3})
	assert.ErrorContains(t, err, "unknown indicator type")

	_, err = Build(s, Spec{Type: "sma", Source: "median", Period: 3})
	assert.ErrorContains(t, err, "unknown price source")

	_, err = BuildAll(s, []Spec{{Type: "sma", Period: 2}, {Type: "rsi"}})
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	inds, err := BuildAll(s, []Spec{{Type: "sma", Period: 2}, {Type: "bollinger", Period: 2}})
	require.NoError(t, err)
	assert.Len(t, inds, 4)
}
