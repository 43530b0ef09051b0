package indicators

import (
	"testing"

	"github.com/rustyeddy/ohlcv/num"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func position(order []Indicator, ind Indicator) int {
	for k, o := range order {
		if o == ind {
			return k
		}
	}
	return -1
}

func TestGraphOrdersDependenciesFirst(t *testing.T) {
	s := closeSeries(t, num.Float, 1, 2, 1, 2, 3)
	rsi, err := RSI(ClosePrice(s), 3)
	require.NoError(t, err)
	sma, err := SMA(rsi, 2)
	require.NoError(t, err)

	g, err := NewGraph(sma, rsi)
	require.NoError(t, err)
	order := g.Order()
	// close, gain, avg gain, loss, avg loss, rsi, sma
	assert.Len(t, order, 7)
	for _, ind := range order {
		for _, d := range ind.Deps() {
			assert.Less(t, position(order, d), position(order, ind), "%s before %s", d.Name(), ind.Name())
		}
	}
	assert.Equal(t, []Indicator{sma, rsi}, g.Roots())
}

func TestGraphEvaluatesSharedDepsOnce(t *testing.T) {
	s := closeSeries(t, num.Decimal, 1, 2, 3, 4, 5)
	src := newCounting(s)
	sma, err := SMA(src, 2)
	require.NoError(t, err)
	sd := stdDev(src, sma, 2)
	ema, err := EMA(sma, 2)
	require.NoError(t, err)

	g, err := NewGraph(sd, ema)
	require.NoError(t, err)

	var got [][]num.Num
	err = g.EvaluateRange(1, 4, func(i int, vals []num.Num) error {
		got = append(got, vals)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.InDelta(t, 0.5, got[3][0].Float64(), 1e-9)
	// the EMA seed reads the SMA at index 0
	assert.Equal(t, 5, sma.Evaluations())
	assert.Equal(t, 4, sd.Evaluations())

	vals, err := g.Evaluate(4)
	require.NoError(t, err)
	assert.True(t, got[3][0].Equals(vals[0]))
	assert.Equal(t, 5, sma.Evaluations())
	assert.Equal(t, 4, sd.Evaluations())

	_, err = g.Evaluate(5)
	assert.Error(t, err)
	assert.NoError(t, g.EvaluateRange(0, 4, nil))
}

func TestGraphRejectsCycles(t *testing.T) {
	s := closeSeries(t, num.Float, 1)
	a, b := newCounting(s), newCounting(s)
	a.deps = []Indicator{b}
	b.deps = []Indicator{a}

	_, err := NewGraph(a)
	assert.ErrorIs(t, err, ErrCycle)

	self := newCounting(s)
	self.deps = []Indicator{self}
	_, err = NewGraph(self)
	assert.ErrorIs(t, err, ErrCycle)
}
