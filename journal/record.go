package journal

import (
	"fmt"

	"github.com/rustyeddy/ohlcv/indicators"
	"github.com/rustyeddy/ohlcv/market"
	"github.com/rustyeddy/ohlcv/num"
)

// NewBarRecord copies the bar under c.
func NewBarRecord(runID string, c *market.Cursor) BarRecord {
	return BarRecord{
		RunID:  runID,
		Series: c.Series().Name(),
		Index:  c.Index(),
		Begin:  c.BeginTime(),
		End:    c.EndTime(),
		Open:   c.OpenPrice().String(),
		High:   c.HighPrice().String(),
		Low:    c.LowPrice().String(),
		Close:  c.ClosePrice().String(),
		Volume: c.Volume().String(),
		Amount: c.Amount().String(),
		Trades: c.Trades(),
	}
}

// NewValueRecord records v as the value of ind at index i.
func NewValueRecord(runID string, ind indicators.Indicator, i int, v num.Num) ValueRecord {
	s := ind.Series()
	return ValueRecord{
		RunID:     runID,
		Series:    s.Name(),
		Indicator: ind.Name(),
		Index:     i,
		Time:      s.EndTime(i),
		Value:     v.String(),
		Float:     v.Float64(),
	}
}

// RecordSeries writes every bar of s and returns the count written.
func RecordSeries(j Journal, runID string, s *market.Series) (int, error) {
	n := 0
	for _, c := range s.All() {
		if err := j.RecordBar(NewBarRecord(runID, c)); err != nil {
			return n, fmt.Errorf("record bar %d of %s: %w", c.Index(), s.Name(), err)
		}
		n++
	}
	return n, nil
}

// RecordIndicator writes the values of ind over [from, to].
func RecordIndicator(j Journal, runID string, ind indicators.Indicator, from, to int) (int, error) {
	n := 0
	for i := from; i <= to; i++ {
		v, err := ind.Value(i)
		if err != nil {
			return n, err
		}
		if err := j.RecordValue(NewValueRecord(runID, ind, i, v)); err != nil {
			return n, fmt.Errorf("record %s at %d: %w", ind.Name(), i, err)
		}
		n++
	}
	return n, nil
}

// RecordGraph evaluates g over [from, to] and writes the value of every
// root at every index.
func RecordGraph(j Journal, runID string, g *indicators.Graph, from, to int) (int, error) {
	n := 0
	roots := g.Roots()
	err := g.EvaluateRange(from, to, func(i int, vals []num.Num) error {
		for k, v := range vals {
			if err := j.RecordValue(NewValueRecord(runID, roots[k], i, v)); err != nil {
				return fmt.Errorf("record %s at %d: %w", roots[k].Name(), i, err)
			}
			n++
		}
		return nil
	})
	return n, err
}
