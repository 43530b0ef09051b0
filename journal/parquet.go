package journal

import (
	"math"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"golang.org/x/sync/errgroup"
)

type runRow struct {
	RunID      string `parquet:"run_id"`
	Created    int64  `parquet:"created"`
	Series     string `parquet:"series"`
	Backend    string `parquet:"backend"`
	Timeframe  string `parquet:"timeframe"`
	Period     string `parquet:"period"`
	Bars       int64  `parquet:"bars"`
	Indicators string `parquet:"indicators"`
	Notes      string `parquet:"notes"`
}

type barRow struct {
	RunID  string `parquet:"run_id"`
	Series string `parquet:"series"`
	Index  int64  `parquet:"index"`
	Begin  int64  `parquet:"begin"`
	End    int64  `parquet:"end"`
	Open   string `parquet:"open"`
	High   string `parquet:"high"`
	Low    string `parquet:"low"`
	Close  string `parquet:"close"`
	Volume string `parquet:"volume"`
	Amount string `parquet:"amount"`
	Trades int64  `parquet:"trades"`
}

type valueRow struct {
	RunID     string   `parquet:"run_id"`
	Series    string   `parquet:"series"`
	Indicator string   `parquet:"indicator"`
	Index     int64    `parquet:"index"`
	Time      int64    `parquet:"time"`
	Value     string   `parquet:"value"`
	Float     *float64 `parquet:"value_f,optional"`
}

// Parquet buffers records and writes one file per record kind on Close.
// Times are stored as Unix milliseconds.
type Parquet struct {
	runsPath, barsPath, valuesPath string

	runs   []runRow
	bars   []barRow
	values []valueRow
}

func NewParquet(runsPath, barsPath, valuesPath string) *Parquet {
	return &Parquet{runsPath: runsPath, barsPath: barsPath, valuesPath: valuesPath}
}

func (j *Parquet) RecordRun(r Run) error {
	j.runs = append(j.runs, runRow{
		RunID:      r.ID,
		Created:    r.Created.UnixMilli(),
		Series:     r.Series,
		Backend:    r.Backend,
		Timeframe:  r.Timeframe,
		Period:     r.Period,
		Bars:       int64(r.Bars),
		Indicators: strings.Join(r.Indicators, ";"),
		Notes:      strings.Join(r.Notes, ";"),
	})
	return nil
}

func (j *Parquet) RecordBar(b BarRecord) error {
	j.bars = append(j.bars, barRow{
		RunID:  b.RunID,
		Series: b.Series,
		Index:  int64(b.Index),
		Begin:  b.Begin.UnixMilli(),
		End:    b.End.UnixMilli(),
		Open:   b.Open,
		High:   b.High,
		Low:    b.Low,
		Close:  b.Close,
		Volume: b.Volume,
		Amount: b.Amount,
		Trades: b.Trades,
	})
	return nil
}

func (j *Parquet) RecordValue(v ValueRecord) error {
	row := valueRow{
		RunID:     v.RunID,
		Series:    v.Series,
		Indicator: v.Indicator,
		Index:     int64(v.Index),
		Time:      v.Time.UnixMilli(),
		Value:     v.Value,
	}
	if !math.IsNaN(v.Float) {
		f := v.Float
		row.Float = &f
	}
	j.values = append(j.values, row)
	return nil
}

// Close writes the three files concurrently. Every file is attempted; the
// first failure is returned.
func (j *Parquet) Close() error {
	var g errgroup.Group
	g.Go(func() error { return parquet.WriteFile(j.runsPath, j.runs) })
	g.Go(func() error { return parquet.WriteFile(j.barsPath, j.bars) })
	g.Go(func() error { return parquet.WriteFile(j.valuesPath, j.values) })
	return g.Wait()
}

// ReadParquetBars loads a bars file written by Parquet.
func ReadParquetBars(path string) ([]BarRecord, error) {
	rows, err := parquet.ReadFile[barRow](path)
	if err != nil {
		return nil, err
	}
	out := make([]BarRecord, len(rows))
	for k, r := range rows {
		out[k] = BarRecord{
			RunID:  r.RunID,
			Series: r.Series,
			Index:  int(r.Index),
			Begin:  time.UnixMilli(r.Begin).UTC(),
			End:    time.UnixMilli(r.End).UTC(),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
			Amount: r.Amount,
			Trades: r.Trades,
		}
	}
	return out, nil
}

// ReadParquetValues loads a values file written by Parquet.
func ReadParquetValues(path string) ([]ValueRecord, error) {
	rows, err := parquet.ReadFile[valueRow](path)
	if err != nil {
		return nil, err
	}
	out := make([]ValueRecord, len(rows))
	for k, r := range rows {
		v := ValueRecord{
			RunID:     r.RunID,
			Series:    r.Series,
			Indicator: r.Indicator,
			Index:     int(r.Index),
			Time:      time.UnixMilli(r.Time).UTC(),
			Value:     r.Value,
			Float:     math.NaN(),
		}
		if r.Float != nil {
			v.Float = *r.Float
		}
		out[k] = v
	}
	return out, nil
}
