package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	runHeader   = []string{"run_id", "created", "series", "backend", "timeframe", "period", "bars", "indicators", "notes"}
	barHeader   = []string{"run_id", "series", "index", "begin", "end", "open", "high", "low", "close", "volume", "amount", "trades"}
	valueHeader = []string{"run_id", "series", "indicator", "index", "time", "value"}
)

type CSVJournal struct {
	runs, bars, values *csv.Writer
	files              []*os.File
}

func NewCSV(runsPath, barsPath, valuesPath string) (*CSVJournal, error) {
	j := &CSVJournal{}
	open := func(path string, header []string) (*csv.Writer, error) {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		j.files = append(j.files, f)
		w := csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			return nil, err
		}
		w.Flush()
		return w, w.Error()
	}

	var err error
	if j.runs, err = open(runsPath, runHeader); err != nil {
		j.closeFiles()
		return nil, err
	}
	if j.bars, err = open(barsPath, barHeader); err != nil {
		j.closeFiles()
		return nil, err
	}
	if j.values, err = open(valuesPath, valueHeader); err != nil {
		j.closeFiles()
		return nil, err
	}
	return j, nil
}

func (j *CSVJournal) RecordRun(r Run) error {
	return j.runs.Write([]string{
		r.ID,
		r.Created.UTC().Format(time.RFC3339),
		r.Series,
		r.Backend,
		r.Timeframe,
		r.Period,
		strconv.Itoa(r.Bars),
		strings.Join(r.Indicators, ";"),
		strings.Join(r.Notes, ";"),
	})
}

func (j *CSVJournal) RecordBar(b BarRecord) error {
	return j.bars.Write([]string{
		b.RunID,
		b.Series,
		strconv.Itoa(b.Index),
		b.Begin.UTC().Format(time.RFC3339),
		b.End.UTC().Format(time.RFC3339),
		b.Open,
		b.High,
		b.Low,
		b.Close,
		b.Volume,
		b.Amount,
		strconv.FormatInt(b.Trades, 10),
	})
}

func (j *CSVJournal) RecordValue(v ValueRecord) error {
	return j.values.Write([]string{
		v.RunID,
		v.Series,
		v.Indicator,
		strconv.Itoa(v.Index),
		v.Time.UTC().Format(time.RFC3339),
		v.Value,
	})
}

func (j *CSVJournal) Close() error {
	for _, w := range []*csv.Writer{j.runs, j.bars, j.values} {
		w.Flush()
		if err := w.Error(); err != nil {
			j.closeFiles()
			return err
		}
	}
	return j.closeFiles()
}

func (j *CSVJournal) closeFiles() error {
	var first error
	for _, f := range j.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	j.files = nil
	return first
}
