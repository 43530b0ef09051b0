// Package journal records bars and indicator values to CSV, SQLite or
// Parquet so a run can be inspected after the fact.
package journal

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Run describes one recording session. Every bar and value written during
// the session carries its ID.
type Run struct {
	ID         string
	Created    time.Time
	Series     string
	Backend    string
	Timeframe  string
	Period     string
	Bars       int
	Indicators []string
	Notes      []string
}

// BarRecord is one bar of a series. Prices are the backend's text form so
// no precision is lost; unset prices read "NaN".
type BarRecord struct {
	RunID  string
	Series string
	Index  int
	Begin  time.Time
	End    time.Time
	Open   string
	High   string
	Low    string
	Close  string
	Volume string
	Amount string
	Trades int64
}

// ValueRecord is one indicator value. Float is NaN when Value is.
type ValueRecord struct {
	RunID     string
	Series    string
	Indicator string
	Index     int
	Time      time.Time
	Value     string
	Float     float64
}

func (v ValueRecord) IsNaN() bool { return math.IsNaN(v.Float) }

type Journal interface {
	RecordRun(Run) error
	RecordBar(BarRecord) error
	RecordValue(ValueRecord) error
	Close() error
}

// Sink types accepted by Open.
const (
	TypeCSV     = "csv"
	TypeSQLite  = "sqlite"
	TypeParquet = "parquet"
)

// Open creates a journal of the given type. CSV and Parquet journals write
// runs, bars and values files into dir; SQLite uses dbPath.
func Open(typ, dir, dbPath string) (Journal, error) {
	switch strings.ToLower(typ) {
	case TypeSQLite:
		if dbPath == "" {
			return nil, fmt.Errorf("journal: sqlite needs a database path")
		}
		return NewSQLite(dbPath)
	case TypeCSV, TypeParquet:
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal: %w", err)
		}
		if strings.EqualFold(typ, TypeCSV) {
			return NewCSV(filepath.Join(dir, "runs.csv"), filepath.Join(dir, "bars.csv"), filepath.Join(dir, "values.csv"))
		}
		return NewParquet(filepath.Join(dir, "runs.parquet"), filepath.Join(dir, "bars.parquet"), filepath.Join(dir, "values.parquet")), nil
	}
	return nil, fmt.Errorf("journal: unknown type %q", typ)
}
