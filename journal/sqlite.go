package journal

import (
	"database/sql"
	"encoding/json"
	"math"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r Run) error {
	inds, err := json.Marshal(r.Indicators)
	if err != nil {
		return err
	}
	notes, err := json.Marshal(r.Notes)
	if err != nil {
		return err
	}
	_, err = j.db.Exec(`
		INSERT OR REPLACE INTO runs
		(run_id, created, series, backend, timeframe, period, bars, indicators, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Created.UTC(), r.Series, r.Backend, r.Timeframe, r.Period, r.Bars,
		string(inds), string(notes),
	)
	return err
}

func (j *SQLite) RecordBar(b BarRecord) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO bars
		(run_id, series, idx, begin_time, end_time, open, high, low, close, volume, amount, trades)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.RunID, b.Series, b.Index, b.Begin.UTC(), b.End.UTC(),
		b.Open, b.High, b.Low, b.Close, b.Volume, b.Amount, b.Trades,
	)
	return err
}

// RecordValue stores NaN values with a NULL value_f.
func (j *SQLite) RecordValue(v ValueRecord) error {
	f := sql.NullFloat64{Float64: v.Float, Valid: !math.IsNaN(v.Float)}
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO indicator_values
		(run_id, series, indicator, idx, time, value, value_f)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.RunID, v.Series, v.Indicator, v.Index, v.Time.UTC(), v.Value, f,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
