package journal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// GetRun returns a single run by ID.
func (j *SQLite) GetRun(runID string) (Run, error) {
	row := j.db.QueryRow(`
		SELECT run_id, created, series, backend, timeframe, period, bars, indicators, notes
		FROM runs
		WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %q not found", runID)
	}
	return r, err
}

// ListRuns returns every run, oldest first.
func (j *SQLite) ListRuns() ([]Run, error) {
	rows, err := j.db.Query(`
		SELECT run_id, created, series, backend, timeframe, period, bars, indicators, notes
		FROM runs
		ORDER BY created ASC, run_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		r           Run
		inds, notes string
	)
	if err := s.Scan(&r.ID, &r.Created, &r.Series, &r.Backend, &r.Timeframe, &r.Period, &r.Bars, &inds, &notes); err != nil {
		return Run{}, err
	}
	if err := json.Unmarshal([]byte(inds), &r.Indicators); err != nil {
		return Run{}, fmt.Errorf("run %s indicators: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(notes), &r.Notes); err != nil {
		return Run{}, fmt.Errorf("run %s notes: %w", r.ID, err)
	}
	return r, nil
}

// ListBars returns the bars of one series recorded in a run, by index.
func (j *SQLite) ListBars(runID, series string) ([]BarRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, series, idx, begin_time, end_time, open, high, low, close, volume, amount, trades
		FROM bars
		WHERE run_id = ? AND series = ?
		ORDER BY idx ASC`, runID, series)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BarRecord
	for rows.Next() {
		var b BarRecord
		if err := rows.Scan(
			&b.RunID,
			&b.Series,
			&b.Index,
			&b.Begin,
			&b.End,
			&b.Open,
			&b.High,
			&b.Low,
			&b.Close,
			&b.Volume,
			&b.Amount,
			&b.Trades,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListValues returns every value of one indicator recorded in a run.
func (j *SQLite) ListValues(runID, indicator string) ([]ValueRecord, error) {
	return j.queryValues(`
		SELECT run_id, series, indicator, idx, time, value, value_f
		FROM indicator_values
		WHERE run_id = ? AND indicator = ?
		ORDER BY idx ASC`, runID, indicator)
}

// ListValuesBetween returns values whose bar time is within [start, end).
func (j *SQLite) ListValuesBetween(runID, indicator string, start, end time.Time) ([]ValueRecord, error) {
	return j.queryValues(`
		SELECT run_id, series, indicator, idx, time, value, value_f
		FROM indicator_values
		WHERE run_id = ? AND indicator = ? AND time >= ? AND time < ?
		ORDER BY idx ASC`, runID, indicator, start.UTC(), end.UTC())
}

func (j *SQLite) queryValues(query string, args ...any) ([]ValueRecord, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ValueRecord
	for rows.Next() {
		var (
			v ValueRecord
			f sql.NullFloat64
		)
		if err := rows.Scan(&v.RunID, &v.Series, &v.Indicator, &v.Index, &v.Time, &v.Value, &f); err != nil {
			return nil, err
		}
		v.Float = math.NaN()
		if f.Valid {
			v.Float = f.Float64
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
