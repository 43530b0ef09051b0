package market

import (
	"errors"
	"fmt"
)

// Iterator walks forward once over [start, end]. It starts one position
// before start, so Next must be called before the first read.
type Iterator struct {
	view
	end int
}

// Iterator returns an iterator over [start, end]. Both bounds must lie in
// the series unless the range is empty.
func (s *Series) Iterator(start, end int) (*Iterator, error) {
	if start <= end {
		if err := s.checkIndex("iterator start", start); err != nil {
			return nil, err
		}
		if err := s.checkIndex("iterator end", end); err != nil {
			return nil, err
		}
	}
	return &Iterator{view: view{s: s, i: start - 1}, end: end}, nil
}

// Bars iterates over every bar currently in the series.
func (s *Series) Bars() *Iterator {
	return &Iterator{view: view{s: s, i: s.BeginIndex() - 1}, end: s.EndIndex()}
}

func (it *Iterator) HasNext() bool { return it.i < it.end }

// Next advances one bar and reports whether it moved.
func (it *Iterator) Next() bool {
	if !it.HasNext() {
		return false
	}
	it.i++
	return true
}

// Remove is not supported by columnar storage.
func (it *Iterator) Remove() error {
	return fmt.Errorf("remove bar %d: %w", it.i, errors.ErrUnsupported)
}
