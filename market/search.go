package market

import (
	"sort"
	"time"
)

// Bound lookups assume begin and end times are non-decreasing across the
// series. Lower bounds return the first index whose time is at or after t,
// or EndIndex()+1 when there is none. Upper bounds return the last index whose
// time is at or before t, or BeginIndex()-1 when there is none. For a run of
// equal times the two bracket the run.

func (s *Series) LowerBoundBegin(t time.Time) int { return s.lowerBound(s.cols.begin, t) }
func (s *Series) UpperBoundBegin(t time.Time) int { return s.upperBound(s.cols.begin, t) }
func (s *Series) LowerBoundEnd(t time.Time) int   { return s.lowerBound(s.cols.end, t) }
func (s *Series) UpperBoundEnd(t time.Time) int   { return s.upperBound(s.cols.end, t) }

func (s *Series) lowerBound(col []time.Time, t time.Time) int {
	b := s.BeginIndex()
	return b + sort.Search(s.count, func(k int) bool {
		return !col[s.slot(b+k)].Before(t)
	})
}

func (s *Series) upperBound(col []time.Time, t time.Time) int {
	b := s.BeginIndex()
	return b + sort.Search(s.count, func(k int) bool {
		return col[s.slot(b+k)].After(t)
	}) - 1
}

// Between returns the inclusive index range of bars whose end time lies in
// [from, to]. The range is empty (first > last) when no bar matches.
func (s *Series) Between(from, to time.Time) (first, last int) {
	return s.LowerBoundEnd(from), s.UpperBoundEnd(to)
}
