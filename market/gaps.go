package market

import "time"

type GapKind string

const (
	GapMinor      GapKind = "minor"
	GapWeekend    GapKind = "weekend"
	GapSuspicious GapKind = "suspicious"
)

// Gap is a stretch of time between two consecutive bars with no bar
// covering it.
type Gap struct {
	Index   int // first bar after the gap
	Start   time.Time
	End     time.Time
	Missing int // whole bar periods missing
	Kind    GapKind
}

type GapStats struct {
	Bars        int
	Gaps        int
	Missing     int
	Weekend     int
	Suspicious  int
	Longest     int
	LongestKind GapKind
}

// FindGaps reports every place where a bar begins after the previous bar
// ended by at least one full period.
func FindGaps(s *Series) []Gap {
	var gaps []Gap
	for i := s.BeginIndex() + 1; i <= s.EndIndex(); i++ {
		prev, begin := s.EndTime(i-1), s.BeginTime(i)
		period := s.Period(i)
		span := begin.Sub(prev)
		if period <= 0 || span < period {
			continue
		}
		gaps = append(gaps, Gap{
			Index:   i,
			Start:   prev,
			End:     begin,
			Missing: int(span / period),
			Kind:    classifyGap(prev, span, period),
		})
	}
	return gaps
}

func classifyGap(start time.Time, span, period time.Duration) GapKind {
	if span >= 24*time.Hour {
		switch start.UTC().Weekday() {
		case time.Friday, time.Saturday, time.Sunday:
			return GapWeekend
		}
		return GapSuspicious
	}
	if span >= 10*period {
		return GapSuspicious
	}
	return GapMinor
}

// Stats summarizes the gaps of s.
func Stats(s *Series) GapStats {
	st := GapStats{Bars: s.BarCount()}
	for _, g := range FindGaps(s) {
		st.Gaps++
		st.Missing += g.Missing
		if g.Missing > st.Longest {
			st.Longest = g.Missing
			st.LongestKind = g.Kind
		}
		switch g.Kind {
		case GapWeekend:
			st.Weekend++
		case GapSuspicious:
			st.Suspicious++
		}
	}
	return st
}
