package market

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	week  = 7 * 24 * time.Hour
	month = 30 * 24 * time.Hour
)

// ParseTimeframe turns S<n>, M<n>, H<n>, D<n>, W<n> or MN1 into a duration.
// Anything else is tried as a Go duration ("90s", "4h").
func ParseTimeframe(tf string) (time.Duration, error) {
	tf = strings.ToUpper(strings.TrimSpace(tf))
	if tf == "MN1" {
		return month, nil
	}
	if len(tf) >= 2 {
		unit := map[byte]time.Duration{
			'S': time.Second,
			'M': time.Minute,
			'H': time.Hour,
			'D': 24 * time.Hour,
			'W': week,
		}[tf[0]]
		if n, err := strconv.Atoi(tf[1:]); err == nil && unit > 0 {
			if n <= 0 {
				return 0, fmt.Errorf("%w: %s", ErrInvalidTimeframe, tf)
			}
			return time.Duration(n) * unit, nil
		}
	}
	d, err := time.ParseDuration(strings.ToLower(tf))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidTimeframe, tf)
	}
	return d, nil
}

// FormatTimeframe is the inverse of ParseTimeframe for whole units.
func FormatTimeframe(d time.Duration) (string, error) {
	switch {
	case d <= 0:
		return "", fmt.Errorf("%w: %s", ErrInvalidTimeframe, d)
	case d == week:
		return "W1", nil
	case d == month:
		return "MN1", nil
	case d%(24*time.Hour) == 0:
		return fmt.Sprintf("D%d", d/(24*time.Hour)), nil
	case d%time.Hour == 0:
		return fmt.Sprintf("H%d", d/time.Hour), nil
	case d%time.Minute == 0:
		return fmt.Sprintf("M%d", d/time.Minute), nil
	case d%time.Second == 0:
		return fmt.Sprintf("S%d", d/time.Second), nil
	}
	return "", fmt.Errorf("%w: cannot name %s", ErrInvalidTimeframe, d)
}
