// Package indicators computes technical indicators over a market.Series.
// Values are evaluated lazily per bar index and memoized by each indicator.
package indicators

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/ohlcv/market"
	"github.com/rustyeddy/ohlcv/num"
)

var (
	ErrCycle         = errors.New("indicator dependency cycle")
	ErrInvalidPeriod = errors.New("invalid indicator period")
)

// Indicator yields one value per absolute bar index of its series.
type Indicator interface {
	// Name returns a stable identifier like "SMA(close,20)".
	Name() string

	Series() *market.Series

	// Value returns the value at absolute index i. An index outside the
	// series is an error; too little history yields NaN.
	Value(i int) (num.Num, error)

	// Deps lists the indicators Value reads from.
	Deps() []Indicator
}

// Warmup reports how many bars ind needs before its values stop being NaN or
// seed values. Indicators that do not say are ready immediately.
func Warmup(ind Indicator) int {
	if w, ok := ind.(interface{ Warmup() int }); ok {
		return w.Warmup()
	}
	return 0
}

func checkPeriod(name string, n int) error {
	if n <= 0 {
		return fmt.Errorf("%s: %w: %d", name, ErrInvalidPeriod, n)
	}
	return nil
}
