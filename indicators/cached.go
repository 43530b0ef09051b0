package indicators

import (
	"fmt"

	"github.com/rustyeddy/ohlcv/market"
	"github.com/rustyeddy/ohlcv/num"
)

// Formula computes the value at absolute index i. It may read dependencies
// and, for recursive indicators, the indicator's own earlier values.
type Formula func(i int) (num.Num, error)

// Cached memoizes a formula per absolute index. The table covers a contiguous
// index range starting at base; slots that were never computed are nil.
//
// Entries are dropped only when a windowed series evicts their index. An
// overwrite through Series.InsertBar leaves stale values in place; call
// Reset after overwriting bars that were already evaluated.
type Cached struct {
	name   string
	s      *market.Series
	deps   []Indicator
	calc   Formula
	warmup int

	// recursive formulas read their own previous value; the table is filled
	// forward from the highest cached index so evaluation never recurses deeply.
	recursive bool

	base    int
	values  []num.Num
	highest int
	evals   int
}

// NewCached returns a memoizing indicator named name over s.
func NewCached(name string, s *market.Series, calc Formula, deps ...Indicator) *Cached {
	return &Cached{
		name:    name,
		s:       s,
		deps:    deps,
		calc:    calc,
		highest: -1,
	}
}

func newRecursive(name string, s *market.Series, warmup int, deps ...Indicator) *Cached {
	c := NewCached(name, s, nil, deps...)
	c.recursive = true
	c.warmup = warmup
	return c
}

func (c *Cached) Name() string           { return c.name }
func (c *Cached) Series() *market.Series { return c.s }
func (c *Cached) Deps() []Indicator      { return c.deps }
func (c *Cached) Warmup() int            { return c.warmup }

// Evaluations counts how many times the formula has run.
func (c *Cached) Evaluations() int { return c.evals }

// Size reports how many values are memoized.
func (c *Cached) Size() int {
	n := 0
	for _, v := range c.values {
		if v != nil {
			n++
		}
	}
	return n
}

// Reset drops every memoized value.
func (c *Cached) Reset() {
	clear(c.values)
	c.values = c.values[:0]
	c.highest = -1
}

func (c *Cached) Value(i int) (num.Num, error) {
	if err := c.s.CheckIndex(i); err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}
	c.prune()
	if v := c.get(i); v != nil {
		return v, nil
	}
	if c.recursive {
		start := max(c.highest+1, c.s.BeginIndex())
		for j := start; j < i; j++ {
			if _, err := c.compute(j); err != nil {
				return nil, err
			}
		}
	}
	return c.compute(i)
}

func (c *Cached) compute(i int) (num.Num, error) {
	v, err := c.calc(i)
	if err != nil {
		return nil, fmt.Errorf("%s at %d: %w", c.name, i, err)
	}
	c.evals++
	c.put(i, v)
	return v, nil
}

// prune forgets values whose index the series has evicted.
func (c *Cached) prune() {
	k := c.s.BeginIndex() - c.base
	if k <= 0 || len(c.values) == 0 {
		return
	}
	if k >= len(c.values) {
		c.Reset()
		return
	}
	clear(c.values[:k])
	c.values = c.values[k:]
	c.base += k
}

func (c *Cached) get(i int) num.Num {
	k := i - c.base
	if k < 0 || k >= len(c.values) {
		return nil
	}
	return c.values[k]
}

func (c *Cached) put(i int, v num.Num) {
	switch {
	case len(c.values) == 0:
		c.base = i
		c.values = append(c.values, v)
	case i < c.base:
		head := make([]num.Num, c.base-i, c.base-i+len(c.values))
		head[0] = v
		c.values = append(head, c.values...)
		c.base = i
	default:
		k := i - c.base
		for len(c.values) <= k {
			c.values = append(c.values, nil)
		}
		c.values[k] = v
	}
	c.highest = max(c.highest, i)
}
