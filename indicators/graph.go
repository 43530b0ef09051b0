package indicators

import (
	"fmt"

	"github.com/rustyeddy/ohlcv/num"
)

// Graph is the dependency graph reachable from a set of root indicators.
// Evaluating it visits every node in dependency order, so a value shared by
// several roots is computed once per index.
type Graph struct {
	roots []Indicator
	order []Indicator
}

// NewGraph walks Deps from roots and orders the nodes dependencies first. A
// cycle is reported with ErrCycle.
func NewGraph(roots ...Indicator) (*Graph, error) {
	const (
		visiting = 1
		done     = 2
	)
	g := &Graph{roots: roots}
	state := make(map[Indicator]int)

	var visit func(ind Indicator, path []string) error
	visit = func(ind Indicator, path []string) error {
		path = append(path, ind.Name())
		switch state[ind] {
		case visiting:
			return fmt.Errorf("%w: %v", ErrCycle, path)
		case done:
			return nil
		}
		state[ind] = visiting
		for _, d := range ind.Deps() {
			if err := visit(d, path); err != nil {
				return err
			}
		}
		state[ind] = done
		g.order = append(g.order, ind)
		return nil
	}
	for _, r := range roots {
		if err := visit(r, nil); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Graph) Roots() []Indicator { return g.roots }

// Order lists every node, each after all of its dependencies.
func (g *Graph) Order() []Indicator { return g.order }

// Evaluate computes every node at index i and returns the root values in
// the order the roots were given.
func (g *Graph) Evaluate(i int) ([]num.Num, error) {
	for _, ind := range g.order {
		if _, err := ind.Value(i); err != nil {
			return nil, err
		}
	}
	out := make([]num.Num, len(g.roots))
	for k, r := range g.roots {
		v, err := r.Value(i)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// EvaluateRange evaluates every index in [from, to] and hands the root values
// to fn, stopping at the first error.
func (g *Graph) EvaluateRange(from, to int, fn func(i int, values []num.Num) error) error {
	for i := from; i <= to; i++ {
		vals, err := g.Evaluate(i)
		if err != nil {
			return err
		}
		if fn == nil {
			continue
		}
		if err := fn(i, vals); err != nil {
			return err
		}
	}
	return nil
}
