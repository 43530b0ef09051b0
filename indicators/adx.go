package indicators

import (
	"fmt"

	"github.com/rustyeddy/ohlcv/market"
	"github.com/rustyeddy/ohlcv/num"
)

// directional returns +DM when plus is set and -DM otherwise. A move counts
// only when it is positive and larger than the opposite move.
func directional(s *market.Series, plus bool) *Cached {
	f := s.Factory()
	name := "-DM"
	if plus {
		name = "+DM"
	}
	return NewCached(name, s, func(i int) (num.Num, error) {
		if i == s.BeginIndex() {
			return f.Zero(), nil
		}
		up := s.HighPrice(i).Sub(s.HighPrice(i - 1))
		down := s.LowPrice(i - 1).Sub(s.LowPrice(i))
		if !plus {
			up, down = down, up
		}
		if up.IsGreaterThan(down) && up.IsPositive() {
			return up, nil
		}
		return f.Zero(), nil
	})
}

func directionalIndex(s *market.Series, n int, plus bool) (*Cached, error) {
	dm, err := MMA(directional(s, plus), n)
	if err != nil {
		return nil, err
	}
	atr, err := ATR(s, n)
	if err != nil {
		return nil, err
	}
	f := s.Factory()
	name := fmt.Sprintf("-DI(%d)", n)
	if plus {
		name = fmt.Sprintf("+DI(%d)", n)
	}
	c := NewCached(name, s, func(i int) (num.Num, error) {
		tr, err := atr.Value(i)
		if err != nil {
			return nil, err
		}
		if tr.IsZero() {
			return f.Zero(), nil
		}
		m, err := dm.Value(i)
		if err != nil {
			return nil, err
		}
		return f.Hundred().Mul(m).Div(tr), nil
	}, dm, atr)
	c.warmup = n
	return c, nil
}

func PlusDI(s *market.Series, n int) (*Cached, error)  { return directionalIndex(s, n, true) }
func MinusDI(s *market.Series, n int) (*Cached, error) { return directionalIndex(s, n, false) }

// ADX is Wilder's average directional index: an MMA of
// DX = 100 * |+DI - -DI| / (+DI + -DI), with DX taken as zero while both
// indices are zero.
func ADX(s *market.Series, n int) (*Cached, error) {
	if err := checkPeriod("ADX", n); err != nil {
		return nil, err
	}
	pdi, err := PlusDI(s, n)
	if err != nil {
		return nil, err
	}
	mdi, err := MinusDI(s, n)
	if err != nil {
		return nil, err
	}
	f := s.Factory()
	dx := NewCached(fmt.Sprintf("DX(%d)", n), s, func(i int) (num.Num, error) {
		p, err := pdi.Value(i)
		if err != nil {
			return nil, err
		}
		m, err := mdi.Value(i)
		if err != nil {
			return nil, err
		}
		den := p.Add(m)
		if den.IsZero() {
			return f.Zero(), nil
		}
		return f.Hundred().Mul(p.Sub(m).Abs()).Div(den), nil
	}, pdi, mdi)

	adx, err := MMA(dx, n)
	if err != nil {
		return nil, err
	}
	adx.name = fmt.Sprintf("ADX(%d)", n)
	adx.warmup = 2 * n
	return adx, nil
}
