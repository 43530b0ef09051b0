package indicators

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/ohlcv/market"
)

// Spec describes one indicator by name, as read from configuration.
type Spec struct {
	Type   string  `json:"type" yaml:"type" validate:"required"`
	Period int     `json:"period,omitempty" yaml:"period,omitempty" validate:"min=0"`
	K      float64 `json:"k,omitempty" yaml:"k,omitempty" validate:"min=0"`
	Source string  `json:"source,omitempty" yaml:"source,omitempty" validate:"omitempty,oneof=open high low close volume typical"`
}

// Types lists the names Build accepts.
var Types = []string{
	"price", "sma", "ema", "mma", "gain", "loss", "avg_gain", "avg_loss",
	"rsi", "stddev", "bollinger", "tr", "atr", "plus_di", "minus_di", "adx",
}

// Build creates the indicators described by sp over s. Bollinger yields three
// indicators (lower, middle, upper); every other type yields one.
func Build(s *market.Series, sp Spec) ([]Indicator, error) {
	src, err := Source(s, sp.Source)
	if err != nil {
		return nil, err
	}
	one := func(c *Cached, err error) ([]Indicator, error) {
		if err != nil {
			return nil, err
		}
		return []Indicator{c}, nil
	}

	switch strings.ToLower(sp.Type) {
	case "price":
		return []Indicator{src}, nil
	case "sma":
		return one(SMA(src, sp.Period))
	case "ema":
		return one(EMA(src, sp.Period))
	case "mma":
		return one(MMA(src, sp.Period))
	case "gain":
		return one(Gain(src), nil)
	case "loss":
		return one(Loss(src), nil)
	case "avg_gain":
		return one(AverageGain(src, sp.Period))
	case "avg_loss":
		return one(AverageLoss(src, sp.Period))
	case "rsi":
		return one(RSI(src, sp.Period))
	case "stddev":
		return one(StdDev(src, sp.Period))
	case "bollinger":
		b, err := BollingerBands(src, sp.Period, sp.K)
		if err != nil {
			return nil, err
		}
		return b.Indicators(), nil
	case "tr":
		return one(TrueRange(s), nil)
	case "atr":
		return one(ATR(s, sp.Period))
	case "plus_di":
		return one(PlusDI(s, sp.Period))
	case "minus_di":
		return one(MinusDI(s, sp.Period))
	case "adx":
		return one(ADX(s, sp.Period))
	}
	return nil, fmt.Errorf("unknown indicator type %q", sp.Type)
}

// BuildAll builds every spec and returns the indicators in order.
func BuildAll(s *market.Series, specs []Spec) ([]Indicator, error) {
	var out []Indicator
	for _, sp := range specs {
		inds, err := Build(s, sp)
		if err != nil {
			return nil, fmt.Errorf("indicator %s: %w", sp.Type, err)
		}
		out = append(out, inds...)
	}
	return out, nil
}
