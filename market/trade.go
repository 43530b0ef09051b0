package market

import (
	"time"

	"github.com/rustyeddy/ohlcv/num"
)

// Trade is one executed trade: a price and volume at a point in time.
type Trade struct {
	Time   time.Time
	Price  num.Num
	Volume num.Num
}

// Amount is volume times price.
func (t Trade) Amount() num.Num {
	return t.Volume.Mul(t.Price)
}
