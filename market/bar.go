package market

import (
	"time"

	"github.com/rustyeddy/ohlcv/num"
)

// Bar is the input form of one OHLCV bar. A series never stores Bar values;
// its fields are copied into the series columns. Nil prices are stored as
// unset, nil volume and amount as zero. A zero Period selects the series
// default.
type Bar struct {
	Period time.Duration
	End    time.Time
	Open   num.Num
	High   num.Num
	Low    num.Num
	Close  num.Num
	Volume num.Num
	Amount num.Num
	Trades int64
}

// Begin is End minus Period.
func (b Bar) Begin() time.Time {
	return b.End.Add(-b.Period)
}

func (b Bar) values() []num.Num {
	return []num.Num{b.Open, b.High, b.Low, b.Close, b.Volume, b.Amount}
}
