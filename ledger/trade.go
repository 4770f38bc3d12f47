package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one completed exit leg. Records are immutable and append-only;
// a position closed across several ladder rungs produces several trades
// sharing a PositionID.
type Trade struct {
	TradeID    string
	PositionID string
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Quantity   float64 // the closed leg size

	GrossPnL   decimal.Decimal
	Commission decimal.Decimal
	NetPnL     decimal.Decimal

	ExitReason string
	Duration   time.Duration
}
