package ledger

import "time"

// Status of a position.
type Status int

const (
	Open Status = iota
	Closed
)

func (s Status) String() string {
	if s == Closed {
		return "CLOSED"
	}
	return "OPEN"
}

// TakeProfitLeg is one rung of the take-profit ladder. Fraction applies to
// the position's ORIGINAL quantity, and N is the rung's 1-based ordinal in
// the ladder as configured (stable across consumption, used in the exit
// reason "take profit N").
type TakeProfitLeg struct {
	Trigger  float64
	Fraction float64
	N        int
}

// Position is a single open long position. The ledger is the only writer;
// the evaluator reads a copy.
type Position struct {
	ID           string
	Symbol       string
	EntryTime    time.Time
	EntryPrice   float64
	OriginalQty  float64
	RemainingQty float64
	TickSize     float64

	StopLoss float64

	// Unconsumed ladder legs in ascending trigger order.
	Ladder []TakeProfitLeg

	// Trailing stop state. PeakPrice tracks the best favorable price seen
	// since entry; TrailArmed flips once price has moved a full trail
	// distance in favor.
	PeakPrice  float64
	TrailArmed bool

	Status Status
}
