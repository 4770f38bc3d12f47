// Package journal persists completed trades and decision events. Backends
// are interchangeable; the driver buffers records on the hot path and
// flushes at session boundaries, so implementations may do blocking I/O.
package journal

import "time"

// TradeRecord is one completed exit leg, flattened for persistence.
type TradeRecord struct {
	TradeID    string
	PositionID string
	Symbol     string
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Quantity   float64
	GrossPnL   float64
	Commission float64
	NetPnL     float64
	ExitReason string
}

// DecisionRecord is one evaluated decision event.
type DecisionRecord struct {
	Time     time.Time
	Decision string
	Reasons  string // semicolon-joined failed checks / exit reason
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordDecision(DecisionRecord) error
	Close() error
}
