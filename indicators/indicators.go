// Package indicators provides streaming technical indicators with a
// batch-equivalent formulation.
//
// Every indicator follows the same contract: Update consumes the next
// sample, Ready reports whether the value is meaningful, Value returns the
// current value. Feeding a stored sequence one sample at a time must
// produce the same values as any batch computation over the same sequence;
// there is exactly one recurrence per indicator and no second code path.
package indicators

import (
	"fmt"

	"github.com/traderlab/intraday/market"
)

// Indicator computes a single streaming value from samples. Indicators are
// deterministic and never fail on insufficient data: during warm-up they
// simply report !Ready().
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)" or "RSI(14)".
	Name() string

	// Update consumes the next sample and advances internal state.
	Update(s market.Sample)

	// Ready reports whether Value() is meaningful (warm-up completed).
	Ready() bool

	// Value returns the current value. Callers must check Ready() first;
	// during warm-up the result is 0.
	Value() float64

	// Reset clears all internal state.
	Reset()
}

// Value is an indicator reading that may still be warming up. A consumer
// treats !OK as a failing check, never as an error.
type Value struct {
	V  float64
	OK bool
}

func value(v float64, ok bool) Value {
	if !ok {
		return Value{}
	}
	return Value{V: v, OK: true}
}

func (v Value) String() string {
	if !v.OK {
		return "n/a"
	}
	return fmt.Sprintf("%.6f", v.V)
}

// Snapshot is the read-only view of all indicator state after one update.
// It is owned and produced by the Engine; consumers never mutate it.
type Snapshot struct {
	EMAFast    Value
	EMASlow    Value
	MACD       Value
	MACDSignal Value
	MACDHist   Value
	VWAP       Value
	RSI        Value
	ATR        Value
	BollMid    Value
	BollUpper  Value
	BollLower  Value

	// HTFReady is true once both higher-timeframe EMAs are seeded;
	// HTFBullish is only meaningful when it is.
	HTFReady   bool
	HTFBullish bool

	// GreenTicks counts consecutive strict price increases.
	GreenTicks int

	// Significant is false while the noise filter is suppressing signal
	// evaluation for this sample. Indicators above still updated.
	Significant bool
}
