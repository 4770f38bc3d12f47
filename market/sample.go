// Package market defines the price sample type fed to the decision core
// and small session-time helpers shared by the ledger and driver.
package market

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrBadSample marks a malformed or incomplete sample. Callers skip the
// sample and keep the run going; this never halts a session.
var ErrBadSample = errors.New("bad sample")

// Sample is one tick of the input stream. It is ephemeral: nothing stores
// samples beyond the indicator and evaluator state they update.
type Sample struct {
	Time   time.Time
	Price  float64
	Volume float64
}

// Validate reports whether the sample is usable. Zero or non-finite prices
// and zero timestamps are data-quality failures.
func (s Sample) Validate() error {
	if s.Time.IsZero() {
		return fmt.Errorf("%w: zero timestamp", ErrBadSample)
	}
	if s.Price <= 0 || math.IsNaN(s.Price) || math.IsInf(s.Price, 0) {
		return fmt.Errorf("%w: price %v", ErrBadSample, s.Price)
	}
	if s.Volume < 0 || math.IsNaN(s.Volume) {
		return fmt.Errorf("%w: volume %v", ErrBadSample, s.Volume)
	}
	return nil
}

// SameSessionDay reports whether two timestamps fall on the same calendar
// day in the same location. Session-scoped state (VWAP, trade counts, loss
// limits) resets when this turns false.
func SameSessionDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
