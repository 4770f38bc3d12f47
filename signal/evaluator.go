// Package signal turns indicator snapshots and ledger state into entry and
// exit decisions.
//
// There is exactly one evaluation path, used identically by the batch and
// incremental drivers: the caller updates indicators for a sample first and
// evaluates second, always against that same sample's state. The evaluator
// never mutates ledger state; it only reads ledger-derived facts through
// View.
package signal

import (
	"fmt"
	"time"

	"github.com/traderlab/intraday/config"
	"github.com/traderlab/intraday/indicators"
	"github.com/traderlab/intraday/ledger"
	"github.com/traderlab/intraday/market"
)

// View is the slice of ledger state the evaluator may read.
type View interface {
	HasOpenPosition() bool
	TradesToday() int
	RealizedToday() float64
}

// Evaluator holds the frozen configuration and precomputed session window.
type Evaluator struct {
	cfg config.Config

	sessionClose time.Duration
	entryFrom    time.Duration
	entryTo      time.Duration
}

// New builds an evaluator from an already-validated configuration.
func New(cfg config.Config) *Evaluator {
	_, close, from, to := cfg.SessionWindow()
	return &Evaluator{
		cfg:          cfg,
		sessionClose: close,
		entryFrom:    from,
		entryTo:      to,
	}
}

// EvaluateEntry gates a long entry for the current sample. Every enabled
// check must independently pass; the decision carries each failed check so
// callers can see exactly why a sample was held.
func (ev *Evaluator) EvaluateEntry(snap indicators.Snapshot, view View, s market.Sample) Decision {
	var reasons []string

	if view.HasOpenPosition() {
		reasons = append(reasons, "position already open")
	}
	if view.TradesToday() >= ev.cfg.Risk.MaxPositionsPerDay {
		reasons = append(reasons, "daily position limit reached")
	}
	if tod := timeOfDay(s.Time); tod < ev.entryFrom || tod >= ev.entryTo {
		reasons = append(reasons, "outside entry window")
	}
	if !snap.Significant {
		reasons = append(reasons, "noise filter")
	}
	if len(reasons) > 0 {
		return Decision{Action: Hold, Reasons: reasons}
	}

	checks := ev.cfg.Strategy.Checks
	if checks.EMACrossover {
		if !snap.EMAFast.OK || !snap.EMASlow.OK || snap.EMAFast.V <= snap.EMASlow.V {
			reasons = append(reasons, "ema fast not above slow")
		}
	}
	if checks.VWAP {
		if !snap.VWAP.OK || s.Price <= snap.VWAP.V {
			reasons = append(reasons, "price not above vwap")
		}
	}
	if checks.MACD {
		if !snap.MACDHist.OK || snap.MACDHist.V <= 0 {
			reasons = append(reasons, "macd histogram not positive")
		}
	}
	if checks.RSI {
		if !snap.RSI.OK || snap.RSI.V < ev.cfg.Strategy.RSIMin || snap.RSI.V > ev.cfg.Strategy.RSIMax {
			reasons = append(reasons, "rsi outside band")
		}
	}
	if checks.HTFTrend {
		if !snap.HTFReady || !snap.HTFBullish {
			reasons = append(reasons, "htf trend not bullish")
		}
	}
	if checks.GreenTicks {
		if snap.GreenTicks < ev.cfg.Strategy.GreenTickMin {
			reasons = append(reasons, "green tick streak too short")
		}
	}

	if len(reasons) > 0 {
		return Decision{Action: Hold, Reasons: reasons}
	}
	return Decision{Action: Buy}
}

// EvaluateExits checks the open position against the current sample and
// returns the exit legs to apply, in order. Priority: session end, daily
// loss limit, hard stop, trailing stop, then take-profit rungs in ascending
// trigger order. All boundary comparisons are inclusive: an exact touch
// triggers.
func (ev *Evaluator) EvaluateExits(pos *ledger.Position, view View, s market.Sample) []ExitOrder {
	if pos == nil || pos.RemainingQty <= 0 {
		return nil
	}

	if timeOfDay(s.Time) >= ev.sessionClose {
		return []ExitOrder{{Qty: pos.RemainingQty, Reason: "session end"}}
	}

	dayPnL := view.RealizedToday() + (s.Price-pos.EntryPrice)*pos.RemainingQty
	if dayPnL <= -ev.cfg.Risk.MaxDailyLoss {
		return []ExitOrder{{Qty: pos.RemainingQty, Reason: "daily loss limit", SuppressEntries: true}}
	}

	if s.Price <= pos.StopLoss {
		return []ExitOrder{{Qty: pos.RemainingQty, Reason: "stop loss"}}
	}

	if pos.TrailArmed && ev.cfg.Risk.TrailingStopPoints > 0 &&
		s.Price <= pos.PeakPrice-ev.cfg.Risk.TrailingStopPoints {
		return []ExitOrder{{Qty: pos.RemainingQty, Reason: "trailing stop"}}
	}

	var orders []ExitOrder
	remaining := pos.RemainingQty
	for _, leg := range pos.Ladder {
		if s.Price < leg.Trigger || remaining <= 0 {
			break
		}
		qty := leg.Fraction * pos.OriginalQty
		if qty > remaining {
			qty = remaining
		}
		orders = append(orders, ExitOrder{
			Qty:        qty,
			Reason:     fmt.Sprintf("take profit %d", leg.N),
			TakeProfit: true,
		})
		remaining -= qty
	}
	return orders
}

// BuildBracket derives the stop price and take-profit ladder for an entry
// at the given price from the frozen risk configuration.
func (ev *Evaluator) BuildBracket(entryPrice float64) (stop float64, ladder []ledger.TakeProfitLeg) {
	stop = entryPrice - ev.cfg.Risk.StopLossPoints
	ladder = make([]ledger.TakeProfitLeg, len(ev.cfg.Risk.TakeProfitPoints))
	for i, pts := range ev.cfg.Risk.TakeProfitPoints {
		ladder[i] = ledger.TakeProfitLeg{
			Trigger:  entryPrice + pts,
			Fraction: ev.cfg.Risk.TakeProfitPercents[i],
			N:        i + 1,
		}
	}
	return stop, ladder
}

func timeOfDay(t time.Time) time.Duration {
	h, m, sec := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second
}
