// Package ledger owns open positions, completed trades and all capital
// figures for one run.
//
// Money is held in decimal so the accounting identity
//
//	equity = initial_capital + realized_pnl + unrealized_pnl(open)
//
// holds exactly. Equity is the only figure ever reported as "capital";
// the trading-capital reservation balance gates entry sizing and nothing
// else. The ledger is single-writer: only the execution driver calls the
// mutating methods.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/traderlab/intraday/config"
	"github.com/traderlab/intraday/internal/id"
	"github.com/traderlab/intraday/market"
)

var (
	// ErrInsufficientCapital rejects an entry whose notional exceeds the
	// trading-capital headroom. Recoverable; the run continues.
	ErrInsufficientCapital = errors.New("insufficient trading capital")

	ErrPositionNotFound = errors.New("position not found")
	ErrPositionClosed   = errors.New("position already closed")
	ErrPositionOpen     = errors.New("a position is already open")
)

// qtyEps absorbs float dust when deciding a position is fully worked.
const qtyEps = 1e-9

// Ledger is the sole authority on positions, trades and capital.
type Ledger struct {
	symbol   string
	tickSize float64
	trailPts float64

	commissionRate decimal.Decimal

	initial decimal.Decimal
	trading decimal.Decimal // reservation balance, never surfaced as capital
	realized decimal.Decimal

	open   *Position
	trades []Trade

	day           time.Time
	haveDay       bool
	tradesToday   int
	realizedToday decimal.Decimal
}

func New(cfg config.Config) *Ledger {
	initial := decimal.NewFromFloat(cfg.Capital.Initial)
	return &Ledger{
		symbol:         cfg.Instrument.Symbol,
		tickSize:       cfg.Instrument.TickSize,
		trailPts:       cfg.Risk.TrailingStopPoints,
		commissionRate: decimal.NewFromFloat(cfg.Capital.CommissionRate),
		initial:        initial,
		trading:        initial,
	}
}

// Roll advances session-day state. Trade counts and the daily realized
// figure reset when t crosses a calendar-day boundary. The driver calls
// this once per sample before any evaluation.
func (l *Ledger) Roll(t time.Time) {
	if l.haveDay && market.SameSessionDay(l.day, t) {
		return
	}
	l.day = t
	l.haveDay = true
	l.tradesToday = 0
	l.realizedToday = decimal.Zero
}

// OpenPosition reserves capital and creates an OPEN position. The notional
// is price*qty plus the estimated entry commission; an entry that cannot be
// fully reserved is rejected before any mutation.
func (l *Ledger) OpenPosition(price float64, t time.Time, qty float64, stop float64, ladder []TakeProfitLeg) (string, error) {
	if l.open != nil {
		return "", ErrPositionOpen
	}
	if qty <= 0 {
		return "", fmt.Errorf("open position: quantity must be positive, got %v", qty)
	}

	value := decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(qty))
	notional := value.Add(value.Mul(l.commissionRate))
	if l.trading.LessThan(notional) {
		return "", fmt.Errorf("%w: need %s, have %s",
			ErrInsufficientCapital, notional.StringFixed(2), l.trading.StringFixed(2))
	}
	l.trading = l.trading.Sub(notional)

	legs := make([]TakeProfitLeg, len(ladder))
	copy(legs, ladder)

	pos := &Position{
		ID:           id.New(),
		Symbol:       l.symbol,
		EntryTime:    t,
		EntryPrice:   price,
		OriginalQty:  qty,
		RemainingQty: qty,
		TickSize:     l.tickSize,
		StopLoss:     stop,
		Ladder:       legs,
		PeakPrice:    price,
		Status:       Open,
	}
	l.open = pos
	return pos.ID, nil
}

// ObservePrice updates trailing-stop state for the open position: the peak
// favorable price ratchets up, and the trail arms once price has moved a
// full trail distance above entry. No-op without an open position or with
// trailing disabled.
func (l *Ledger) ObservePrice(price float64) {
	if l.open == nil || l.trailPts <= 0 {
		return
	}
	if price > l.open.PeakPrice {
		l.open.PeakPrice = price
	}
	if !l.open.TrailArmed && price >= l.open.EntryPrice+l.trailPts {
		l.open.TrailArmed = true
	}
}

// ApplyExit closes qty of the open position at price and appends the
// resulting trade. The commission for the leg is
//
//	rate * (entry_value_of_leg + exit_value_of_leg)
//
// charged exactly once, here. When the remaining quantity reaches zero the
// position is CLOSED and counts toward today's completed trades.
func (l *Ledger) ApplyExit(positionID string, qty float64, price float64, t time.Time, reason string) (Trade, error) {
	pos := l.open
	if pos == nil || pos.ID != positionID {
		return Trade{}, fmt.Errorf("%w: %s", ErrPositionNotFound, positionID)
	}
	if pos.Status == Closed {
		return Trade{}, fmt.Errorf("%w: %s", ErrPositionClosed, positionID)
	}
	if qty <= 0 || qty > pos.RemainingQty+qtyEps {
		return Trade{}, fmt.Errorf("apply exit: quantity %v out of range (remaining %v)", qty, pos.RemainingQty)
	}
	if qty > pos.RemainingQty {
		qty = pos.RemainingQty
	}

	trade := l.settleLeg(pos, qty, price, t, reason, l.legCommission(pos.EntryPrice, price, qty))

	pos.RemainingQty -= qty
	if pos.RemainingQty <= qtyEps {
		pos.RemainingQty = 0
		pos.Status = Closed
		l.open = nil
		l.tradesToday++
	}
	return trade, nil
}

// ConsumeLeg removes the front (lowest-trigger) unconsumed take-profit leg.
// The driver calls this after applying a ladder exit.
func (l *Ledger) ConsumeLeg(positionID string) error {
	pos := l.open
	if pos == nil || pos.ID != positionID {
		return fmt.Errorf("%w: %s", ErrPositionNotFound, positionID)
	}
	if len(pos.Ladder) == 0 {
		return fmt.Errorf("consume leg: ladder already empty for %s", positionID)
	}
	pos.Ladder = pos.Ladder[1:]
	return nil
}

func (l *Ledger) legCommission(entryPrice, exitPrice, qty float64) decimal.Decimal {
	q := decimal.NewFromFloat(qty)
	entryValue := decimal.NewFromFloat(entryPrice).Mul(q)
	exitValue := decimal.NewFromFloat(exitPrice).Mul(q)
	return l.commissionRate.Mul(entryValue.Add(exitValue))
}

// settleLeg books the monetary effects of one exit leg: trade record,
// realized PnL and the trading-capital credit (exit value less commission).
func (l *Ledger) settleLeg(pos *Position, qty, price float64, t time.Time, reason string, commission decimal.Decimal) Trade {
	q := decimal.NewFromFloat(qty)
	gross := decimal.NewFromFloat(price).Sub(decimal.NewFromFloat(pos.EntryPrice)).Mul(q)
	net := gross.Sub(commission)

	exitValue := decimal.NewFromFloat(price).Mul(q)
	l.trading = l.trading.Add(exitValue.Sub(commission))
	l.realized = l.realized.Add(net)
	l.realizedToday = l.realizedToday.Add(net)

	trade := Trade{
		TradeID:    id.New(),
		PositionID: pos.ID,
		EntryTime:  pos.EntryTime,
		ExitTime:   t,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  price,
		Quantity:   qty,
		GrossPnL:   gross,
		Commission: commission,
		NetPnL:     net,
		ExitReason: reason,
		Duration:   t.Sub(pos.EntryTime),
	}
	l.trades = append(l.trades, trade)
	return trade
}

// OpenPosition state, read-only.

// Open returns a copy of the open position, or nil.
func (l *Ledger) Open() *Position {
	if l.open == nil {
		return nil
	}
	cp := *l.open
	cp.Ladder = append([]TakeProfitLeg(nil), l.open.Ladder...)
	return &cp
}

func (l *Ledger) HasOpenPosition() bool { return l.open != nil }

// TradesToday is the count of positions fully closed during the current
// session day. It gates max-positions-per-day.
func (l *Ledger) TradesToday() int { return l.tradesToday }

// RealizedToday is today's realized net PnL, for the daily loss limit.
func (l *Ledger) RealizedToday() float64 {
	f, _ := l.realizedToday.Float64()
	return f
}

// Trades returns the append-only completed trade history.
func (l *Ledger) Trades() []Trade {
	out := make([]Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// Unrealized is the open position's mark-to-market PnL at the given price,
// zero when flat.
func (l *Ledger) Unrealized(mark float64) float64 {
	if l.open == nil {
		return 0
	}
	return (mark - l.open.EntryPrice) * l.open.RemainingQty
}

// Equity is initial capital plus realized and unrealized PnL — the only
// value ever reported as capital to any consumer.
func (l *Ledger) Equity(mark float64) float64 {
	f, _ := l.initial.Add(l.realized).Float64()
	return f + l.Unrealized(mark)
}

// RealizedPnL is the cumulative net PnL over all completed trades.
func (l *Ledger) RealizedPnL() float64 {
	f, _ := l.realized.Float64()
	return f
}

// TradingCapital exposes the internal reservation balance for sizing and
// tests. It is NOT capital and must never be displayed as such.
func (l *Ledger) TradingCapital() float64 {
	f, _ := l.trading.Float64()
	return f
}
