package ledger

import "github.com/shopspring/decimal"

// Summary is the live performance report. Equity follows the accounting
// identity; the trading-capital reservation never appears here.
type Summary struct {
	TotalTrades  int
	Wins         int
	Losses       int
	WinRate      float64
	TotalPnL     float64 // sum of net PnL over completed trades
	ProfitFactor float64 // gross profit / |gross loss|, 0 when no losses
	Equity       float64
}

// Summarize computes the performance summary with the open position (if
// any) marked at the given price.
func (l *Ledger) Summarize(mark float64) Summary {
	s := Summary{
		TotalTrades: len(l.trades),
		Equity:      l.Equity(mark),
	}

	grossProfit := decimal.Zero
	grossLoss := decimal.Zero
	for _, t := range l.trades {
		switch t.NetPnL.Sign() {
		case 1:
			s.Wins++
			grossProfit = grossProfit.Add(t.NetPnL)
		case -1:
			s.Losses++
			grossLoss = grossLoss.Add(t.NetPnL.Neg())
		}
	}

	s.TotalPnL, _ = l.realized.Float64()
	if s.TotalTrades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.TotalTrades)
	}
	if grossLoss.Sign() > 0 {
		pf, _ := grossProfit.Div(grossLoss).Float64()
		s.ProfitFactor = pf
	}
	return s
}
