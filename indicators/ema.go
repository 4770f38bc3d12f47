package indicators

import (
	"fmt"

	"github.com/traderlab/intraday/market"
)

// EMA is a streaming exponential moving average seeded with the first
// observed price:
//
//	ema_0 = price_0
//	ema_t = price_t*alpha + ema_{t-1}*(1-alpha),  alpha = 2/(N+1)
//
// The seed rule matters: it makes the recurrence total (a value exists from
// the first sample on) and is what the batch form in Series reproduces.
type EMA struct {
	period int
	alpha  float64
	ema    float64
	seeded bool
}

func NewEMA(period int) *EMA {
	return &EMA{
		period: period,
		alpha:  2.0 / float64(period+1),
	}
}

func (e *EMA) Name() string {
	return fmt.Sprintf("EMA(%d)", e.period)
}

func (e *EMA) Update(s market.Sample) {
	e.UpdatePrice(s.Price)
}

// UpdatePrice advances the recurrence on a bare price. MACD and the HTF
// trend feed derived series through this path.
func (e *EMA) UpdatePrice(p float64) {
	if !e.seeded {
		e.ema = p
		e.seeded = true
		return
	}
	e.ema = p*e.alpha + e.ema*(1-e.alpha)
}

func (e *EMA) Ready() bool {
	return e.seeded
}

func (e *EMA) Value() float64 {
	if !e.seeded {
		return 0
	}
	return e.ema
}

func (e *EMA) Reset() {
	e.ema = 0
	e.seeded = false
}

// Series computes the full EMA series for a price slice in one pass, using
// the identical seed and recurrence as the streaming form. The batch driver
// may use this for precomputation; tests verify it equals the incremental
// values at every index.
func Series(prices []float64, period int) []float64 {
	if len(prices) == 0 {
		return nil
	}
	alpha := 2.0 / float64(period+1)
	out := make([]float64, len(prices))
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = prices[i]*alpha + out[i-1]*(1-alpha)
	}
	return out
}
