package indicators

import (
	"fmt"

	"github.com/traderlab/intraday/market"
)

// RSI is the Wilder-smoothed relative strength index. It needs `period`
// price changes (period+1 samples) before it reports Ready.
type RSI struct {
	period  int
	prev    float64
	hasPrev bool

	changes int // price changes observed so far
	gainSum float64
	lossSum float64
	avgGain float64
	avgLoss float64
}

func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

func (r *RSI) Name() string {
	return fmt.Sprintf("RSI(%d)", r.period)
}

func (r *RSI) Update(s market.Sample) {
	p := s.Price
	if !r.hasPrev {
		r.prev = p
		r.hasPrev = true
		return
	}

	gain, loss := 0.0, 0.0
	if d := p - r.prev; d > 0 {
		gain = d
	} else {
		loss = -d
	}
	r.prev = p
	r.changes++

	if r.changes <= r.period {
		r.gainSum += gain
		r.lossSum += loss
		if r.changes == r.period {
			r.avgGain = r.gainSum / float64(r.period)
			r.avgLoss = r.lossSum / float64(r.period)
		}
		return
	}

	// Wilder smoothing after the initial simple averages.
	n := float64(r.period)
	r.avgGain = (r.avgGain*(n-1) + gain) / n
	r.avgLoss = (r.avgLoss*(n-1) + loss) / n
}

func (r *RSI) Ready() bool {
	return r.changes >= r.period
}

func (r *RSI) Value() float64 {
	if !r.Ready() {
		return 0
	}
	if r.avgLoss == 0 {
		return 100
	}
	rs := r.avgGain / r.avgLoss
	return 100 - 100/(1+rs)
}

func (r *RSI) Reset() {
	*r = RSI{period: r.period}
}
