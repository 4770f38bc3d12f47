package indicators

import (
	"fmt"
	"math"

	"github.com/traderlab/intraday/market"
)

// ATR is the Wilder-smoothed average true range. On a tick stream there is
// no intra-sample high/low, so the true range degenerates to the absolute
// price change between consecutive samples.
type ATR struct {
	period  int
	prev    float64
	hasPrev bool

	count     int
	warmupSum float64
	atr       float64
}

func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Name() string {
	return fmt.Sprintf("ATR(%d)", a.period)
}

func (a *ATR) Update(s market.Sample) {
	if !a.hasPrev {
		a.prev = s.Price
		a.hasPrev = true
		return
	}

	tr := math.Abs(s.Price - a.prev)
	a.prev = s.Price

	if a.count < a.period {
		a.warmupSum += tr
		a.count++
		if a.count == a.period {
			a.atr = a.warmupSum / float64(a.period)
		}
		return
	}

	a.atr = (a.atr*float64(a.period-1) + tr) / float64(a.period)
}

func (a *ATR) Ready() bool {
	return a.count >= a.period
}

func (a *ATR) Value() float64 {
	if !a.Ready() {
		return 0
	}
	return a.atr
}

func (a *ATR) Reset() {
	*a = ATR{period: a.period}
}
