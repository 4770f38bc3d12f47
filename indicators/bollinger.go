package indicators

import (
	"fmt"
	"math"

	"github.com/traderlab/intraday/market"
)

// Bollinger keeps a rolling window of prices and exposes the rolling mean
// plus/minus k standard deviations.
type Bollinger struct {
	period int
	k      float64
	window []float64
}

func NewBollinger(period int, k float64) *Bollinger {
	return &Bollinger{
		period: period,
		k:      k,
		window: make([]float64, 0, period),
	}
}

func (b *Bollinger) Name() string {
	return fmt.Sprintf("BB(%d,%.1f)", b.period, b.k)
}

func (b *Bollinger) Update(s market.Sample) {
	b.window = append(b.window, s.Price)
	if len(b.window) > b.period {
		b.window = b.window[1:]
	}
}

func (b *Bollinger) Ready() bool {
	return len(b.window) >= b.period
}

// Value returns the middle band (rolling mean).
func (b *Bollinger) Value() float64 {
	mid, _, _ := b.Bands()
	return mid
}

// Bands returns middle, upper and lower bands. All zero during warm-up.
func (b *Bollinger) Bands() (mid, upper, lower float64) {
	if !b.Ready() {
		return 0, 0, 0
	}

	sum := 0.0
	for _, p := range b.window {
		sum += p
	}
	mid = sum / float64(len(b.window))

	varSum := 0.0
	for _, p := range b.window {
		d := p - mid
		varSum += d * d
	}
	std := math.Sqrt(varSum / float64(len(b.window)))

	return mid, mid + b.k*std, mid - b.k*std
}

func (b *Bollinger) Reset() {
	b.window = b.window[:0]
}
