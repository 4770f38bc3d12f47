package indicators

import (
	"math"

	"github.com/traderlab/intraday/market"
)

// GreenTicks counts consecutive samples whose price strictly exceeds the
// previous sample's price. Any non-increase, including an exact tie,
// resets the count to zero. The first sample of a stream counts as zero.
type GreenTicks struct {
	prev    float64
	hasPrev bool
	count   int
}

func NewGreenTicks() *GreenTicks {
	return &GreenTicks{}
}

func (g *GreenTicks) Name() string { return "GreenTicks" }

func (g *GreenTicks) Update(s market.Sample) {
	if !g.hasPrev {
		g.prev = s.Price
		g.hasPrev = true
		g.count = 0
		return
	}
	if s.Price > g.prev {
		g.count++
	} else {
		g.count = 0
	}
	g.prev = s.Price
}

func (g *GreenTicks) Ready() bool { return g.hasPrev }

func (g *GreenTicks) Count() int { return g.count }

func (g *GreenTicks) Value() float64 { return float64(g.count) }

func (g *GreenTicks) Reset() {
	*g = GreenTicks{}
}

// NoiseFilter suppresses signal evaluation for samples whose move against
// the last significant price is below a percentage threshold. A sample
// becomes significant again after minTicks suppressed samples, or on a
// large enough move. Indicators keep updating regardless; only the
// evaluator consults this.
type NoiseFilter struct {
	pct      float64 // e.g. 0.001 for 0.1%
	minTicks int

	lastSig    float64
	hasSig     bool
	suppressed int
}

func NewNoiseFilter(pct float64, minTicks int) *NoiseFilter {
	return &NoiseFilter{pct: pct, minTicks: minTicks}
}

// Observe consumes the next price and reports whether the sample is
// significant for signal evaluation.
func (n *NoiseFilter) Observe(price float64) bool {
	if !n.hasSig {
		n.lastSig = price
		n.hasSig = true
		n.suppressed = 0
		return true
	}

	change := math.Abs(price-n.lastSig) / n.lastSig
	if change >= n.pct || n.suppressed+1 >= n.minTicks {
		n.lastSig = price
		n.suppressed = 0
		return true
	}

	n.suppressed++
	return false
}

func (n *NoiseFilter) Reset() {
	*n = NoiseFilter{pct: n.pct, minTicks: n.minTicks}
}
