package indicators

import (
	"fmt"

	"github.com/traderlab/intraday/market"
)

// MACD tracks macd = EMA(fast) - EMA(slow), a signal EMA over the macd
// line, and their histogram.
type MACD struct {
	fast   *EMA
	slow   *EMA
	signal *EMA
}

func NewMACD(fastPeriod, slowPeriod, signalPeriod int) *MACD {
	return &MACD{
		fast:   NewEMA(fastPeriod),
		slow:   NewEMA(slowPeriod),
		signal: NewEMA(signalPeriod),
	}
}

func (m *MACD) Name() string {
	return fmt.Sprintf("MACD(%d,%d,%d)", m.fast.period, m.slow.period, m.signal.period)
}

func (m *MACD) Update(s market.Sample) {
	m.fast.UpdatePrice(s.Price)
	m.slow.UpdatePrice(s.Price)
	m.signal.UpdatePrice(m.fast.Value() - m.slow.Value())
}

func (m *MACD) Ready() bool {
	return m.fast.Ready() && m.slow.Ready() && m.signal.Ready()
}

// Value returns the MACD line. Line, Signal and Histogram expose the full
// triple for the snapshot.
func (m *MACD) Value() float64 { return m.Line() }

func (m *MACD) Line() float64 {
	if !m.Ready() {
		return 0
	}
	return m.fast.Value() - m.slow.Value()
}

func (m *MACD) Signal() float64 {
	if !m.Ready() {
		return 0
	}
	return m.signal.Value()
}

func (m *MACD) Histogram() float64 {
	if !m.Ready() {
		return 0
	}
	return m.Line() - m.signal.Value()
}

func (m *MACD) Reset() {
	m.fast.Reset()
	m.slow.Reset()
	m.signal.Reset()
}
