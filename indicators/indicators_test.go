package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traderlab/intraday/market"
)

func TestRSIWarmupAndValue(t *testing.T) {
	r := NewRSI(3)

	for _, p := range []float64{100, 101, 102} {
		r.Update(tick(p))
		assert.False(t, r.Ready())
	}

	// Third price change completes the warm-up; all gains pin RSI at 100.
	r.Update(tick(103))
	require.True(t, r.Ready())
	assert.Equal(t, 100.0, r.Value())

	// One loss: avgGain = 2/3, avgLoss = 1/3, RS = 2, RSI = 66.67.
	r.Update(tick(102))
	assert.InDelta(t, 66.6667, r.Value(), 1e-3)
}

func TestVWAP(t *testing.T) {
	v := NewVWAP()
	assert.False(t, v.Ready())

	v.Update(market.Sample{Price: 100, Volume: 10})
	v.Update(market.Sample{Price: 102, Volume: 30})

	require.True(t, v.Ready())
	assert.InDelta(t, 101.5, v.Value(), 1e-12)

	v.Reset()
	assert.False(t, v.Ready())
}

func TestVWAPZeroVolumeNotReady(t *testing.T) {
	v := NewVWAP()
	v.Update(market.Sample{Price: 100, Volume: 0})
	assert.False(t, v.Ready())
}

func TestATRWilderSmoothing(t *testing.T) {
	a := NewATR(2)

	a.Update(tick(100))
	assert.False(t, a.Ready())

	a.Update(tick(101)) // TR 1
	a.Update(tick(99))  // TR 2
	require.True(t, a.Ready())
	assert.InDelta(t, 1.5, a.Value(), 1e-12)

	a.Update(tick(100)) // TR 1, smoothed: (1.5*1 + 1) / 2
	assert.InDelta(t, 1.25, a.Value(), 1e-12)
}

func TestBollingerBands(t *testing.T) {
	b := NewBollinger(3, 2)

	b.Update(tick(1))
	b.Update(tick(2))
	assert.False(t, b.Ready())

	b.Update(tick(3))
	require.True(t, b.Ready())

	mid, upper, lower := b.Bands()
	std := math.Sqrt(2.0 / 3.0)
	assert.InDelta(t, 2.0, mid, 1e-12)
	assert.InDelta(t, 2.0+2*std, upper, 1e-12)
	assert.InDelta(t, 2.0-2*std, lower, 1e-12)

	// Window slides: [2 3 4].
	b.Update(tick(4))
	mid, _, _ = b.Bands()
	assert.InDelta(t, 3.0, mid, 1e-12)
}

func TestMACDRisingTrend(t *testing.T) {
	m := NewMACD(3, 10, 3)

	m.Update(tick(100))
	assert.True(t, m.Ready())
	assert.Equal(t, 0.0, m.Line())

	for p := 101.0; p <= 120; p++ {
		m.Update(tick(p))
	}

	assert.Greater(t, m.Line(), 0.0)
	assert.Greater(t, m.Histogram(), 0.0)
	assert.InDelta(t, m.Line()-m.Signal(), m.Histogram(), 1e-12)
}

func TestHTFTrendBuckets(t *testing.T) {
	h := NewHTFTrend(time.Minute, 2, 3)
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	at := func(offset time.Duration, price float64) market.Sample {
		return market.Sample{Time: base.Add(offset), Price: price, Volume: 1}
	}

	h.Update(at(0, 100))
	h.Update(at(30*time.Second, 101)) // same bucket, becomes its close
	assert.False(t, h.Ready())

	// New bucket: the previous close (101) seeds both EMAs.
	h.Update(at(time.Minute, 102))
	require.True(t, h.Ready())
	assert.False(t, h.Bullish(), "fast and slow equal right after seeding")

	// Bucket at +1m closes at 102; fast EMA outruns slow on the rise.
	h.Update(at(2*time.Minute, 104))
	assert.True(t, h.Bullish())
}
