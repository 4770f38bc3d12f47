package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traderlab/intraday/market"
)

func testParams() Params {
	return Params{
		FastEMAPeriod:    2,
		SlowEMAPeriod:    5,
		MACDFastPeriod:   3,
		MACDSlowPeriod:   10,
		MACDSignalPeriod: 3,
		RSIPeriod:        3,
		ATRPeriod:        3,
		BollingerPeriod:  3,
		BollingerK:       2,
		HTFBucket:        time.Minute,
		HTFFastPeriod:    2,
		HTFSlowPeriod:    3,
		NoisePct:         0.001,
		NoiseMinTicks:    1,
	}
}

func TestEngineSnapshotReflectsCurrentSample(t *testing.T) {
	e := NewEngine(testParams())
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	snap := e.Update(market.Sample{Time: base, Price: 100, Volume: 10})
	require.True(t, snap.EMAFast.OK)
	assert.Equal(t, 100.0, snap.EMAFast.V)
	assert.Equal(t, 0, snap.GreenTicks)
	assert.True(t, snap.Significant)

	snap = e.Update(market.Sample{Time: base.Add(time.Second), Price: 101, Volume: 10})
	assert.Equal(t, 1, snap.GreenTicks)
	assert.Greater(t, snap.EMAFast.V, snap.EMASlow.V, "fast EMA leads on a rise")
	assert.InDelta(t, 100.5, snap.VWAP.V, 1e-12)
}

func TestEngineResetsSessionStateOnNewDay(t *testing.T) {
	e := NewEngine(testParams())
	day1 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 3, 9, 30, 0, 0, time.UTC)

	e.Update(market.Sample{Time: day1, Price: 100, Volume: 10})
	snap := e.Update(market.Sample{Time: day1.Add(time.Second), Price: 200, Volume: 10})
	assert.InDelta(t, 150.0, snap.VWAP.V, 1e-12)

	// New session day: VWAP starts over at the day's first sample, while
	// the EMAs carry across days.
	snap = e.Update(market.Sample{Time: day2, Price: 300, Volume: 5})
	assert.InDelta(t, 300.0, snap.VWAP.V, 1e-12)
	assert.Less(t, snap.EMASlow.V, 300.0)
}

func TestEngineReset(t *testing.T) {
	e := NewEngine(testParams())
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	e.Update(market.Sample{Time: base, Price: 100, Volume: 10})
	e.Reset()

	snap := e.Update(market.Sample{Time: base.Add(time.Hour), Price: 50, Volume: 1})
	assert.Equal(t, 50.0, snap.EMAFast.V)
	assert.Equal(t, 0, snap.GreenTicks)
}
