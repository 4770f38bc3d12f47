package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traderlab/intraday/config"
	"github.com/traderlab/intraday/ledger"
	"github.com/traderlab/intraday/market"
)

func testConfig() config.Config {
	return config.Config{
		Instrument: config.InstrumentConfig{Symbol: "NIFTY", TickSize: 0.05},
		Capital:    config.CapitalConfig{Initial: 1000000, CommissionRate: 0.001},
		Risk: config.RiskConfig{
			Quantity:           10,
			StopLossPoints:     50,
			TrailingStopPoints: 0,
			MaxPositionsPerDay: 2,
			MaxDailyLoss:       10000,
			TakeProfitPoints:   []float64{10, 20},
			TakeProfitPercents: []float64{0.5, 0.5},
		},
		Session: config.SessionConfig{
			Start:          "09:15",
			End:            "15:30",
			StartBufferMin: 15,
			EndBufferMin:   15,
		},
		Strategy: config.StrategyConfig{
			FastEMAPeriod:    2,
			SlowEMAPeriod:    5,
			MACDFastPeriod:   3,
			MACDSlowPeriod:   10,
			MACDSignalPeriod: 3,
			RSIPeriod:        3,
			RSIMin:           0,
			RSIMax:           100,
			ATRPeriod:        3,
			BollingerPeriod:  3,
			BollingerK:       2,
			HTFSeconds:       60,
			HTFFastPeriod:    2,
			HTFSlowPeriod:    3,
			GreenTickMin:     0,
			NoisePct:         0,
			NoiseMinTicks:    1,
			Checks:           config.ChecksConfig{EMACrossover: true},
		},
	}
}

var sessionBase = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

// series builds one sample per minute from the base time.
func series(prices ...float64) []market.Sample {
	out := make([]market.Sample, len(prices))
	for i, p := range prices {
		out[i] = market.Sample{Time: sessionBase.Add(time.Duration(i) * time.Minute), Price: p, Volume: 10}
	}
	return out
}

// rising is a steady climb from 100 to 130 that opens, ladders out, re-enters
// and leaves the second position open for the end-of-run close.
func rising() []market.Sample {
	prices := make([]float64, 31)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	return series(prices...)
}

type recorder struct {
	events []DecisionEvent
}

func (r *recorder) OnDecision(ev DecisionEvent) {
	r.events = append(r.events, ev)
}

// tradeKey is the identity-free view of a trade used to compare runs.
type tradeKey struct {
	EntryPrice float64
	ExitPrice  float64
	Qty        float64
	Reason     string
	ExitTime   time.Time
}

func tradeKeys(trades []ledger.Trade) []tradeKey {
	out := make([]tradeKey, len(trades))
	for i, t := range trades {
		out[i] = tradeKey{
			EntryPrice: t.EntryPrice,
			ExitPrice:  t.ExitPrice,
			Qty:        t.Quantity,
			Reason:     t.ExitReason,
			ExitTime:   t.ExitTime,
		}
	}
	return out
}

func TestBatchAndIncrementalEquivalence(t *testing.T) {
	cfg := testConfig()
	samples := rising()

	// Batch over the whole series.
	batchRec := &recorder{}
	batch := New(cfg, Options{CloseEnd: true, Listener: batchRec})
	require.NoError(t, batch.RunBatch(context.Background(), samples))

	// Push-style incremental delivery, one sample at a time.
	pushRec := &recorder{}
	push := New(cfg, Options{CloseEnd: true, Listener: pushRec})
	for _, s := range samples {
		require.NoError(t, push.Push(s))
	}
	require.NoError(t, push.Finish())

	// Feed-loop delivery through a producer goroutine.
	feedRec := &recorder{}
	feedDrv := New(cfg, Options{CloseEnd: true, Listener: feedRec})
	feed := NewChannelFeed(8)
	go func() {
		defer feed.Close()
		for _, s := range samples {
			feed.Push(s)
		}
	}()
	require.NoError(t, feedDrv.RunFeed(context.Background(), feed))

	wantTrades := tradeKeys(batch.Ledger().Trades())
	require.NotEmpty(t, wantTrades)
	assert.Equal(t, wantTrades, tradeKeys(push.Ledger().Trades()))
	assert.Equal(t, wantTrades, tradeKeys(feedDrv.Ledger().Trades()))

	assert.Equal(t, batchRec.events, pushRec.events)
	assert.Equal(t, batchRec.events, feedRec.events)

	mark := samples[len(samples)-1].Price
	assert.Equal(t, batch.Ledger().Summarize(mark), push.Ledger().Summarize(mark))
	assert.Equal(t, batch.Ledger().Summarize(mark), feedDrv.Ledger().Summarize(mark))
}

func TestRunLifecycle(t *testing.T) {
	cfg := testConfig()
	rec := &recorder{}
	drv := New(cfg, Options{CloseEnd: true, Listener: rec})
	require.NoError(t, drv.RunBatch(context.Background(), rising()))

	// Climb: hold at 100, enter at 101, ladder out at 111 and 121,
	// re-enter at 122, session-end close of the second position at 130.
	trades := drv.Ledger().Trades()
	require.Len(t, trades, 3)

	assert.Equal(t, 101.0, trades[0].EntryPrice)
	assert.Equal(t, 111.0, trades[0].ExitPrice)
	assert.Equal(t, 5.0, trades[0].Quantity)
	assert.Equal(t, "take profit 1", trades[0].ExitReason)

	assert.Equal(t, 121.0, trades[1].ExitPrice)
	assert.Equal(t, 5.0, trades[1].Quantity)
	assert.Equal(t, "take profit 2", trades[1].ExitReason)

	assert.Equal(t, 122.0, trades[2].EntryPrice)
	assert.Equal(t, 130.0, trades[2].ExitPrice)
	assert.Equal(t, 10.0, trades[2].Quantity)
	assert.Equal(t, "session end", trades[2].ExitReason)

	assert.False(t, drv.Ledger().HasOpenPosition())
	assert.Equal(t, 2, drv.Ledger().TradesToday())

	var decisions []string
	for _, ev := range rec.events {
		decisions = append(decisions, ev.Decision)
	}
	assert.Equal(t, []string{"HOLD", "BUY", "SELL", "SELL", "BUY", "SELL"}, decisions)
}

func TestMaxPositionsPerDayStopsEntries(t *testing.T) {
	cfg := testConfig()
	cfg.Risk.MaxPositionsPerDay = 1

	rec := &recorder{}
	drv := New(cfg, Options{Listener: rec})
	require.NoError(t, drv.RunBatch(context.Background(), rising()))

	// One position, fully laddered out; the rest of the climb is ignored.
	assert.Equal(t, 1, drv.Ledger().TradesToday())
	assert.Len(t, drv.Ledger().Trades(), 2)
	assert.False(t, drv.Ledger().HasOpenPosition())

	buys := 0
	for _, ev := range rec.events {
		if ev.Decision == "BUY" {
			buys++
		}
	}
	assert.Equal(t, 1, buys)
}

func TestDailyLossSuppressionAndNextDayReset(t *testing.T) {
	cfg := testConfig()
	cfg.Risk.MaxDailyLoss = 40

	day1 := series(100, 101, 97, 98, 99, 100, 101, 102)
	day2 := make([]market.Sample, 0, 3)
	for i, p := range []float64{103, 104, 105} {
		day2 = append(day2, market.Sample{
			Time:   sessionBase.AddDate(0, 0, 1).Add(time.Duration(i) * time.Minute),
			Price:  p,
			Volume: 10,
		})
	}

	rec := &recorder{}
	drv := New(cfg, Options{Listener: rec})
	require.NoError(t, drv.RunBatch(context.Background(), append(day1, day2...)))

	trades := drv.Ledger().Trades()
	require.NotEmpty(t, trades)
	assert.Equal(t, "daily loss limit", trades[0].ExitReason)
	assert.Equal(t, 97.0, trades[0].ExitPrice)

	// No re-entry on day 1 despite the recovery; day 2 trades again.
	var day2Buy bool
	for _, ev := range rec.events {
		if ev.Decision != "BUY" {
			continue
		}
		require.False(t, market.SameSessionDay(ev.Time, day1[0].Time) && ev.Time.After(trades[0].ExitTime),
			"BUY after the loss limit on the same day")
		if market.SameSessionDay(ev.Time, day2[0].Time) {
			day2Buy = true
		}
	}
	assert.True(t, day2Buy, "suppression must lift on the next session day")
}

func TestTrailingStopExit(t *testing.T) {
	cfg := testConfig()
	cfg.Risk.TrailingStopPoints = 5
	cfg.Risk.TakeProfitPoints = []float64{1000}
	cfg.Risk.TakeProfitPercents = []float64{1}

	drv := New(cfg, Options{})
	require.NoError(t, drv.RunBatch(context.Background(), series(100, 101, 107, 101)))

	trades := drv.Ledger().Trades()
	require.Len(t, trades, 1)
	assert.Equal(t, "trailing stop", trades[0].ExitReason)
	assert.Equal(t, 101.0, trades[0].ExitPrice)
	assert.Equal(t, 10.0, trades[0].Quantity)
}

func TestBadSamplesAreSkipped(t *testing.T) {
	cfg := testConfig()
	clean := rising()

	dirty := make([]market.Sample, 0, len(clean)+2)
	dirty = append(dirty, clean[:5]...)
	dirty = append(dirty, market.Sample{Time: clean[5].Time, Price: 0, Volume: 10})
	dirty = append(dirty, market.Sample{Price: 100, Volume: 10}) // zero timestamp
	dirty = append(dirty, clean[5:]...)

	a := New(cfg, Options{CloseEnd: true})
	require.NoError(t, a.RunBatch(context.Background(), clean))
	b := New(cfg, Options{CloseEnd: true})
	require.NoError(t, b.RunBatch(context.Background(), dirty))

	assert.Equal(t, tradeKeys(a.Ledger().Trades()), tradeKeys(b.Ledger().Trades()))
}

func TestInsufficientCapitalHolds(t *testing.T) {
	cfg := testConfig()
	cfg.Capital.Initial = 500 // a 10-lot at ~100 needs over 1000

	rec := &recorder{}
	drv := New(cfg, Options{Listener: rec})
	require.NoError(t, drv.RunBatch(context.Background(), series(100, 101, 102)))

	assert.Empty(t, drv.Ledger().Trades())
	assert.False(t, drv.Ledger().HasOpenPosition())

	var held bool
	for _, ev := range rec.events {
		require.NotEqual(t, "BUY", ev.Decision)
		if ev.Decision == "HOLD" && len(ev.Reasons) == 1 && ev.Reasons[0] == "insufficient capital" {
			held = true
		}
	}
	assert.True(t, held)
}

func TestRunBatchHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	drv := New(testConfig(), Options{})
	err := drv.RunBatch(ctx, rising())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFinishIdempotent(t *testing.T) {
	drv := New(testConfig(), Options{CloseEnd: true})
	require.NoError(t, drv.RunBatch(context.Background(), rising()))

	trades := len(drv.Ledger().Trades())
	require.NoError(t, drv.Finish())
	require.NoError(t, drv.Finish())
	assert.Len(t, drv.Ledger().Trades(), trades)
}

func TestJournalReceivesBufferedRecords(t *testing.T) {
	jnl := &memJournal{}
	drv := New(testConfig(), Options{CloseEnd: true, Journal: jnl})
	require.NoError(t, drv.RunBatch(context.Background(), rising()))

	assert.Len(t, jnl.trades, 3)
	assert.Equal(t, "NIFTY", jnl.trades[0].Symbol)

	// BUY and SELL events are journaled; HOLDs are listener-only.
	for _, d := range jnl.decisions {
		assert.NotEqual(t, "HOLD", d.Decision)
	}
	assert.NotEmpty(t, jnl.decisions)
}
