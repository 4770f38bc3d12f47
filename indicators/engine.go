package indicators

import (
	"time"

	"github.com/traderlab/intraday/market"
)

// Params configures the engine's indicator set. The driver maps the frozen
// strategy configuration onto this.
type Params struct {
	FastEMAPeriod    int
	SlowEMAPeriod    int
	MACDFastPeriod   int
	MACDSlowPeriod   int
	MACDSignalPeriod int
	RSIPeriod        int
	ATRPeriod        int
	BollingerPeriod  int
	BollingerK       float64
	HTFBucket        time.Duration
	HTFFastPeriod    int
	HTFSlowPeriod    int
	NoisePct         float64
	NoiseMinTicks    int
}

// Engine owns all indicator state for one run. For each sample it updates
// every recurrence, then returns the resulting snapshot; consumers never
// see intermediate state. Single-writer: the execution driver is the only
// caller of Update.
type Engine struct {
	fast  *EMA
	slow  *EMA
	macd  *MACD
	vwap  *VWAP
	rsi   *RSI
	atr   *ATR
	boll  *Bollinger
	htf   *HTFTrend
	green *GreenTicks
	noise *NoiseFilter

	day     time.Time
	haveDay bool
}

func NewEngine(p Params) *Engine {
	return &Engine{
		fast:  NewEMA(p.FastEMAPeriod),
		slow:  NewEMA(p.SlowEMAPeriod),
		macd:  NewMACD(p.MACDFastPeriod, p.MACDSlowPeriod, p.MACDSignalPeriod),
		vwap:  NewVWAP(),
		rsi:   NewRSI(p.RSIPeriod),
		atr:   NewATR(p.ATRPeriod),
		boll:  NewBollinger(p.BollingerPeriod, p.BollingerK),
		htf:   NewHTFTrend(p.HTFBucket, p.HTFFastPeriod, p.HTFSlowPeriod),
		green: NewGreenTicks(),
		noise: NewNoiseFilter(p.NoisePct, p.NoiseMinTicks),
	}
}

// Update consumes the next sample and returns the current snapshot. The
// session-scoped VWAP and noise filter reset when the sample crosses a
// session-day boundary.
func (e *Engine) Update(s market.Sample) Snapshot {
	if !e.haveDay || !market.SameSessionDay(e.day, s.Time) {
		e.vwap.Reset()
		e.noise.Reset()
		e.day = s.Time
		e.haveDay = true
	}

	e.fast.Update(s)
	e.slow.Update(s)
	e.macd.Update(s)
	e.vwap.Update(s)
	e.rsi.Update(s)
	e.atr.Update(s)
	e.boll.Update(s)
	e.htf.Update(s)
	e.green.Update(s)
	significant := e.noise.Observe(s.Price)

	mid, upper, lower := e.boll.Bands()

	return Snapshot{
		EMAFast:     value(e.fast.Value(), e.fast.Ready()),
		EMASlow:     value(e.slow.Value(), e.slow.Ready()),
		MACD:        value(e.macd.Line(), e.macd.Ready()),
		MACDSignal:  value(e.macd.Signal(), e.macd.Ready()),
		MACDHist:    value(e.macd.Histogram(), e.macd.Ready()),
		VWAP:        value(e.vwap.Value(), e.vwap.Ready()),
		RSI:         value(e.rsi.Value(), e.rsi.Ready()),
		ATR:         value(e.atr.Value(), e.atr.Ready()),
		BollMid:     value(mid, e.boll.Ready()),
		BollUpper:   value(upper, e.boll.Ready()),
		BollLower:   value(lower, e.boll.Ready()),
		HTFReady:    e.htf.Ready(),
		HTFBullish:  e.htf.Bullish(),
		GreenTicks:  e.green.Count(),
		Significant: significant,
	}
}

// Reset clears all indicator state, returning the engine to the start of
// a fresh run.
func (e *Engine) Reset() {
	e.fast.Reset()
	e.slow.Reset()
	e.macd.Reset()
	e.vwap.Reset()
	e.rsi.Reset()
	e.atr.Reset()
	e.boll.Reset()
	e.htf.Reset()
	e.green.Reset()
	e.noise.Reset()
	e.haveDay = false
}
