// Package engine drives the indicator engine, signal evaluator and capital
// ledger across a sample sequence.
//
// Both delivery modes run the same per-sample step: update indicator state,
// then evaluate signals against that same sample, then apply ledger
// mutations. Batch mode iterates a complete series; incremental mode
// consumes one sample at a time via Push or a polling Feed loop. Having
// processed the same prefix of a series, both modes are in identical state
// — this is the system's defining correctness property.
//
// The driver is single-writer: one goroutine owns the step at a time, and
// all ledger mutation happens inside it. The hot path performs no blocking
// I/O; journal records are buffered and flushed at run end via Finish.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/traderlab/intraday/config"
	"github.com/traderlab/intraday/indicators"
	"github.com/traderlab/intraday/journal"
	"github.com/traderlab/intraday/ledger"
	"github.com/traderlab/intraday/market"
	"github.com/traderlab/intraday/signal"
)

// DecisionEvent is emitted for every evaluated sample. External telemetry
// throttles and persists these as it sees fit.
type DecisionEvent struct {
	Time     time.Time
	Decision string
	Reasons  []string
}

// Listener receives decision events synchronously on the driver goroutine.
// Implementations must not call back into the driver.
type Listener interface {
	OnDecision(DecisionEvent)
}

// Options configures optional driver collaborators.
type Options struct {
	// CloseEnd closes any open position at the last seen price when the
	// run finishes, reason "session end".
	CloseEnd bool

	// Journal, when set, receives buffered trade and decision records on
	// Finish. Never written on the hot path.
	Journal journal.Journal

	Listener Listener
	Logger   *zerolog.Logger
}

// Driver orchestrates one run. Construct a fresh Driver per run; state is
// scoped to the instance, never process-wide.
type Driver struct {
	cfg  config.Config
	log  zerolog.Logger
	ind  *indicators.Engine
	eval *signal.Evaluator
	led  *ledger.Ledger
	opts Options

	day               time.Time
	haveDay           bool
	entriesSuppressed bool // daily loss limit hit
	dayDone           bool // daily position limit hit, entry work short-circuited

	last     market.Sample
	haveLast bool

	loggedOnce map[string]struct{}
	stopped    atomic.Bool
	finished   bool

	pendingTrades    []journal.TradeRecord
	pendingDecisions []journal.DecisionRecord
}

// New builds a driver from a validated configuration.
func New(cfg config.Config, opts Options) *Driver {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	params := indicators.Params{
		FastEMAPeriod:    cfg.Strategy.FastEMAPeriod,
		SlowEMAPeriod:    cfg.Strategy.SlowEMAPeriod,
		MACDFastPeriod:   cfg.Strategy.MACDFastPeriod,
		MACDSlowPeriod:   cfg.Strategy.MACDSlowPeriod,
		MACDSignalPeriod: cfg.Strategy.MACDSignalPeriod,
		RSIPeriod:        cfg.Strategy.RSIPeriod,
		ATRPeriod:        cfg.Strategy.ATRPeriod,
		BollingerPeriod:  cfg.Strategy.BollingerPeriod,
		BollingerK:       cfg.Strategy.BollingerK,
		HTFBucket:        time.Duration(cfg.Strategy.HTFSeconds) * time.Second,
		HTFFastPeriod:    cfg.Strategy.HTFFastPeriod,
		HTFSlowPeriod:    cfg.Strategy.HTFSlowPeriod,
		NoisePct:         cfg.Strategy.NoisePct,
		NoiseMinTicks:    cfg.Strategy.NoiseMinTicks,
	}

	return &Driver{
		cfg:        cfg,
		log:        log,
		ind:        indicators.NewEngine(params),
		eval:       signal.New(cfg),
		led:        ledger.New(cfg),
		opts:       opts,
		loggedOnce: make(map[string]struct{}),
	}
}

// Ledger exposes the run's ledger for summaries and trade history.
func (d *Driver) Ledger() *ledger.Ledger { return d.led }

// RunBatch processes a complete, time-ordered series and finishes the run.
func (d *Driver) RunBatch(ctx context.Context, samples []market.Sample) error {
	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.stopped.Load() {
			break
		}
		if err := d.step(s); err != nil {
			return err
		}
	}
	return d.Finish()
}

// RunFeed polls samples from a feed until exhaustion, stop, or
// cancellation, then finishes the run. The stop flag is checked once per
// sample.
func (d *Driver) RunFeed(ctx context.Context, feed Feed) error {
	defer feed.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.stopped.Load() {
			break
		}
		s, ok, err := feed.Next()
		if err != nil {
			return fmt.Errorf("feed: %w", err)
		}
		if !ok {
			break
		}
		if err := d.step(s); err != nil {
			return err
		}
	}
	return d.Finish()
}

// Push delivers one sample synchronously (callback-style incremental
// delivery). The caller must serialize calls and call Finish at the end of
// the stream.
func (d *Driver) Push(s market.Sample) error {
	if d.stopped.Load() {
		return nil
	}
	return d.step(s)
}

// Stop requests a cooperative stop; the running loop exits before the next
// sample.
func (d *Driver) Stop() {
	d.stopped.Store(true)
}

// step is the single update-then-evaluate path shared by every delivery
// mode. Indicator and counter state always reflect the current sample
// before any gate is evaluated against it.
func (d *Driver) step(s market.Sample) error {
	if err := s.Validate(); err != nil {
		// Data-quality failure: skip the sample, never halt the run.
		d.log.Warn().Err(err).Msg("skipping sample")
		return nil
	}

	d.rollDay(s.Time)
	d.led.Roll(s.Time)

	snap := d.ind.Update(s)
	d.last = s
	d.haveLast = true

	if d.led.HasOpenPosition() {
		return d.stepExits(snap, s)
	}
	return d.stepEntry(snap, s)
}

func (d *Driver) stepExits(snap indicators.Snapshot, s market.Sample) error {
	d.led.ObservePrice(s.Price)

	pos := d.led.Open()
	for _, ord := range d.eval.EvaluateExits(pos, d.led, s) {
		trade, err := d.led.ApplyExit(pos.ID, ord.Qty, s.Price, s.Time, ord.Reason)
		if err != nil {
			return fmt.Errorf("apply exit: %w", err)
		}
		if ord.TakeProfit && d.led.HasOpenPosition() {
			if err := d.led.ConsumeLeg(pos.ID); err != nil {
				return fmt.Errorf("consume ladder leg: %w", err)
			}
		}
		if ord.SuppressEntries {
			d.entriesSuppressed = true
			d.log.Info().Time("ts", s.Time).Msg("daily loss limit hit, entries suppressed")
		}
		d.bufferTrade(trade)
		d.emit(s.Time, signal.Sell.String(), []string{ord.Reason})
	}
	return nil
}

func (d *Driver) stepEntry(snap indicators.Snapshot, s market.Sample) error {
	if d.entriesSuppressed {
		return nil
	}
	if d.dayDone {
		// Position limit already reached today; entry evaluation cannot
		// change the outcome, so skip the check work entirely.
		return nil
	}
	if d.led.TradesToday() >= d.cfg.Risk.MaxPositionsPerDay {
		d.dayDone = true
		return nil
	}

	dec := d.eval.EvaluateEntry(snap, d.led, s)
	if dec.Action != signal.Buy {
		d.emit(s.Time, dec.Action.String(), dec.Reasons)
		return nil
	}

	stop, ladder := d.eval.BuildBracket(s.Price)
	_, err := d.led.OpenPosition(s.Price, s.Time, d.cfg.Risk.Quantity, stop, ladder)
	if errors.Is(err, ledger.ErrInsufficientCapital) {
		d.logOnce("insufficient-capital", err)
		d.emit(s.Time, signal.Hold.String(), []string{"insufficient capital"})
		return nil
	}
	if err != nil {
		return fmt.Errorf("open position: %w", err)
	}
	d.emit(s.Time, signal.Buy.String(), nil)
	return nil
}

func (d *Driver) rollDay(t time.Time) {
	if d.haveDay && market.SameSessionDay(d.day, t) {
		return
	}
	d.day = t
	d.haveDay = true
	d.entriesSuppressed = false
	d.dayDone = false
}

// Finish closes any open position (when CloseEnd is set) and flushes
// buffered journal records. Idempotent.
func (d *Driver) Finish() error {
	if d.finished {
		return nil
	}
	d.finished = true

	if d.opts.CloseEnd && d.led.HasOpenPosition() && d.haveLast {
		pos := d.led.Open()
		trade, err := d.led.ApplyExit(pos.ID, pos.RemainingQty, d.last.Price, d.last.Time, "session end")
		if err != nil {
			return fmt.Errorf("close at end: %w", err)
		}
		d.bufferTrade(trade)
		d.emit(d.last.Time, signal.Sell.String(), []string{"session end"})
	}

	return d.Flush()
}

// Flush writes buffered records to the journal, if one is configured.
// Runs at session boundaries, never per sample.
func (d *Driver) Flush() error {
	if d.opts.Journal == nil {
		d.pendingTrades = nil
		d.pendingDecisions = nil
		return nil
	}
	for _, rec := range d.pendingTrades {
		if err := d.opts.Journal.RecordTrade(rec); err != nil {
			return fmt.Errorf("journal trade: %w", err)
		}
	}
	for _, rec := range d.pendingDecisions {
		if err := d.opts.Journal.RecordDecision(rec); err != nil {
			return fmt.Errorf("journal decision: %w", err)
		}
	}
	d.pendingTrades = nil
	d.pendingDecisions = nil
	return nil
}

// emit delivers the event to the listener and, for non-HOLD decisions,
// buffers it for the journal. HOLD events flow to the listener only; the
// external consumer throttles them.
func (d *Driver) emit(t time.Time, decision string, reasons []string) {
	ev := DecisionEvent{Time: t, Decision: decision, Reasons: reasons}
	if d.opts.Listener != nil {
		d.opts.Listener.OnDecision(ev)
	}
	if decision != signal.Hold.String() {
		d.pendingDecisions = append(d.pendingDecisions, journal.DecisionRecord{
			Time:     t,
			Decision: decision,
			Reasons:  strings.Join(reasons, ";"),
		})
	}
}

func (d *Driver) bufferTrade(t ledger.Trade) {
	gross, _ := t.GrossPnL.Float64()
	comm, _ := t.Commission.Float64()
	net, _ := t.NetPnL.Float64()
	d.pendingTrades = append(d.pendingTrades, journal.TradeRecord{
		TradeID:    t.TradeID,
		PositionID: t.PositionID,
		Symbol:     d.cfg.Instrument.Symbol,
		EntryTime:  t.EntryTime,
		ExitTime:   t.ExitTime,
		EntryPrice: t.EntryPrice,
		ExitPrice:  t.ExitPrice,
		Quantity:   t.Quantity,
		GrossPnL:   gross,
		Commission: comm,
		NetPnL:     net,
		ExitReason: t.ExitReason,
	})
}

// logOnce records recoverable conditions once per occurrence pattern
// rather than once per sample.
func (d *Driver) logOnce(pattern string, err error) {
	if _, seen := d.loggedOnce[pattern]; seen {
		return
	}
	d.loggedOnce[pattern] = struct{}{}
	d.log.Warn().Err(err).Str("pattern", pattern).Msg("entry rejected")
}
