package indicators

import (
	"fmt"
	"time"

	"github.com/traderlab/intraday/market"
)

// HTFTrend computes a fast/slow EMA pair on a coarser resampling of the
// same price stream. Samples are bucketed by truncating the timestamp to
// the bucket width; when a bucket closes, its last price feeds both EMAs.
// The trend is bullish while fast > slow on the resampled series.
type HTFTrend struct {
	bucket time.Duration
	fast   *EMA
	slow   *EMA

	cur      time.Time // start of the open bucket
	curClose float64   // last price seen in the open bucket
	haveOpen bool
}

func NewHTFTrend(bucket time.Duration, fastPeriod, slowPeriod int) *HTFTrend {
	return &HTFTrend{
		bucket: bucket,
		fast:   NewEMA(fastPeriod),
		slow:   NewEMA(slowPeriod),
	}
}

func (h *HTFTrend) Name() string {
	return fmt.Sprintf("HTF(%s,%d,%d)", h.bucket, h.fast.period, h.slow.period)
}

func (h *HTFTrend) Update(s market.Sample) {
	start := s.Time.Truncate(h.bucket)

	if h.haveOpen && !start.Equal(h.cur) {
		// The previous bucket closed; fold its close into the EMAs.
		h.fast.UpdatePrice(h.curClose)
		h.slow.UpdatePrice(h.curClose)
	}

	h.cur = start
	h.curClose = s.Price
	h.haveOpen = true
}

// Ready is true once at least one bucket has closed into both EMAs.
func (h *HTFTrend) Ready() bool {
	return h.fast.Ready() && h.slow.Ready()
}

// Bullish reports fast > slow on the resampled series. Only meaningful
// when Ready.
func (h *HTFTrend) Bullish() bool {
	return h.Ready() && h.fast.Value() > h.slow.Value()
}

// Value returns the fast-slow spread for diagnostics.
func (h *HTFTrend) Value() float64 {
	if !h.Ready() {
		return 0
	}
	return h.fast.Value() - h.slow.Value()
}

func (h *HTFTrend) Reset() {
	h.fast.Reset()
	h.slow.Reset()
	h.cur = time.Time{}
	h.curClose = 0
	h.haveOpen = false
}
