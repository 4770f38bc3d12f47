package indicators

import (
	"github.com/traderlab/intraday/market"
)

// VWAP is the session volume-weighted average price. The Engine resets it
// at each session start.
type VWAP struct {
	pv  float64 // cumulative price*volume
	vol float64 // cumulative volume
}

func NewVWAP() *VWAP {
	return &VWAP{}
}

func (v *VWAP) Name() string { return "VWAP" }

func (v *VWAP) Update(s market.Sample) {
	v.pv += s.Price * s.Volume
	v.vol += s.Volume
}

// Ready is false until some volume has traded; a zero-volume session has
// no defined VWAP.
func (v *VWAP) Ready() bool {
	return v.vol > 0
}

func (v *VWAP) Value() float64 {
	if v.vol == 0 {
		return 0
	}
	return v.pv / v.vol
}

func (v *VWAP) Reset() {
	v.pv = 0
	v.vol = 0
}
