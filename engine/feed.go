package engine

import (
	"sync"

	"github.com/traderlab/intraday/market"
)

// Feed yields samples one at a time. Implementations are deterministic and
// return ok=false at end of stream.
type Feed interface {
	Next() (s market.Sample, ok bool, err error)
	Close() error
}

// SliceFeed replays an in-memory sample sequence.
type SliceFeed struct {
	samples []market.Sample
	index   int
}

func NewSliceFeed(samples []market.Sample) *SliceFeed {
	return &SliceFeed{samples: samples}
}

func (f *SliceFeed) Next() (market.Sample, bool, error) {
	if f.index >= len(f.samples) {
		return market.Sample{}, false, nil
	}
	s := f.samples[f.index]
	f.index++
	return s, true, nil
}

func (f *SliceFeed) Close() error { return nil }

// ChannelFeed adapts a producer goroutine (a live feed or simulator) to the
// polling driver loop. The producer pushes samples and closes the feed when
// done; Next blocks until a sample arrives or the channel closes, which
// bounds the driver's join latency on stop.
type ChannelFeed struct {
	ch   chan market.Sample
	once sync.Once
}

func NewChannelFeed(buffer int) *ChannelFeed {
	return &ChannelFeed{ch: make(chan market.Sample, buffer)}
}

// Push delivers one sample to the consuming driver.
func (f *ChannelFeed) Push(s market.Sample) {
	f.ch <- s
}

func (f *ChannelFeed) Next() (market.Sample, bool, error) {
	s, ok := <-f.ch
	return s, ok, nil
}

// Close is safe to call from both the producer and the consuming driver.
func (f *ChannelFeed) Close() error {
	f.once.Do(func() { close(f.ch) })
	return nil
}
