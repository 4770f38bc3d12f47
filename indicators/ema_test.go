package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// walk builds a deterministic wavy price path around 100.
func walk(n int) []float64 {
	prices := make([]float64, n)
	p := 100.0
	for i := range prices {
		p += math.Sin(float64(i)*0.7)*0.9 + 0.03
		prices[i] = p
	}
	return prices
}

func TestEMASeedsWithFirstPrice(t *testing.T) {
	e := NewEMA(10)
	assert.False(t, e.Ready())
	assert.Equal(t, 0.0, e.Value())

	e.UpdatePrice(101.5)
	assert.True(t, e.Ready())
	assert.Equal(t, 101.5, e.Value())
}

func TestEMAStreamingMatchesSeries(t *testing.T) {
	prices := walk(500)

	for _, period := range []int{3, 9, 21} {
		e := NewEMA(period)
		want := Series(prices, period)
		require.Len(t, want, len(prices))

		for i, p := range prices {
			e.UpdatePrice(p)
			require.InEpsilon(t, want[i], e.Value(), 1e-9,
				"EMA(%d) diverged at index %d", period, i)
		}
	}
}

func TestSeriesEmpty(t *testing.T) {
	assert.Nil(t, Series(nil, 5))
}

func TestEMAReset(t *testing.T) {
	e := NewEMA(5)
	e.UpdatePrice(100)
	e.UpdatePrice(101)
	require.True(t, e.Ready())

	e.Reset()
	assert.False(t, e.Ready())

	e.UpdatePrice(50)
	assert.Equal(t, 50.0, e.Value())
}
