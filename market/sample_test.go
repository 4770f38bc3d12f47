package market

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSampleValidate(t *testing.T) {
	ts := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		sample Sample
		ok     bool
	}{
		{"valid", Sample{Time: ts, Price: 100, Volume: 10}, true},
		{"zero volume ok", Sample{Time: ts, Price: 100}, true},
		{"zero time", Sample{Price: 100, Volume: 10}, false},
		{"zero price", Sample{Time: ts, Price: 0}, false},
		{"negative price", Sample{Time: ts, Price: -1}, false},
		{"nan price", Sample{Time: ts, Price: math.NaN()}, false},
		{"inf price", Sample{Time: ts, Price: math.Inf(1)}, false},
		{"negative volume", Sample{Time: ts, Price: 100, Volume: -1}, false},
		{"nan volume", Sample{Time: ts, Price: 100, Volume: math.NaN()}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.sample.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrBadSample)
			}
		})
	}
}

func TestSameSessionDay(t *testing.T) {
	a := time.Date(2025, 6, 2, 9, 15, 0, 0, time.UTC)
	assert.True(t, SameSessionDay(a, a.Add(6*time.Hour)))
	assert.False(t, SameSessionDay(a, a.AddDate(0, 0, 1)))
	assert.False(t, SameSessionDay(a, a.Add(15*time.Hour)))
}
