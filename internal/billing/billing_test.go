package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBill(t *testing.T) {
	entry := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		exit         time.Time
		rate         float64
		wantCost     float64
		wantDuration float64
	}{
		{"ten minutes regular", entry.Add(10 * time.Minute), 1.5, 15.0, 10.0},
		{"ten minutes ev", entry.Add(10 * time.Minute), 2.5, 25.0, 10.0},
		{"zero duration", entry, 1.5, 0, 0},
		{"zero rate for unknown type", entry.Add(45 * time.Minute), 0, 0, 45.0},
		{"sub-minute stay", entry.Add(90 * time.Second), 1.5, 2.25, 1.5},
		{"rounding to cents", entry.Add(70 * time.Second), 1.5, 1.75, 1.2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cost, dur := Bill(entry, tc.exit, tc.rate)
			assert.InDelta(t, tc.wantCost, cost, 1e-9)
			assert.InDelta(t, tc.wantDuration, dur, 1e-9)
		})
	}
}

// Cost is computed from the unrounded duration: 10m10s at 1.5/min
// bills 15.25. Billing from the display-rounded 10.2 minutes would
// give 15.30 instead.
func TestBillUsesUnroundedDuration(t *testing.T) {
	entry := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	exit := entry.Add(10*time.Minute + 10*time.Second)

	cost, dur := Bill(entry, exit, 1.5)
	assert.InDelta(t, 15.25, cost, 1e-9)
	assert.InDelta(t, 10.2, dur, 1e-9)
}

func TestTariffsRate(t *testing.T) {
	tariffs := Tariffs{"regular": 1.5, "disabled": 2.0, "ev": 2.5}

	assert.Equal(t, 1.5, tariffs.Rate("regular"))
	assert.Equal(t, 2.5, tariffs.Rate("ev"))
	assert.Equal(t, 0.0, tariffs.Rate("hovercraft"), "unknown category bills at zero")
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 2.35, Round2(2.346))
	assert.Equal(t, 3.14, Round2(3.14159))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 12.5, Round2(12.5))
}
