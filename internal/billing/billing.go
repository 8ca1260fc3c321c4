// Package billing computes the amount owed for a completed stay from
// the configured per-minute tariff table.
package billing

import (
    "math"
    "time"
)

// Tariffs maps a vehicle category to its per-minute rate.  An unknown
// category bills at zero; this is a documented leniency, not an error.
type Tariffs map[string]float64

// Rate returns the per-minute rate for the category, or 0 when the
// category is unknown.
func (t Tariffs) Rate(category string) float64 {
    return t[category]
}

// Bill computes the cost of a stay from entry to exit at the given
// per-minute rate.  The cost is computed from the unrounded duration
// and rounded to 2 decimal places; the returned duration is rounded to
// 1 decimal place for display.
func Bill(entry, exit time.Time, rate float64) (cost, durationMinutes float64) {
    minutes := exit.Sub(entry).Minutes()
    return Round2(minutes * rate), round1(minutes)
}

// Round2 rounds to 2 decimal places, the precision used for all money
// and percentage values in API responses.
func Round2(v float64) float64 {
    return math.Round(v*100) / 100
}

func round1(v float64) float64 {
    return math.Round(v*10) / 10
}
