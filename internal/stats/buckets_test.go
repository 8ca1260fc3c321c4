package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"1m", time.Minute},
		{"10m", 10 * time.Minute},
		{"1h", time.Hour},
		{"1d", 24 * time.Hour},
	}
	for _, tc := range tests {
		d, err := ParseTimeRange(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, d, tc.in)
	}

	_, err := ParseTimeRange("2w")
	assert.Error(t, err)
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"10s", 10 * time.Second},
		{"1m", time.Minute},
		{"5m", 5 * time.Minute},
		{"15m", 15 * time.Minute},
		{"1h", time.Hour},
	}
	for _, tc := range tests {
		d, err := ParseInterval(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, d, tc.in)
	}

	_, err := ParseInterval("30s")
	assert.Error(t, err)
}

// One minute stepped by ten seconds yields exactly seven boundaries,
// both ends inclusive.
func TestBoundariesOneMinuteTenSeconds(t *testing.T) {
	end := time.Date(2025, 3, 1, 12, 1, 0, 0, time.UTC)
	start := end.Add(-time.Minute)

	got := Boundaries(start, end, 10*time.Second)

	require.Len(t, got, 7)
	assert.Equal(t, start, got[0])
	assert.Equal(t, end, got[6])
}

// Every supported (time_range, interval) pair produces
// range/interval + 1 boundaries.
func TestBoundariesCountAllPairs(t *testing.T) {
	end := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, rs := range []string{Range1m, Range10m, Range1h, Range1d} {
		for _, is := range []string{Interval10s, Interval1m, Interval5m, Interval15m, Interval1h} {
			r, err := ParseTimeRange(rs)
			require.NoError(t, err)
			step, err := ParseInterval(is)
			require.NoError(t, err)

			got := Boundaries(end.Add(-r), end, step)
			assert.Len(t, got, int(r/step)+1, "%s/%s", rs, is)
		}
	}
}

func TestLabelPrecision(t *testing.T) {
	ts := time.Date(2025, 3, 1, 9, 7, 42, 0, time.UTC)

	assert.Equal(t, "2025-03-01 09:07:42", Label(ts, Interval10s))
	assert.Equal(t, "2025-03-01 09:07:42", Label(ts, Interval1m))
	assert.Equal(t, "2025-03-01 09:07", Label(ts, Interval5m))
	assert.Equal(t, "2025-03-01 09:07", Label(ts, Interval15m))
	assert.Equal(t, "2025-03-01 09", Label(ts, Interval1h))
}

func TestSQLFormatMatchesLabel(t *testing.T) {
	// The DATE_FORMAT pattern must describe the same string Label
	// produces, since the label doubles as the grouping key.
	assert.Equal(t, "%Y-%m-%d %H:%i:%s", SQLFormat(Interval10s))
	assert.Equal(t, "%Y-%m-%d %H:%i:%s", SQLFormat(Interval1m))
	assert.Equal(t, "%Y-%m-%d %H:%i", SQLFormat(Interval5m))
	assert.Equal(t, "%Y-%m-%d %H:%i", SQLFormat(Interval15m))
	assert.Equal(t, "%Y-%m-%d %H", SQLFormat(Interval1h))
}
