// Package stats generates the time buckets used to group series data
// for charting.  A bucket is identified by its boundary timestamp
// formatted at a precision matching the interval, and that label is
// also the aggregation grouping key on the database side: the Go label
// layout and the MySQL DATE_FORMAT pattern here must describe the same
// string.
package stats

import (
    "fmt"
    "time"
)

// Supported query parameter values.
const (
    Range1m  = "1m"
    Range10m = "10m"
    Range1h  = "1h"
    Range1d  = "1d"

    Interval10s = "10s"
    Interval1m  = "1m"
    Interval5m  = "5m"
    Interval15m = "15m"
    Interval1h  = "1h"
)

// ParseTimeRange maps a time_range query value onto a duration.
func ParseTimeRange(s string) (time.Duration, error) {
    switch s {
    case Range1m:
        return time.Minute, nil
    case Range10m:
        return 10 * time.Minute, nil
    case Range1h:
        return time.Hour, nil
    case Range1d:
        return 24 * time.Hour, nil
    }
    return 0, fmt.Errorf("unsupported time_range %q", s)
}

// ParseInterval maps an interval query value onto a step duration.
func ParseInterval(s string) (time.Duration, error) {
    switch s {
    case Interval10s:
        return 10 * time.Second, nil
    case Interval1m:
        return time.Minute, nil
    case Interval5m:
        return 5 * time.Minute, nil
    case Interval15m:
        return 15 * time.Minute, nil
    case Interval1h:
        return time.Hour, nil
    }
    return 0, fmt.Errorf("unsupported interval %q", s)
}

// Boundaries returns every bucket boundary from start to end inclusive,
// stepped by interval.  The list is generated independently of whether
// any data exists, so the caller can zero-fill empty buckets instead of
// omitting them.
func Boundaries(start, end time.Time, step time.Duration) []time.Time {
    out := make([]time.Time, 0, int(end.Sub(start)/step)+1)
    for t := start; !t.After(end); t = t.Add(step) {
        out = append(out, t)
    }
    return out
}

// Label formats a bucket boundary at a precision matching the interval:
// seconds for sub-minute and minute intervals, minutes for 5m/15m and
// hours for 1h.
func Label(t time.Time, interval string) string {
    switch interval {
    case Interval5m, Interval15m:
        return t.UTC().Format("2006-01-02 15:04")
    case Interval1h:
        return t.UTC().Format("2006-01-02 15")
    default: // 10s, 1m
        return t.UTC().Format("2006-01-02 15:04:05")
    }
}

// SQLFormat returns the MySQL DATE_FORMAT pattern producing the same
// string as Label for the given interval.
func SQLFormat(interval string) string {
    switch interval {
    case Interval5m, Interval15m:
        return "%Y-%m-%d %H:%i"
    case Interval1h:
        return "%Y-%m-%d %H"
    default: // 10s, 1m
        return "%Y-%m-%d %H:%i:%s"
    }
}
