package handler

import (
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/smart-parking/internal/billing"
    "github.com/iliyamo/smart-parking/internal/repository"
    "github.com/iliyamo/smart-parking/internal/stats"
)

// StatsHandler serves the read-only aggregation endpoints.  All queries
// run against the vehicle ledger, the departure history and the load
// sample series; nothing here mutates state.
type StatsHandler struct {
    Stays   *repository.StayRepo
    History *repository.HistoryRepo
    Load    *repository.LoadRepo
}

// NewStatsHandler constructs a StatsHandler with the provided
// repositories.
func NewStatsHandler(stays *repository.StayRepo, history *repository.HistoryRepo, load *repository.LoadRepo) *StatsHandler {
    if stays == nil || history == nil || load == nil {
        panic("nil repository passed to NewStatsHandler")
    }
    return &StatsHandler{Stays: stays, History: history, Load: load}
}

// GetStats handles GET /api/stats?days=N.  Closed stays that entered
// within the last N days (default 1) are grouped by hour of entry.
func (h *StatsHandler) GetStats(c echo.Context) error {
    days := 1
    if v := c.QueryParam("days"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil || n < 1 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid days parameter"})
        }
        days = n
    }
    since := time.Now().UTC().AddDate(0, 0, -days)
    rows, err := h.Stays.HourlyStats(c.Request().Context(), since)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": rows})
}

// bucketWindow parses the shared time_range/interval query parameters
// and returns the inclusive bucket boundaries plus the matching label
// format.  Defaults mirror the charting frontend: one hour of data in
// one-minute buckets.
func bucketWindow(c echo.Context) (boundaries []time.Time, start, end time.Time, interval string, err error) {
    timeRange := c.QueryParam("time_range")
    if timeRange == "" {
        timeRange = stats.Range1h
    }
    interval = c.QueryParam("interval")
    if interval == "" {
        interval = stats.Interval1m
    }
    r, err := stats.ParseTimeRange(timeRange)
    if err != nil {
        return nil, time.Time{}, time.Time{}, "", err
    }
    step, err := stats.ParseInterval(interval)
    if err != nil {
        return nil, time.Time{}, time.Time{}, "", err
    }
    end = time.Now().UTC()
    start = end.Add(-r)
    return stats.Boundaries(start, end, step), start, end, interval, nil
}

// vehicleBucketResponse is one row of GET /api/stats/vehicles.
type vehicleBucketResponse struct {
    Timestamp      string  `json:"timestamp"`
    Count          int     `json:"count"`
    OccupiedSpots  float64 `json:"occupied_spots"`
    LoadPercentage float64 `json:"load_percentage"`
}

// GetVehicleStats handles GET /api/stats/vehicles.  Buckets with no
// load samples still appear with zero-valued fields.
func (h *StatsHandler) GetVehicleStats(c echo.Context) error {
    boundaries, start, end, interval, err := bucketWindow(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    rows, err := h.Load.VehicleBuckets(c.Request().Context(), start, end, stats.SQLFormat(interval))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]vehicleBucketResponse, 0, len(boundaries))
    for _, b := range boundaries {
        label := stats.Label(b, interval)
        row := vehicleBucketResponse{Timestamp: label}
        if agg, ok := rows[label]; ok {
            row.Count = agg.Count
            row.OccupiedSpots = billing.Round2(agg.OccupiedSpots)
            row.LoadPercentage = billing.Round2(agg.LoadPct)
        }
        out = append(out, row)
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": out})
}

// revenueBucketResponse is one row of GET /api/stats/revenue.
type revenueBucketResponse struct {
    Timestamp string  `json:"timestamp"`
    Revenue   float64 `json:"revenue"`
    Count     int     `json:"count"`
}

// GetRevenueStats handles GET /api/stats/revenue, grouping departures
// by exit time.
func (h *StatsHandler) GetRevenueStats(c echo.Context) error {
    boundaries, start, end, interval, err := bucketWindow(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    rows, err := h.History.RevenueBuckets(c.Request().Context(), start, end, stats.SQLFormat(interval))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]revenueBucketResponse, 0, len(boundaries))
    for _, b := range boundaries {
        label := stats.Label(b, interval)
        row := revenueBucketResponse{Timestamp: label}
        if agg, ok := rows[label]; ok {
            row.Revenue = billing.Round2(agg.Revenue)
            row.Count = agg.Count
        }
        out = append(out, row)
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": out})
}

// durationBucketResponse is one row of GET /api/stats/duration.
type durationBucketResponse struct {
    Timestamp   string  `json:"timestamp"`
    AvgDuration float64 `json:"avg_duration"`
    MinDuration float64 `json:"min_duration"`
    MaxDuration float64 `json:"max_duration"`
    Count       int     `json:"count"`
}

// GetDurationStats handles GET /api/stats/duration.
func (h *StatsHandler) GetDurationStats(c echo.Context) error {
    boundaries, start, end, interval, err := bucketWindow(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    rows, err := h.History.DurationBuckets(c.Request().Context(), start, end, stats.SQLFormat(interval))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]durationBucketResponse, 0, len(boundaries))
    for _, b := range boundaries {
        label := stats.Label(b, interval)
        row := durationBucketResponse{Timestamp: label}
        if agg, ok := rows[label]; ok {
            row.AvgDuration = billing.Round2(agg.Avg)
            row.MinDuration = billing.Round2(agg.Min)
            row.MaxDuration = billing.Round2(agg.Max)
            row.Count = agg.Count
        }
        out = append(out, row)
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": out})
}

// GetTotalRevenue handles GET /api/stats/total-revenue: the sum of cost
// over every departure ever recorded, zero when none exist.
func (h *StatsHandler) GetTotalRevenue(c echo.Context) error {
    total, err := h.History.TotalRevenue(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "status": "success",
        "data":   echo.Map{"total_revenue": billing.Round2(total)},
    })
}
