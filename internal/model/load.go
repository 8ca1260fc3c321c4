package model

import "time"

// LoadSample is a point-in-time occupancy percentage snapshot.  One
// sample is appended after every arrival and departure; the series is
// append-only and read back by the bucketed vehicle statistics.
type LoadSample struct {
    Timestamp      time.Time `json:"timestamp"`
    OccupiedSpots  int       `json:"occupied_spots"`
    TotalSpots     int       `json:"total_spots"`
    LoadPercentage float64   `json:"load_percentage"`
}
