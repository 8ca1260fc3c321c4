package model

import "time"

// HistoryRecord is the denormalized closed-stay row written at
// departure time.  It duplicates the billing result kept on the stay so
// that reporting survives a registry reset, which clears the live
// vehicles table but not the history.
type HistoryRecord struct {
    VehicleID       string    `json:"vehicle_id"`
    VehicleType     string    `json:"vehicle_type"`
    SpotID          int       `json:"spot_id"`
    EntryTime       time.Time `json:"entry_time"`
    ExitTime        time.Time `json:"exit_time"`
    DurationMinutes float64   `json:"duration_minutes"`
    Cost            float64   `json:"cost"`
}
