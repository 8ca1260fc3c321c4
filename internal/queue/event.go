// Package queue defines message payloads exchanged over the message broker.
package queue

// ParkingEvent is published on every arrival and departure.  It carries
// enough information for downstream consumers to log or trigger
// analytics without querying the primary database.
type ParkingEvent struct {
    Event           string  `json:"event"` // "arrived" or "departed"
    VehicleID       string  `json:"vehicle_id"`
    VehicleType     string  `json:"vehicle_type"`
    SpotID          int     `json:"spot_id"`
    Cost            float64 `json:"cost,omitempty"`
    DurationMinutes float64 `json:"duration_minutes,omitempty"`
    OccurredAt      string  `json:"occurred_at"`
}
