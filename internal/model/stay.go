package model

import "time"

// Stay records one vehicle's occupancy interval from arrival to
// departure.  A stay is created on arrival with a nil ExitTime and is
// mutated exactly once on departure, which sets ExitTime, Cost and the
// paid flag.  Closed stays are retained as history and never deleted
// outside of an explicit registry reset.
//
// Fields:
//  ID          – primary key identifier.
//  VehicleID   – caller supplied vehicle identifier (e.g. plate).
//  VehicleType – declared category of the vehicle.
//  IsEV        – whether the vehicle was flagged as electric on arrival.
//  EntryTime   – arrival timestamp (UTC).
//  ExitTime    – departure timestamp, nil while the stay is active.
//  SpotID      – the spot bound to this stay.
//  Cost        – billed amount, nil while the stay is active.
//  Paid        – set together with ExitTime when the stay is closed.
type Stay struct {
    ID          uint64     `json:"-"`              // vehicles.id
    VehicleID   string     `json:"id"`             // vehicles.vehicle_id
    VehicleType string     `json:"type"`           // vehicles.vehicle_type
    IsEV        bool       `json:"isEv"`           // vehicles.is_ev
    EntryTime   time.Time  `json:"entry_time"`     // vehicles.entry_time
    ExitTime    *time.Time `json:"exit_time"`      // vehicles.exit_time
    SpotID      int        `json:"spot_id"`        // vehicles.spot_id
    Cost        *float64   `json:"cost,omitempty"` // vehicles.cost
    Paid        bool       `json:"paid"`           // vehicles.paid
}

// BillingCategory returns the tariff key for the stay.  Vehicles
// flagged as electric are always billed at the EV rate regardless of
// their free-form declared type.
func (s Stay) BillingCategory() string {
    if s.IsEV {
        return SpotTypeEV
    }
    return s.VehicleType
}
