package model

// Spot types.  Each parking spot is zoned for exactly one category of
// vehicle when the registry is seeded and keeps that type for its
// whole lifetime.
const (
    SpotTypeRegular  = "regular"
    SpotTypeEV       = "ev"
    SpotTypeDisabled = "disabled"
)

// Spot statuses.  A spot is either free or bound to exactly one vehicle.
const (
    SpotStatusFree     = "free"
    SpotStatusOccupied = "occupied"
)

// Spot describes a single parking location.  Spots are created once
// when the registry is seeded and only their status and bound vehicle
// change afterwards.
//
// Fields:
//  ID             – spot index, primary key.
//  SpotType       – zoning type (regular, ev, disabled).
//  Status         – free or occupied.
//  CurrentVehicle – id of the vehicle occupying the spot, nil when free.
type Spot struct {
    ID             int     `json:"spot_id"`         // spots.id
    SpotType       string  `json:"spot_type"`       // spots.spot_type
    Status         string  `json:"status"`          // spots.status
    CurrentVehicle *string `json:"current_vehicle"` // spots.current_vehicle
}

// PlanSpots builds the seeding plan for a registry of the given
// capacity.  The first disabledSpots indices are zoned for disabled
// vehicles, the last evSpots indices for electric vehicles and the
// remainder is regular.  With the default configuration (capacity 16,
// no disabled zone, 2 EV spots) this reserves spots 14 and 15 for EVs.
func PlanSpots(capacity, disabledSpots, evSpots int) []Spot {
    spots := make([]Spot, 0, capacity)
    for i := 0; i < capacity; i++ {
        t := SpotTypeRegular
        switch {
        case i < disabledSpots:
            t = SpotTypeDisabled
        case i >= capacity-evSpots:
            t = SpotTypeEV
        }
        spots = append(spots, Spot{ID: i, SpotType: t, Status: SpotStatusFree})
    }
    return spots
}

// CompatibleSpot reports whether a vehicle of the declared category may
// park on the given spot.  EV zoning is symmetric: an EV-flagged
// vehicle must target an EV spot and non-EV vehicles are rejected from
// EV spots.  Disabled spots accept only vehicles declared as disabled;
// a disabled vehicle may still use a regular spot.
func CompatibleSpot(spot Spot, vehicleType string, isEV bool) bool {
    switch spot.SpotType {
    case SpotTypeEV:
        return isEV
    case SpotTypeDisabled:
        return vehicleType == SpotTypeDisabled
    default:
        return !isEV
    }
}
