// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them onto the right HTTP status: validation problems become 400,
// unknown spots or vehicles become 404 and lost races over a spot or a
// stay become 409.
package repository

import "errors"

// ErrSpotNotFound is returned when the targeted spot id does not exist
// in the registry.
var ErrSpotNotFound = errors.New("spot not found")

// ErrSpotOccupied is returned when a claim fails because the spot is
// already bound to another vehicle, including the case where a
// concurrent request won the conditional update.
var ErrSpotOccupied = errors.New("spot occupied")

// ErrNoAvailableSpots is returned by auto assignment when no free spot
// of the requested type exists.
var ErrNoAvailableSpots = errors.New("no available spots")

// ErrVehicleAlreadyParked is returned when the arriving vehicle id
// already has an active stay.
var ErrVehicleAlreadyParked = errors.New("vehicle already parked")

// ErrVehicleNotFound is returned on departure when no stay exists for
// the vehicle id.
var ErrVehicleNotFound = errors.New("vehicle not found")

// ErrAlreadyPaid is returned when the stay for the vehicle id has
// already been closed and billed.
var ErrAlreadyPaid = errors.New("already paid")
