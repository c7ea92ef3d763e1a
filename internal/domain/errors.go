package domain

import "errors"

// Sentinel errors shared by the simulation, services and API layers.
// Callers wrap them with context and match with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrEmptyFleet   = errors.New("no bins due for collection")
	ErrInvalidSeed  = errors.New("invalid seed")
	ErrInvalidCount = errors.New("invalid entity count")
)

// ErrTruckBusy is returned when a route is assigned to a truck that is not idle.
var ErrTruckBusy = errors.New("truck busy")

// ErrOverCapacity is returned when a route has more stops than the truck takes.
var ErrOverCapacity = errors.New("route exceeds truck capacity")
