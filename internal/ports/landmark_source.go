package ports

import "waste-sim-service/internal/domain"

// Landmark is a named area used to label bins on the map.
type Landmark struct {
	Area     string
	Location domain.Coordinates
}

// LandmarkSource supplies the named areas bins are attached to.
type LandmarkSource interface {
	Landmarks() ([]Landmark, error)
}
