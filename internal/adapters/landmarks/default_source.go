package landmarks

import "waste-sim-service/internal/ports"

// The pilot zone: eight landmarks across New Delhi.
var pilotZone = []LandmarkSeed{
	{Area: "Connaught Place", Lat: 28.6139, Lon: 77.2090},
	{Area: "Red Fort", Lat: 28.6562, Lon: 77.2410},
	{Area: "Lotus Temple", Lat: 28.5535, Lon: 77.2588},
	{Area: "India Gate", Lat: 28.6129, Lon: 77.2295},
	{Area: "Chandni Chowk", Lat: 28.6448, Lon: 77.2167},
	{Area: "Qutub Minar", Lat: 28.5244, Lon: 77.1855},
	{Area: "Akshardham", Lat: 28.6692, Lon: 77.4538},
	{Area: "Rajpath", Lat: 28.6304, Lon: 77.2177},
}

// DefaultSource serves the built-in pilot zone.
type DefaultSource struct{}

func NewDefaultSource() DefaultSource { return DefaultSource{} }

func (DefaultSource) Landmarks() ([]ports.Landmark, error) {
	return fromSeeds(pilotZone)
}

var _ ports.LandmarkSource = DefaultSource{}
