package domain

import "math"

const earthRadiusMeters = 6371000.0

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Return coordinates as [lon, lat] for map layers that expect GeoJSON order.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// DistanceTo returns the great-circle distance in meters.
func (c Coordinates) DistanceTo(o Coordinates) float64 {
	lat1 := c.Lat * math.Pi / 180
	lat2 := o.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (o.Lon - c.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Midpoint returns the point halfway between c and o.
// Good enough for the short hops inside a city.
func (c Coordinates) Midpoint(o Coordinates) Coordinates {
	return Coordinates{Lon: (c.Lon + o.Lon) / 2, Lat: (c.Lat + o.Lat) / 2}
}

// Offset moves c by the given meters north and east.
func (c Coordinates) Offset(northMeters, eastMeters float64) Coordinates {
	dLat := northMeters / earthRadiusMeters * 180 / math.Pi
	dLon := eastMeters / (earthRadiusMeters * math.Cos(c.Lat*math.Pi/180)) * 180 / math.Pi
	return Coordinates{Lon: c.Lon + dLon, Lat: c.Lat + dLat}
}

// Site is a named point the route stub can visit (a bin or a depot).
type Site struct {
	ID          string
	Coordinates Coordinates
}
