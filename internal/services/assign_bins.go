package services

import (
	"errors"
	"slices"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/ports"
)

// AssignBinsByDistance splits due bins across trucks using a simple heuristic.
//
// Bins are sorted by depot distance and chunked across trucks to produce a
// deterministic, reasonably balanced distribution without solving a full VRP.
// A band larger than a truck's capacity is truncated; the remainder waits
// for a later dispatch. The result is keyed by truck ID and omits trucks
// that received nothing.
func AssignBinsByDistance(
	trucks []*domain.Truck,
	bins []domain.Site,
	depotDistances map[string]ports.DistanceResult,
) (map[string][]domain.Site, error) {
	if len(trucks) == 0 {
		return nil, errors.New("assign bins: truck list must not be empty")
	}

	sorted := slices.Clone(bins)
	slices.SortFunc(sorted, func(a, b domain.Site) int {
		da := depotDistances[a.ID].DistanceMeters
		db := depotDistances[b.ID].DistanceMeters
		if da < db {
			return -1
		}
		if da > db {
			return 1
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})

	nTrucks := len(trucks)
	nBins := len(sorted)

	// Ceiling division: distribute bins as evenly as possible across trucks.
	chunkSize := (nBins + nTrucks - 1) / nTrucks

	out := make(map[string][]domain.Site, nTrucks)
	for ti, truck := range trucks {
		start := ti * chunkSize
		if start >= nBins {
			break
		}
		end := min(start+chunkSize, nBins)

		band := sorted[start:end]
		if len(band) > truck.Capacity {
			band = band[:truck.Capacity]
		}
		out[truck.TruckID] = band
	}

	return out, nil
}
