package landmarks

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/ports"
)

type LandmarkSeed struct {
	Area string  `json:"area"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// JSONSource reads landmarks from a JSON fixture file.
type JSONSource struct {
	Path string
}

func NewJSONSource(path string) *JSONSource {
	return &JSONSource{Path: path}
}

// Load and validate the landmark fixture.
func (s *JSONSource) Landmarks() ([]ports.Landmark, error) {
	bytes, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("load landmarks: read %q: %w", s.Path, err)
	}

	var data []LandmarkSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load landmarks: parse json: %w", err)
	}

	return fromSeeds(data)
}

func fromSeeds(data []LandmarkSeed) ([]ports.Landmark, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("load landmarks: fixture is empty")
	}

	seen := make(map[string]struct{}, len(data))
	out := make([]ports.Landmark, 0, len(data))
	for i, item := range data {
		area := strings.TrimSpace(item.Area)
		if area == "" {
			return nil, fmt.Errorf("load landmarks: item at index %d: area cannot be empty", i+1)
		}
		if _, ok := seen[area]; ok {
			return nil, fmt.Errorf("load landmarks: item at index %d: duplicate area %q", i+1, area)
		}
		seen[area] = struct{}{}

		if math.Abs(item.Lat) > 90 || math.Abs(item.Lon) > 180 {
			return nil, fmt.Errorf("load landmarks: item at index %d: coordinates out of range (lat=%v lon=%v)", i+1, item.Lat, item.Lon)
		}

		out = append(out, ports.Landmark{
			Area:     area,
			Location: domain.Coordinates{Lon: item.Lon, Lat: item.Lat},
		})
	}

	return out, nil
}

var _ ports.LandmarkSource = (*JSONSource)(nil)
