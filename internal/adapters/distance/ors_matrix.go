package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/ports"
)

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Sources      []int       `json:"sources"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// fetchMatrixRow asks the matrix endpoint for one origin against many
// destinations. Results come back in destination order.
func (o *ORSProvider) fetchMatrixRow(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) ([]ports.DistanceResult, error) {
	if len(destinations) == 0 {
		return nil, nil
	}

	locations := make([][]float64, 0, 1+len(destinations))
	locations = append(locations, origin.CoordsToList())
	destIdx := make([]int, 0, len(destinations))
	for i, c := range destinations {
		locations = append(locations, c.CoordsToList())
		destIdx = append(destIdx, i+1)
	}

	payload, err := json.Marshal(matrixRequest{
		Locations:    locations,
		Sources:      []int{0},
		Destinations: destIdx,
		Metrics:      []string{"distance", "duration"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Distances) != 1 || len(mr.Durations) != 1 {
		return nil, fmt.Errorf(
			"expected 1 source row; got distances=%d durations=%d",
			len(mr.Distances), len(mr.Durations),
		)
	}
	rowDist, rowDur := mr.Distances[0], mr.Durations[0]
	if len(rowDist) != len(destinations) || len(rowDur) != len(destinations) {
		return nil, fmt.Errorf(
			"row lengths do not match destinations: distances=%d durations=%d destinations=%d",
			len(rowDist), len(rowDur), len(destinations),
		)
	}

	out := make([]ports.DistanceResult, len(destinations))
	for i := range destinations {
		if rowDist[i] == nil || rowDur[i] == nil {
			return nil, fmt.Errorf("matrix returned no route to destination %d", i)
		}
		out[i] = ports.DistanceResult{
			DistanceMeters:  int(math.Round(*rowDist[i])),
			DurationSeconds: int(math.Round(*rowDur[i])),
		}
	}

	return out, nil
}
