package ports

import "context"

// DistanceCache stores distance results for one origin and many destinations.
// Keys are opaque to the cache; providers decide how sites map to keys.
type DistanceCache interface {
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
	PutMany(ctx context.Context, origin string, results map[string]DistanceResult) error
}
