package distance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/platform/obs"
	"waste-sim-service/internal/ports"
)

const (
	DefaultORSBaseURL = "https://api.openrouteservice.org"
	DefaultORSProfile = "driving-hgv"
)

// ORSProvider implements DistanceMatrixProvider with road distances from
// the OpenRouteService matrix API. Results are cached by coordinates, so
// they survive a reset that reuses the same bin layout.
//
// The provider is safe for concurrent use.
type ORSProvider struct {
	client   *http.Client
	apiKey   string
	baseURL  string
	profile  string
	cache    ports.DistanceCache
	attempts int
	backoff  time.Duration
}

type ORSOption func(*ORSProvider)

func WithORSBaseURL(url string) ORSOption {
	return func(o *ORSProvider) {
		if url != "" {
			o.baseURL = strings.TrimRight(url, "/")
		}
	}
}

func WithORSProfile(profile string) ORSOption {
	return func(o *ORSProvider) {
		if profile != "" {
			o.profile = profile
		}
	}
}

func WithORSHTTPClient(c *http.Client) ORSOption {
	return func(o *ORSProvider) {
		if c != nil {
			o.client = c
		}
	}
}

// WithORSRetry sets the number of attempts and the first backoff delay.
func WithORSRetry(attempts int, backoff time.Duration) ORSOption {
	return func(o *ORSProvider) {
		if attempts > 0 {
			o.attempts = attempts
		}
		if backoff > 0 {
			o.backoff = backoff
		}
	}
}

// NewORSProvider builds a provider. A nil cache disables caching.
func NewORSProvider(apiKey string, cache ports.DistanceCache, opts ...ORSOption) (*ORSProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	o := &ORSProvider{
		client:   &http.Client{Timeout: 10 * time.Second},
		apiKey:   apiKey,
		baseURL:  DefaultORSBaseURL,
		profile:  DefaultORSProfile,
		cache:    cache,
		attempts: 4,
		backoff:  200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// Delegate to batched path to reuse caching and matrix logic.
func (o *ORSProvider) GetDistance(
	ctx context.Context,
	origin domain.Site,
	destination domain.Site,
) (ports.DistanceResult, error) {
	if destination.ID == "" {
		return ports.DistanceResult{}, errors.New("get ORS distance: destination id must be non-empty")
	}

	results, err := o.GetDistances(ctx, origin, []domain.Site{destination})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("get distance %s -> %s: %w", origin.ID, destination.ID, err)
	}

	return results[destination.ID], nil
}

// Compute distances from a single origin to many destinations, keyed by
// destination ID. Destinations sharing the origin's coordinates are zero.
func (o *ORSProvider) GetDistances(
	ctx context.Context,
	origin domain.Site,
	destinations []domain.Site,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDistances")(&err)

	out := make(map[string]ports.DistanceResult, len(destinations))
	if len(destinations) == 0 {
		return out, nil
	}

	originKey := coordKey(origin.Coordinates)

	// Several sites can share a coordinate; ask for each point once.
	byKey := make(map[string][]string)
	coords := make(map[string]domain.Coordinates)
	keys := make([]string, 0, len(destinations))
	for _, d := range destinations {
		if d.ID == "" {
			return nil, errors.New("ORS provider: destination id must be non-empty")
		}
		k := coordKey(d.Coordinates)
		if k == originKey {
			out[d.ID] = ports.DistanceResult{}
			continue
		}
		if _, ok := byKey[k]; !ok {
			keys = append(keys, k)
			coords[k] = d.Coordinates
		}
		byKey[k] = append(byKey[k], d.ID)
	}

	if len(keys) == 0 {
		return out, nil
	}

	hits := map[string]ports.DistanceResult{}
	if o.cache != nil {
		cached, cerr := o.cache.GetMany(ctx, originKey, keys)
		if cerr != nil {
			// A broken cache only costs extra API calls.
			log.Printf("op=ors.GetDistances cache_read_err=%v", cerr)
		}
		for k, v := range cached {
			hits[k] = v
		}
	}

	misses := make([]string, 0, len(keys))
	missCoords := make([]domain.Coordinates, 0, len(keys))
	for _, k := range keys {
		if _, ok := hits[k]; !ok {
			misses = append(misses, k)
			missCoords = append(missCoords, coords[k])
		}
	}

	if len(misses) > 0 {
		row, err := o.fetchMatrixRow(ctx, origin.Coordinates, missCoords)
		if err != nil {
			return nil, fmt.Errorf("ORS matrix from %s: %w", origin.ID, err)
		}

		fetched := make(map[string]ports.DistanceResult, len(misses))
		for i, k := range misses {
			fetched[k] = row[i]
			hits[k] = row[i]
		}
		if o.cache != nil {
			if err := o.cache.PutMany(ctx, originKey, fetched); err != nil {
				log.Printf("op=ors.GetDistances cache_write_err=%v", err)
			}
		}
	}

	for k, ids := range byKey {
		for _, id := range ids {
			out[id] = hits[k]
		}
	}

	return out, nil
}

// coordKey rounds to roughly 10 cm so equal points share a cache entry.
func coordKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.6f,%.6f", c.Lon, c.Lat)
}

var _ ports.DistanceMatrixProvider = (*ORSProvider)(nil)
