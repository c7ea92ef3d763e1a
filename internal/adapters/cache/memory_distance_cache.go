package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"waste-sim-service/internal/ports"
)

// MemoryDistanceCache keeps distance results for the life of the process.
// It is safe for concurrent use.
type MemoryDistanceCache struct {
	mu      sync.RWMutex
	entries map[string]map[string]ports.DistanceResult
}

func NewMemoryDistanceCache() *MemoryDistanceCache {
	return &MemoryDistanceCache{entries: make(map[string]map[string]ports.DistanceResult)}
}

// Fetch cached distances for one origin and multiple destinations.
func (m *MemoryDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (map[string]ports.DistanceResult, error) {
	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]ports.DistanceResult, len(destinations))
	row := m.entries[origin]
	for _, d := range uniqueKeys(destinations) {
		if r, ok := row[d]; ok {
			out[d] = r
		}
	}

	return out, nil
}

// Store many cached distance results for a single origin.
func (m *MemoryDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) error {
	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.entries[origin]
	if !ok {
		row = make(map[string]ports.DistanceResult, len(results))
		m.entries[origin] = row
	}
	for dest, r := range results {
		if strings.TrimSpace(dest) == "" {
			return errors.New("insert distance cache: empty destination key")
		}
		row[dest] = r
	}

	return nil
}

// Len reports the number of cached origin/destination pairs.
func (m *MemoryDistanceCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, row := range m.entries {
		n += len(row)
	}
	return n
}

func uniqueKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

var _ ports.DistanceCache = (*MemoryDistanceCache)(nil)
