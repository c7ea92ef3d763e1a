package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"waste-sim-service/internal/platform/obs"
	"waste-sim-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

// RedisDistanceCache stores one hash per origin under "<prefix>:<origin>".
// Each field is a destination key and each value is "meters:seconds".
type RedisDistanceCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisDistanceCache(client *redis.Client, prefix string, ttl time.Duration) (*RedisDistanceCache, error) {
	if client == nil {
		return nil, errors.New("distance cache: redis client is nil")
	}
	if prefix == "" {
		prefix = "waste:distance"
	}
	return &RedisDistanceCache{client: client, prefix: prefix, ttl: ttl}, nil
}

func (r *RedisDistanceCache) key(origin string) string { return r.prefix + ":" + origin }

// Fetch cached distances for one origin and multiple destinations.
func (r *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.cache.GetMany")(&err)

	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	vals, err := r.client.HMGet(ctx, r.key(origin), uniq...).Result()
	if err != nil {
		return nil, fmt.Errorf("get distance cache: hmget %s: %w", r.key(origin), err)
	}

	out := make(map[string]ports.DistanceResult, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		res, err := decodeResult(s)
		if err != nil {
			return nil, fmt.Errorf("get distance cache dest=%q: %w", uniq[i], err)
		}
		out[uniq[i]] = res
	}

	return out, nil
}

// Store many cached distance results for a single origin.
func (r *RedisDistanceCache) PutMany(
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

	fields := make(map[string]any, len(results))
	for dest, res := range results {
		if strings.TrimSpace(dest) == "" {
			return errors.New("insert distance cache: empty destination key")
		}
		fields[dest] = fmt.Sprintf("%d:%d", res.DistanceMeters, res.DurationSeconds)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, r.key(origin), fields)
	if r.ttl > 0 {
		pipe.Expire(ctx, r.key(origin), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert distance cache %s: %w", r.key(origin), err)
	}

	return nil
}

func decodeResult(s string) (ports.DistanceResult, error) {
	meters, seconds, ok := strings.Cut(s, ":")
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("malformed entry %q", s)
	}
	m, err := strconv.Atoi(meters)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("malformed meters %q: %w", s, err)
	}
	sec, err := strconv.Atoi(seconds)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("malformed seconds %q: %w", s, err)
	}
	return ports.DistanceResult{DistanceMeters: m, DurationSeconds: sec}, nil
}

var _ ports.DistanceCache = (*RedisDistanceCache)(nil)
