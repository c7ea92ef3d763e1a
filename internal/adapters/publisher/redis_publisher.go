package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher fans snapshots out over a Redis pub/sub channel and keeps
// the most recent one under "<channel>:latest" so late subscribers can
// render immediately.
type RedisPublisher struct {
	client    *redis.Client
	channel   string
	latestTTL time.Duration
}

func NewRedisPublisher(client *redis.Client, channel string, latestTTL time.Duration) (*RedisPublisher, error) {
	if client == nil {
		return nil, errors.New("redis publisher: client is nil")
	}
	if channel == "" {
		return nil, errors.New("redis publisher: channel must not be empty")
	}

	return &RedisPublisher{client: client, channel: channel, latestTTL: latestTTL}, nil
}

// LatestKey is where the last published snapshot is stored.
func (r *RedisPublisher) LatestKey() string { return r.channel + ":latest" }

func (r *RedisPublisher) Publish(ctx context.Context, snap *domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis publish: marshal snapshot tick=%d: %w", snap.Tick, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.LatestKey(), payload, r.latestTTL)
	pipe.Publish(ctx, r.channel, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis publish: channel=%q tick=%d: %w", r.channel, snap.Tick, err)
	}

	return nil
}

func (r *RedisPublisher) Close() error {
	return r.client.Close()
}

var _ ports.SnapshotPublisher = (*RedisPublisher)(nil)
