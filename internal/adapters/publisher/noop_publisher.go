package publisher

import (
	"context"
	"waste-sim-service/internal/domain"
	"waste-sim-service/internal/ports"
)

// NoopPublisher drops snapshots. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, snap *domain.Snapshot) error { return nil }

func (NoopPublisher) Close() error { return nil }

var _ ports.SnapshotPublisher = NoopPublisher{}
