package ports

import (
	"context"
	"waste-sim-service/internal/domain"
)

// SnapshotPublisher pushes snapshots to presentation-layer subscribers.
type SnapshotPublisher interface {
	Publish(ctx context.Context, snap *domain.Snapshot) error
	Close() error
}
