package storage

import (
	"context"

	"pairpool/internal/model"
)

// Storage is a sink for committed pool events.
type Storage interface {
	PutEventBatch(ctx context.Context, events []model.PoolEvent) error
}

// SnapshotSink is implemented by sinks that also keep the latest pool
// state, such as the Postgres store.
type SnapshotSink interface {
	UpsertSnapshot(ctx context.Context, snap model.PoolSnapshot) error
}
