package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pairpool/internal/model"
)

// Store provides Postgres persistence for pool events and state snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PutEventBatch inserts a batch of pool events. Re-inserting a sequence
// number is a no-op, so retried batches stay idempotent.
func (s *Store) PutEventBatch(ctx context.Context, events []model.PoolEvent) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, event := range events {
		decoded, err := json.Marshal(event.Decoded)
		if err != nil {
			return fmt.Errorf("marshal event %d: %w", event.Seq, err)
		}
		batch.Queue(`
			INSERT INTO pool_events (
				seq, ts, event_name, decoded, created_at
			) VALUES ($1, $2, $3, $4, now())
			ON CONFLICT (seq) DO NOTHING
		`,
			int64(event.Seq),
			event.Timestamp,
			event.EventName,
			decoded,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range events {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertSnapshot stores the latest pool state under a single row.
func (s *Store) UpsertSnapshot(ctx context.Context, snap model.PoolSnapshot) error {
	positions, err := json.Marshal(snap.Positions)
	if err != nil {
		return fmt.Errorf("marshal positions: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO pool_state (
			id, bound, asset_a, asset_b, reserve_a, reserve_b,
			total_shares, positions, last_seq, created_at, updated_at
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		ON CONFLICT (id)
		DO UPDATE SET
			bound = EXCLUDED.bound,
			asset_a = EXCLUDED.asset_a,
			asset_b = EXCLUDED.asset_b,
			reserve_a = EXCLUDED.reserve_a,
			reserve_b = EXCLUDED.reserve_b,
			total_shares = EXCLUDED.total_shares,
			positions = EXCLUDED.positions,
			last_seq = EXCLUDED.last_seq,
			updated_at = now()
	`,
		snap.Bound,
		snap.AssetA,
		snap.AssetB,
		snap.ReserveA,
		snap.ReserveB,
		snap.TotalShares,
		positions,
		int64(snap.LastSeq),
	)
	return err
}
