// Package service wraps the pool engine for the daemon: it serializes
// operations, persists emitted events and state snapshots, and logs.
package service

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"pairpool/internal/model"
	"pairpool/internal/pool"
	"pairpool/internal/storage"
	"pairpool/internal/token"
)

// Option configures a Service.
type Option func(*Service)

// WithStorage adds event sinks; events of each committed operation are
// written to every sink.
func WithStorage(sinks ...storage.Storage) Option {
	return func(s *Service) { s.sinks = append(s.sinks, sinks...) }
}

// WithSnapshotStore enables state snapshot persistence.
func WithSnapshotStore(store *SnapshotStore) Option {
	return func(s *Service) { s.snapshots = store }
}

// WithRetryPolicy bounds retries for sink writes.
func WithRetryPolicy(maxRetries int, backoff time.Duration) Option {
	return func(s *Service) {
		s.maxRetries = maxRetries
		s.retryBackoff = backoff
	}
}

// WithPoolOptions forwards options to the underlying pool.
func WithPoolOptions(opts ...pool.Option) Option {
	return func(s *Service) { s.poolOpts = append(s.poolOpts, opts...) }
}

// Service owns a pool and its persistence. Mutating operations are
// serialized here, so concurrent callers queue instead of tripping the
// engine's re-entry guard; the guard stays as a backstop against hostile
// token callbacks.
type Service struct {
	logger *zap.Logger

	mu      sync.Mutex
	pool    *pool.Pool
	pending []model.PoolEvent

	sinks        []storage.Storage
	snapshots    *SnapshotStore
	maxRetries   int
	retryBackoff time.Duration
	poolOpts     []pool.Option
}

// New builds a service around a fresh pool at poolAddr over the given asset
// registry.
func New(logger *zap.Logger, poolAddr common.Address, registry token.Registry, opts ...Option) *Service {
	s := &Service{
		logger:       logger,
		maxRetries:   3,
		retryBackoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pool = pool.New(poolAddr, registry, append(s.poolOpts, pool.WithEventSink(s))...)
	return s
}

// Append implements pool.EventSink. It collects events emitted inside the
// current operation; the service flushes them after the commit.
func (s *Service) Append(ev model.PoolEvent) {
	s.pending = append(s.pending, ev)
}

// Restore loads the latest snapshot, when one exists, into the pool.
func (s *Service) Restore() error {
	if s.snapshots == nil {
		return nil
	}
	snap, found, err := s.snapshots.Load()
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	if err := s.pool.Restore(snap); err != nil {
		return err
	}
	s.logger.Info("pool state restored",
		zap.Bool("bound", snap.Bound),
		zap.String("reserve_a", snap.ReserveA),
		zap.String("reserve_b", snap.ReserveB),
		zap.Uint64("last_seq", snap.LastSeq),
	)
	return nil
}

// Deposit adds liquidity on behalf of from.
func (s *Service) Deposit(ctx context.Context, from common.Address, req pool.DepositParams) (pool.DepositResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.pool.Deposit(ctx, from, req)
	if err != nil {
		s.dropPending()
		return pool.DepositResult{}, err
	}
	s.logger.Debug("deposit committed",
		zap.String("from", from.Hex()),
		zap.String("amount_a", res.AmountA.String()),
		zap.String("amount_b", res.AmountB.String()),
		zap.String("shares", res.Shares.String()),
	)
	s.flush(ctx)
	return res, nil
}

// Withdraw removes liquidity on behalf of from.
func (s *Service) Withdraw(ctx context.Context, from common.Address, req pool.WithdrawParams) (pool.WithdrawResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.pool.Withdraw(ctx, from, req)
	if err != nil {
		s.dropPending()
		return pool.WithdrawResult{}, err
	}
	s.logger.Debug("withdraw committed",
		zap.String("from", from.Hex()),
		zap.String("amount_a", res.AmountA.String()),
		zap.String("amount_b", res.AmountB.String()),
	)
	s.flush(ctx)
	return res, nil
}

// Swap trades an exact input on behalf of from.
func (s *Service) Swap(ctx context.Context, from common.Address, req pool.SwapParams) (pool.SwapResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.pool.Swap(ctx, from, req)
	if err != nil {
		s.dropPending()
		return pool.SwapResult{}, err
	}
	s.logger.Debug("swap committed",
		zap.String("from", from.Hex()),
		zap.String("amount_in", res.AmountIn.String()),
		zap.String("amount_out", res.AmountOut.String()),
	)
	s.flush(ctx)
	return res, nil
}

// Price returns the scaled spot price for the pair in the given order.
func (s *Service) Price(assetA, assetB common.Address) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Price(assetA, assetB)
}

// Quote is the pure output-amount calculation.
func (s *Service) Quote(amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	return pool.Quote(amountIn, reserveIn, reserveOut)
}

// Snapshot captures the pool's current state.
func (s *Service) Snapshot() (model.PoolSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Snapshot()
}

// flush persists the events of the operation that just committed, then the
// state snapshot. Persistence failures are logged, never surfaced: events
// are notifications, not pool state.
func (s *Service) flush(ctx context.Context) {
	events := s.pending
	s.pending = nil
	if len(events) > 0 {
		for _, sink := range s.sinks {
			sink := sink
			err := withRetry(ctx, s.maxRetries, s.retryBackoff, func(ctx context.Context) error {
				return sink.PutEventBatch(ctx, events)
			})
			if err != nil {
				s.logger.Warn("event sink write failed",
					zap.Int("events", len(events)),
					zap.Error(err),
				)
			}
		}
	}

	snap, err := s.pool.Snapshot()
	if err != nil {
		s.logger.Warn("snapshot capture failed", zap.Error(err))
		return
	}
	if s.snapshots != nil {
		if err := s.snapshots.Save(snap); err != nil {
			s.logger.Warn("snapshot save failed", zap.Error(err))
		}
	}
	for _, sink := range s.sinks {
		ss, ok := sink.(storage.SnapshotSink)
		if !ok {
			continue
		}
		if err := ss.UpsertSnapshot(ctx, snap); err != nil {
			s.logger.Warn("snapshot sink write failed", zap.Error(err))
		}
	}
}

// dropPending discards events buffered by an operation that failed after
// emitting nothing, or was unwound before its commit.
func (s *Service) dropPending() {
	s.pending = nil
}
