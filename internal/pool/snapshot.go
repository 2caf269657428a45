package pool

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"pairpool/internal/model"
)

// Snapshot captures the pool's externally visible state.
func (p *Pool) Snapshot() (model.PoolSnapshot, error) {
	if !p.mu.TryLock() {
		return model.PoolSnapshot{}, ErrReentrancy
	}
	defer p.mu.Unlock()

	positions := make(map[string]string, len(p.positions))
	for provider, shares := range p.positions {
		positions[provider.Hex()] = shares.String()
	}

	return model.PoolSnapshot{
		Bound:       p.bound,
		AssetA:      p.assetA.Hex(),
		AssetB:      p.assetB.Hex(),
		ReserveA:    p.reserveA.String(),
		ReserveB:    p.reserveB.String(),
		TotalShares: p.totalShares.String(),
		Positions:   positions,
		LastSeq:     p.seq,
		UpdatedAt:   time.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}

// Restore replaces the pool's state with a previously captured snapshot.
// Intended for startup recovery, before the pool serves operations.
func (p *Pool) Restore(snap model.PoolSnapshot) error {
	reserveA, err := parseBig(snap.ReserveA)
	if err != nil {
		return fmt.Errorf("reserve_a: %w", err)
	}
	reserveB, err := parseBig(snap.ReserveB)
	if err != nil {
		return fmt.Errorf("reserve_b: %w", err)
	}
	totalShares, err := parseBig(snap.TotalShares)
	if err != nil {
		return fmt.Errorf("total_shares: %w", err)
	}

	positions := make(map[common.Address]*big.Int, len(snap.Positions))
	checkSum := new(big.Int)
	for provider, raw := range snap.Positions {
		shares, err := parseBig(raw)
		if err != nil {
			return fmt.Errorf("position %s: %w", provider, err)
		}
		positions[common.HexToAddress(provider)] = shares
		checkSum.Add(checkSum, shares)
	}
	if checkSum.Cmp(totalShares) != 0 {
		return fmt.Errorf("snapshot shares mismatch: positions sum %s, total %s", checkSum, totalShares)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.bound = snap.Bound
	p.assetA = common.HexToAddress(snap.AssetA)
	p.assetB = common.HexToAddress(snap.AssetB)
	p.reserveA = reserveA
	p.reserveB = reserveB
	p.totalShares = totalShares
	p.positions = positions
	p.seq = snap.LastSeq
	return nil
}

func parseBig(raw string) (*big.Int, error) {
	if raw == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(raw, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid unsigned integer %q", raw)
	}
	return n, nil
}
