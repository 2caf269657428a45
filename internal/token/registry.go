package token

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// LedgerRegistry maps asset identities to in-memory ledgers and hands out
// Token views bound to a single holder account (the pool).
type LedgerRegistry struct {
	mu      sync.RWMutex
	holder  common.Address
	ledgers map[common.Address]*Ledger
}

// NewLedgerRegistry creates a registry whose Token views move outgoing
// funds from holder's account.
func NewLedgerRegistry(holder common.Address) *LedgerRegistry {
	return &LedgerRegistry{
		holder:  holder,
		ledgers: make(map[common.Address]*Ledger),
	}
}

// Register lists a ledger under the given asset identity.
func (r *LedgerRegistry) Register(asset common.Address, ledger *Ledger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ledgers[asset] = ledger
}

// Ledger returns the raw ledger for an asset, for minting and approvals.
func (r *LedgerRegistry) Ledger(asset common.Address) (*Ledger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.ledgers[asset]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, asset.Hex())
	}
	return l, nil
}

// Token resolves the transfer interface for an asset.
func (r *LedgerRegistry) Token(asset common.Address) (Token, error) {
	l, err := r.Ledger(asset)
	if err != nil {
		return nil, err
	}
	return &boundToken{ledger: l, holder: r.holder}, nil
}

// boundToken is a Ledger view scoped to one holder: Transfer debits the
// holder, TransferFrom spends allowances granted to the holder.
type boundToken struct {
	ledger *Ledger
	holder common.Address
}

func (b *boundToken) Transfer(_ context.Context, dst common.Address, amount *big.Int) error {
	return b.ledger.transfer(b.holder, dst, amount)
}

func (b *boundToken) TransferFrom(_ context.Context, owner, dst common.Address, amount *big.Int) error {
	return b.ledger.transferFrom(b.holder, owner, dst, amount)
}
