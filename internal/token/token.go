// Package token defines the fungible-asset collaborator contract the pool
// depends on, plus an in-memory ledger implementation of it.
package token

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Token is the capability set the pool requires from an asset. Both methods
// are all-or-nothing: they move the exact requested amount or fail without
// effect.
type Token interface {
	// Transfer moves amount out of the pool's holdings to dst.
	Transfer(ctx context.Context, dst common.Address, amount *big.Int) error
	// TransferFrom pulls amount from owner into dst, spending the
	// allowance the owner granted to the pool.
	TransferFrom(ctx context.Context, owner, dst common.Address, amount *big.Int) error
}

// Registry resolves an asset identity to its transfer interface.
type Registry interface {
	Token(asset common.Address) (Token, error)
}
