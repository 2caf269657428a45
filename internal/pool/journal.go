package pool

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"pairpool/internal/token"
)

// journal records compensating actions for external transfers performed
// inside one operation, so a later failure can unwind every earlier side
// effect before any pool state has been touched.
type journal struct {
	ctx      context.Context
	poolAddr common.Address
	undo     []func()
}

func newJournal(ctx context.Context, poolAddr common.Address) *journal {
	return &journal{ctx: ctx, poolAddr: poolAddr}
}

// pull moves amount from owner into the pool. Its compensation is a plain
// transfer back out of the pool, which cannot fail while the pool's
// accounting is intact.
func (j *journal) pull(t token.Token, owner common.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	if err := t.TransferFrom(j.ctx, owner, j.poolAddr, amount); err != nil {
		return err
	}
	j.undo = append(j.undo, func() {
		_ = t.Transfer(j.ctx, owner, amount)
	})
	return nil
}

// payout moves amount from the pool to dst. Its compensation pulls the
// funds back and is best-effort: it needs an allowance from dst, so it only
// matters on the already-pathological path where a sibling transfer-out
// failed despite correct accounting.
func (j *journal) payout(t token.Token, dst common.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	if err := t.Transfer(j.ctx, dst, amount); err != nil {
		return err
	}
	j.undo = append(j.undo, func() {
		_ = t.TransferFrom(j.ctx, dst, j.poolAddr, amount)
	})
	return nil
}

// unwind runs the recorded compensations in reverse order.
func (j *journal) unwind() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
}
