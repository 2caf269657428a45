package pool

import (
	"fmt"
	"math/big"
)

// fee: 0.3% => multiplier 997/1000
var (
	feeMul = big.NewInt(997)
	feeDen = big.NewInt(1000)

	// priceScale is the fixed-point scale for price queries (1e18).
	priceScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
)

// Quote is the pure fee-adjusted constant-product output formula:
//
//	eff = floor(amountIn * 997 / 1000)
//	out = floor(eff * reserveOut / (reserveIn + eff))
//
// Truncating division at each stage biases rounding in the pool's favor, so
// the reserve product never decreases from a swap. All three inputs must be
// positive.
func Quote(amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	if amountIn == nil || reserveIn == nil || reserveOut == nil {
		return nil, fmt.Errorf("%w: nil amount or reserve", ErrInvalidInputs)
	}
	if amountIn.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amountIn must be positive", ErrInvalidInputs)
	}
	if reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil, fmt.Errorf("%w: reserves must be positive", ErrInvalidInputs)
	}

	eff := new(big.Int).Mul(amountIn, feeMul)
	eff.Div(eff, feeDen)

	den := new(big.Int).Add(reserveIn, eff)
	out := new(big.Int).Mul(eff, reserveOut)
	return out.Div(out, den), nil
}

// mulDiv returns floor(a * b / c).
func mulDiv(a, b, c *big.Int) *big.Int {
	n := new(big.Int).Mul(a, b)
	return n.Div(n, c)
}
