// Package pool implements a two-asset constant-product liquidity pool:
// reserve bookkeeping, share issuance and redemption, fee-adjusted swaps,
// and the guard conditions that keep every mutating operation atomic.
package pool

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"pairpool/internal/model"
	"pairpool/internal/token"
)

// EventSink receives append-only notifications after committed operations.
// Sink failures must not affect pool state, so Append does not return an
// error.
type EventSink interface {
	Append(ev model.PoolEvent)
}

type nopSink struct{}

func (nopSink) Append(model.PoolEvent) {}

// Option configures a Pool.
type Option func(*Pool)

// WithClock overrides the time source used for deadline checks and event
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pool) { p.now = now }
}

// WithEventSink sets the sink receiving pool events.
func WithEventSink(sink EventSink) Option {
	return func(p *Pool) { p.sink = sink }
}

// Pool owns all pool state. It is created unbound; the first successful
// deposit fixes the asset pair, and no transition back exists. All mutation
// goes through its methods.
//
// Operations are guarded by a try-lock: an invocation that overlaps another
// in-flight operation, including a nested call triggered from inside a token
// transfer, is rejected with ErrReentrancy rather than queued.
type Pool struct {
	mu       sync.Mutex
	addr     common.Address
	registry token.Registry

	bound       bool
	assetA      common.Address
	assetB      common.Address
	reserveA    *big.Int
	reserveB    *big.Int
	totalShares *big.Int
	positions   map[common.Address]*big.Int

	now  func() time.Time
	sink EventSink
	seq  uint64
}

// New creates an empty, unbound pool. addr is the pool's own account with
// the asset collaborators; registry resolves asset identities to their
// transfer interfaces.
func New(addr common.Address, registry token.Registry, opts ...Option) *Pool {
	p := &Pool{
		addr:        addr,
		registry:    registry,
		reserveA:    new(big.Int),
		reserveB:    new(big.Int),
		totalShares: new(big.Int),
		positions:   make(map[common.Address]*big.Int),
		now:         time.Now,
		sink:        nopSink{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DepositParams are the inputs to Deposit. Asset identities may be given in
// either order relative to the pool's bound pair.
type DepositParams struct {
	AssetA         common.Address
	AssetB         common.Address
	AmountADesired *big.Int
	AmountBDesired *big.Int
	AmountAMin     *big.Int
	AmountBMin     *big.Int
	To             common.Address
	Deadline       int64
}

// DepositResult reports the accepted amounts, in the caller's asset order,
// and the shares issued.
type DepositResult struct {
	AmountA *big.Int
	AmountB *big.Int
	Shares  *big.Int
}

// Deposit adds liquidity. The first successful deposit binds the asset pair
// and issues floor(sqrt(amountA*amountB)) shares; later deposits accept the
// largest amounts preserving the reserve ratio without exceeding either
// desired ceiling, and issue the smaller of the two per-asset share ratios.
// Both accepted amounts are pulled from the caller; shares go to req.To.
func (p *Pool) Deposit(ctx context.Context, from common.Address, req DepositParams) (DepositResult, error) {
	if !p.mu.TryLock() {
		return DepositResult{}, ErrReentrancy
	}
	defer p.mu.Unlock()

	if err := p.checkDeadline(req.Deadline); err != nil {
		return DepositResult{}, err
	}
	if req.To == (common.Address{}) {
		return DepositResult{}, ErrInvalidRecipient
	}
	if err := checkAmounts(req.AmountADesired, req.AmountBDesired); err != nil {
		return DepositResult{}, err
	}
	minA, minB := orZero(req.AmountAMin), orZero(req.AmountBMin)

	reversed, err := p.orient(req.AssetA, req.AssetB)
	if err != nil {
		return DepositResult{}, err
	}

	// Reserves in the caller's orientation.
	resA, resB := p.reserveA, p.reserveB
	if reversed {
		resA, resB = resB, resA
	}

	var acceptedA, acceptedB, shares *big.Int
	if p.totalShares.Sign() == 0 {
		// Bootstrap: the deposit ratio is unconstrained, accepted
		// amounts equal the desired amounts exactly.
		acceptedA, acceptedB = req.AmountADesired, req.AmountBDesired
		shares = new(big.Int).Mul(acceptedA, acceptedB)
		shares.Sqrt(shares)
	} else {
		optB := mulDiv(req.AmountADesired, resB, resA)
		if optB.Cmp(req.AmountBDesired) <= 0 {
			if optB.Cmp(minB) < 0 {
				return DepositResult{}, fmt.Errorf("%w: optimal amountB %s below floor %s", ErrSlippageExceeded, optB, minB)
			}
			acceptedA, acceptedB = req.AmountADesired, optB
		} else {
			optA := mulDiv(req.AmountBDesired, resA, resB)
			if optA.Cmp(minA) < 0 {
				return DepositResult{}, fmt.Errorf("%w: optimal amountA %s below floor %s", ErrSlippageExceeded, optA, minA)
			}
			acceptedA, acceptedB = optA, req.AmountBDesired
		}

		// Evaluate both ratios and take the minimum, guarding against
		// drift from prior rounding.
		sharesA := mulDiv(acceptedA, p.totalShares, resA)
		sharesB := mulDiv(acceptedB, p.totalShares, resB)
		shares = sharesA
		if sharesB.Cmp(sharesA) < 0 {
			shares = sharesB
		}
	}
	if shares.Sign() == 0 {
		return DepositResult{}, ErrZeroLiquidity
	}

	tokA, tokB, err := p.resolvePair(req.AssetA, req.AssetB)
	if err != nil {
		return DepositResult{}, err
	}

	jr := newJournal(ctx, p.addr)
	if err := jr.pull(tokA, from, acceptedA); err != nil {
		jr.unwind()
		return DepositResult{}, fmt.Errorf("transfer in %s: %w", req.AssetA.Hex(), err)
	}
	if err := jr.pull(tokB, from, acceptedB); err != nil {
		jr.unwind()
		return DepositResult{}, fmt.Errorf("transfer in %s: %w", req.AssetB.Hex(), err)
	}

	// Commit.
	if !p.bound {
		p.assetA, p.assetB = req.AssetA, req.AssetB
		p.bound = true
	}
	amtA, amtB := acceptedA, acceptedB
	if reversed {
		amtA, amtB = amtB, amtA
	}
	p.reserveA.Add(p.reserveA, amtA)
	p.reserveB.Add(p.reserveB, amtB)
	p.totalShares.Add(p.totalShares, shares)
	p.creditShares(req.To, shares)

	p.emit(model.EventLiquidityAdded, model.LiquidityAddedData{
		Provider: req.To.Hex(),
		AssetA:   p.assetA.Hex(),
		AssetB:   p.assetB.Hex(),
		AmountA:  amtA.String(),
		AmountB:  amtB.String(),
		Shares:   shares.String(),
	})

	return DepositResult{
		AmountA: new(big.Int).Set(acceptedA),
		AmountB: new(big.Int).Set(acceptedB),
		Shares:  new(big.Int).Set(shares),
	}, nil
}

// WithdrawParams are the inputs to Withdraw. Asset identities must match the
// bound pair in either order.
type WithdrawParams struct {
	AssetA     common.Address
	AssetB     common.Address
	Shares     *big.Int
	AmountAMin *big.Int
	AmountBMin *big.Int
	To         common.Address
	Deadline   int64
}

// WithdrawResult reports the amounts returned, in the caller's asset order.
type WithdrawResult struct {
	AmountA *big.Int
	AmountB *big.Int
}

// Withdraw redeems shares for a proportional cut of both reserves, floor
// division per leg: rounding loss stays with the pool, never the provider's
// gain. Shares are burned from the caller; the assets go to req.To.
func (p *Pool) Withdraw(ctx context.Context, from common.Address, req WithdrawParams) (WithdrawResult, error) {
	if !p.mu.TryLock() {
		return WithdrawResult{}, ErrReentrancy
	}
	defer p.mu.Unlock()

	if err := p.checkDeadline(req.Deadline); err != nil {
		return WithdrawResult{}, err
	}
	if req.To == (common.Address{}) {
		return WithdrawResult{}, ErrInvalidRecipient
	}
	if req.Shares == nil || req.Shares.Sign() <= 0 {
		return WithdrawResult{}, fmt.Errorf("%w: shares must be positive", ErrInvalidInputs)
	}

	reversed, err := p.orient(req.AssetA, req.AssetB)
	if err != nil {
		return WithdrawResult{}, err
	}
	if !p.bound {
		return WithdrawResult{}, fmt.Errorf("%w: pool is not bound", ErrTokenPairMismatch)
	}

	held := p.positions[from]
	if held == nil || held.Cmp(req.Shares) < 0 {
		return WithdrawResult{}, fmt.Errorf("%w: redeeming %s", ErrInsufficientShares, req.Shares)
	}

	amountA := mulDiv(req.Shares, p.reserveA, p.totalShares)
	amountB := mulDiv(req.Shares, p.reserveB, p.totalShares)

	outA, outB := amountA, amountB
	if reversed {
		outA, outB = outB, outA
	}
	if outA.Cmp(orZero(req.AmountAMin)) < 0 {
		return WithdrawResult{}, fmt.Errorf("%w: amountA %s below floor %s", ErrSlippageExceeded, outA, req.AmountAMin)
	}
	if outB.Cmp(orZero(req.AmountBMin)) < 0 {
		return WithdrawResult{}, fmt.Errorf("%w: amountB %s below floor %s", ErrSlippageExceeded, outB, req.AmountBMin)
	}

	tokA, tokB, err := p.resolvePair(req.AssetA, req.AssetB)
	if err != nil {
		return WithdrawResult{}, err
	}

	jr := newJournal(ctx, p.addr)
	if err := jr.payout(tokA, req.To, outA); err != nil {
		jr.unwind()
		return WithdrawResult{}, fmt.Errorf("transfer out %s: %w", req.AssetA.Hex(), err)
	}
	if err := jr.payout(tokB, req.To, outB); err != nil {
		jr.unwind()
		return WithdrawResult{}, fmt.Errorf("transfer out %s: %w", req.AssetB.Hex(), err)
	}

	// Commit.
	p.reserveA.Sub(p.reserveA, amountA)
	p.reserveB.Sub(p.reserveB, amountB)
	p.totalShares.Sub(p.totalShares, req.Shares)
	held.Sub(held, req.Shares)

	p.emit(model.EventLiquidityRemoved, model.LiquidityRemovedData{
		Provider: from.Hex(),
		AmountA:  amountA.String(),
		AmountB:  amountB.String(),
		Shares:   req.Shares.String(),
	})

	return WithdrawResult{
		AmountA: new(big.Int).Set(outA),
		AmountB: new(big.Int).Set(outB),
	}, nil
}

// SwapParams are the inputs to Swap. Path must hold exactly the input asset
// followed by the output asset.
type SwapParams struct {
	AmountIn     *big.Int
	AmountOutMin *big.Int
	Path         []common.Address
	To           common.Address
	Deadline     int64
}

// SwapResult reports the exact input consumed and the output produced.
type SwapResult struct {
	AmountIn  *big.Int
	AmountOut *big.Int
}

// Swap exchanges an exact input amount for the fee-adjusted constant-product
// output. The full input, fee included, enters the reserves; the fee is
// retained implicitly by reserve growth.
func (p *Pool) Swap(ctx context.Context, from common.Address, req SwapParams) (SwapResult, error) {
	if !p.mu.TryLock() {
		return SwapResult{}, ErrReentrancy
	}
	defer p.mu.Unlock()

	if err := p.checkDeadline(req.Deadline); err != nil {
		return SwapResult{}, err
	}
	if req.To == (common.Address{}) {
		return SwapResult{}, ErrInvalidRecipient
	}
	if len(req.Path) != 2 {
		return SwapResult{}, fmt.Errorf("%w: want 2 hops, got %d", ErrInvalidPath, len(req.Path))
	}
	if req.AmountIn == nil || req.AmountIn.Sign() <= 0 {
		return SwapResult{}, fmt.Errorf("%w: amountIn must be positive", ErrInvalidInputs)
	}

	assetIn, assetOut := req.Path[0], req.Path[1]
	reversed, err := p.orient(assetIn, assetOut)
	if err != nil {
		return SwapResult{}, err
	}
	if !p.bound {
		return SwapResult{}, fmt.Errorf("%w: pool is not bound", ErrTokenPairMismatch)
	}

	reserveIn, reserveOut := p.reserveA, p.reserveB
	if reversed {
		reserveIn, reserveOut = reserveOut, reserveIn
	}

	amountOut, err := Quote(req.AmountIn, reserveIn, reserveOut)
	if err != nil {
		return SwapResult{}, err
	}
	if amountOut.Cmp(orZero(req.AmountOutMin)) < 0 {
		return SwapResult{}, fmt.Errorf("%w: amountOut %s below floor %s", ErrSlippageExceeded, amountOut, req.AmountOutMin)
	}

	tokIn, tokOut, err := p.resolvePair(assetIn, assetOut)
	if err != nil {
		return SwapResult{}, err
	}

	jr := newJournal(ctx, p.addr)
	if err := jr.pull(tokIn, from, req.AmountIn); err != nil {
		jr.unwind()
		return SwapResult{}, fmt.Errorf("transfer in %s: %w", assetIn.Hex(), err)
	}
	if err := jr.payout(tokOut, req.To, amountOut); err != nil {
		jr.unwind()
		return SwapResult{}, fmt.Errorf("transfer out %s: %w", assetOut.Hex(), err)
	}

	// Commit.
	reserveIn.Add(reserveIn, req.AmountIn)
	reserveOut.Sub(reserveOut, amountOut)

	p.emit(model.EventSwapExecuted, model.SwapExecutedData{
		Trader:    from.Hex(),
		AssetIn:   assetIn.Hex(),
		AssetOut:  assetOut.Hex(),
		AmountIn:  req.AmountIn.String(),
		AmountOut: amountOut.String(),
	})

	return SwapResult{
		AmountIn:  new(big.Int).Set(req.AmountIn),
		AmountOut: amountOut,
	}, nil
}

// Price returns the amount of the second asset equivalent to one unit of the
// first, scaled by 1e18. The argument order selects the quote direction;
// both reserves must be positive.
func (p *Pool) Price(assetA, assetB common.Address) (*big.Int, error) {
	if !p.mu.TryLock() {
		return nil, ErrReentrancy
	}
	defer p.mu.Unlock()

	reversed, err := p.orient(assetA, assetB)
	if err != nil {
		return nil, err
	}
	if !p.bound {
		return nil, fmt.Errorf("%w: pool is not bound", ErrTokenPairMismatch)
	}
	if p.reserveA.Sign() <= 0 || p.reserveB.Sign() <= 0 {
		return nil, fmt.Errorf("%w: reserves must be positive", ErrInvalidInputs)
	}

	num, den := p.reserveB, p.reserveA
	if reversed {
		num, den = den, num
	}
	return mulDiv(num, priceScale, den), nil
}

// Reserves returns the bound pair and current reserves in the pool's
// internal order.
func (p *Pool) Reserves() (assetA, assetB common.Address, reserveA, reserveB *big.Int, bound bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.assetA, p.assetB, new(big.Int).Set(p.reserveA), new(big.Int).Set(p.reserveB), p.bound
}

// TotalShares returns the liquidity shares outstanding.
func (p *Pool) TotalShares() *big.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return new(big.Int).Set(p.totalShares)
}

// SharesOf returns provider's share balance. Absent entries are zero.
func (p *Pool) SharesOf(provider common.Address) *big.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.positions[provider]; ok {
		return new(big.Int).Set(s)
	}
	return new(big.Int)
}

func (p *Pool) orient(a, b common.Address) (reversed bool, err error) {
	if !p.bound {
		if a == b {
			return false, fmt.Errorf("%w: identical assets", ErrTokenPairMismatch)
		}
		return false, nil
	}
	switch {
	case a == p.assetA && b == p.assetB:
		return false, nil
	case a == p.assetB && b == p.assetA:
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s/%s", ErrTokenPairMismatch, a.Hex(), b.Hex())
	}
}

func (p *Pool) resolvePair(a, b common.Address) (token.Token, token.Token, error) {
	tokA, err := p.registry.Token(a)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve asset %s: %w", a.Hex(), err)
	}
	tokB, err := p.registry.Token(b)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve asset %s: %w", b.Hex(), err)
	}
	return tokA, tokB, nil
}

func (p *Pool) checkDeadline(deadline int64) error {
	if now := p.now().Unix(); now > deadline {
		return fmt.Errorf("%w: now %d, deadline %d", ErrExpired, now, deadline)
	}
	return nil
}

func (p *Pool) creditShares(to common.Address, shares *big.Int) {
	if pos, ok := p.positions[to]; ok {
		pos.Add(pos, shares)
		return
	}
	p.positions[to] = new(big.Int).Set(shares)
}

func (p *Pool) emit(name string, decoded interface{}) {
	p.seq++
	p.sink.Append(model.PoolEvent{
		Seq:       p.seq,
		Timestamp: p.now().Unix(),
		EventName: name,
		Decoded:   decoded,
	})
}

func checkAmounts(amounts ...*big.Int) error {
	for _, a := range amounts {
		if a == nil || a.Sign() < 0 {
			return fmt.Errorf("%w: amount must be non-nil and non-negative", ErrInvalidInputs)
		}
	}
	return nil
}

func orZero(a *big.Int) *big.Int {
	if a == nil {
		return new(big.Int)
	}
	return a
}
