package pool

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairpool/internal/model"
	"pairpool/internal/token"
)

var (
	poolAddr = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	assetA   = common.HexToAddress("0x0000000000000000000000000000000000000a01")
	assetB   = common.HexToAddress("0x0000000000000000000000000000000000000b02")
	assetC   = common.HexToAddress("0x0000000000000000000000000000000000000c03")
	alice    = common.HexToAddress("0x0000000000000000000000000000000000001111")
	bob      = common.HexToAddress("0x0000000000000000000000000000000000002222")
)

const (
	testNow      = int64(1_700_000_000)
	testDeadline = testNow + 100
)

type collectSink struct {
	events []model.PoolEvent
}

func (c *collectSink) Append(ev model.PoolEvent) {
	c.events = append(c.events, ev)
}

// newTestPool builds a pool over two funded in-memory ledgers. Alice and bob
// each hold 1,000,000 of both assets with a matching pool allowance.
func newTestPool(t *testing.T) (*Pool, *token.LedgerRegistry, *collectSink) {
	t.Helper()

	reg := token.NewLedgerRegistry(poolAddr)
	reg.Register(assetA, token.NewLedger("TOKA"))
	reg.Register(assetB, token.NewLedger("TOKB"))

	fund := big.NewInt(1_000_000)
	for _, asset := range []common.Address{assetA, assetB} {
		ledger, err := reg.Ledger(asset)
		require.NoError(t, err)
		for _, holder := range []common.Address{alice, bob} {
			require.NoError(t, ledger.Mint(holder, fund))
			require.NoError(t, ledger.Approve(holder, poolAddr, fund))
		}
	}

	sink := &collectSink{}
	p := New(poolAddr, reg,
		WithClock(func() time.Time { return time.Unix(testNow, 0) }),
		WithEventSink(sink),
	)
	return p, reg, sink
}

func deposit(t *testing.T, p *Pool, from common.Address, desiredA, desiredB int64) DepositResult {
	t.Helper()
	res, err := p.Deposit(context.Background(), from, DepositParams{
		AssetA:         assetA,
		AssetB:         assetB,
		AmountADesired: big.NewInt(desiredA),
		AmountBDesired: big.NewInt(desiredB),
		To:             from,
		Deadline:       testDeadline,
	})
	require.NoError(t, err)
	return res
}

func balanceOf(t *testing.T, reg *token.LedgerRegistry, asset, holder common.Address) *big.Int {
	t.Helper()
	ledger, err := reg.Ledger(asset)
	require.NoError(t, err)
	return ledger.BalanceOf(holder)
}

func TestDepositBootstrap(t *testing.T) {
	p, reg, sink := newTestPool(t)

	res := deposit(t, p, alice, 1000, 1000)

	assert.Equal(t, big.NewInt(1000), res.AmountA)
	assert.Equal(t, big.NewInt(1000), res.AmountB)
	assert.Equal(t, big.NewInt(1000), res.Shares)

	a, b, reserveA, reserveB, bound := p.Reserves()
	require.True(t, bound)
	assert.Equal(t, assetA, a)
	assert.Equal(t, assetB, b)
	assert.Equal(t, big.NewInt(1000), reserveA)
	assert.Equal(t, big.NewInt(1000), reserveB)
	assert.Equal(t, big.NewInt(1000), p.TotalShares())
	assert.Equal(t, big.NewInt(1000), p.SharesOf(alice))

	assert.Equal(t, big.NewInt(999_000), balanceOf(t, reg, assetA, alice))
	assert.Equal(t, big.NewInt(1000), balanceOf(t, reg, assetA, poolAddr))

	require.Len(t, sink.events, 1)
	assert.Equal(t, model.EventLiquidityAdded, sink.events[0].EventName)
	data, ok := sink.events[0].Decoded.(model.LiquidityAddedData)
	require.True(t, ok)
	assert.Equal(t, alice.Hex(), data.Provider)
	assert.Equal(t, "1000", data.Shares)
}

func TestDepositBootstrapUnevenRatio(t *testing.T) {
	p, _, _ := newTestPool(t)

	// The first deposit is the only path with an unconstrained ratio.
	res := deposit(t, p, alice, 1000, 2000)
	assert.Equal(t, big.NewInt(1414), res.Shares) // floor(sqrt(2_000_000))
}

func TestDepositRejectsIdenticalAssets(t *testing.T) {
	p, _, _ := newTestPool(t)

	_, err := p.Deposit(context.Background(), alice, DepositParams{
		AssetA:         assetA,
		AssetB:         assetA,
		AmountADesired: big.NewInt(1000),
		AmountBDesired: big.NewInt(1000),
		To:             alice,
		Deadline:       testDeadline,
	})
	require.ErrorIs(t, err, ErrTokenPairMismatch)
}

func TestDepositProportional(t *testing.T) {
	p, _, _ := newTestPool(t)
	deposit(t, p, alice, 1000, 2000) // totalShares = 1414

	res, err := p.Deposit(context.Background(), bob, DepositParams{
		AssetA:         assetA,
		AssetB:         assetB,
		AmountADesired: big.NewInt(100),
		AmountBDesired: big.NewInt(500),
		AmountBMin:     big.NewInt(200),
		To:             bob,
		Deadline:       testDeadline,
	})
	require.NoError(t, err)

	// optimal amountB = 100*2000/1000 = 200, within the desired ceiling
	assert.Equal(t, big.NewInt(100), res.AmountA)
	assert.Equal(t, big.NewInt(200), res.AmountB)
	// min(100*1414/1000, 200*1414/2000) = 141
	assert.Equal(t, big.NewInt(141), res.Shares)

	_, _, reserveA, reserveB, _ := p.Reserves()
	assert.Equal(t, big.NewInt(1100), reserveA)
	assert.Equal(t, big.NewInt(2200), reserveB)
}

func TestDepositProportionalSecondBranch(t *testing.T) {
	p, _, _ := newTestPool(t)
	deposit(t, p, alice, 1000, 2000)

	// Desired B is the binding side: optimal amountB = 600 > 300, so the
	// optimal amountA = 300*1000/2000 = 150 is used instead.
	res, err := p.Deposit(context.Background(), bob, DepositParams{
		AssetA:         assetA,
		AssetB:         assetB,
		AmountADesired: big.NewInt(300),
		AmountBDesired: big.NewInt(300),
		AmountAMin:     big.NewInt(150),
		To:             bob,
		Deadline:       testDeadline,
	})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(150), res.AmountA)
	assert.Equal(t, big.NewInt(300), res.AmountB)
}

func TestDepositReversedOrientation(t *testing.T) {
	p, _, _ := newTestPool(t)
	deposit(t, p, alice, 1000, 2000) // reserves A=1000, B=2000

	// Caller's first asset is the pool's assetB.
	res, err := p.Deposit(context.Background(), bob, DepositParams{
		AssetA:         assetB,
		AssetB:         assetA,
		AmountADesired: big.NewInt(200),
		AmountBDesired: big.NewInt(1000),
		To:             bob,
		Deadline:       testDeadline,
	})
	require.NoError(t, err)

	// Accepted amounts come back in the caller's order.
	assert.Equal(t, big.NewInt(200), res.AmountA) // assetB units
	assert.Equal(t, big.NewInt(100), res.AmountB) // assetA units
	assert.Equal(t, big.NewInt(141), res.Shares)

	_, _, reserveA, reserveB, _ := p.Reserves()
	assert.Equal(t, big.NewInt(1100), reserveA)
	assert.Equal(t, big.NewInt(2200), reserveB)
}

func TestDepositSlippage(t *testing.T) {
	p, _, _ := newTestPool(t)
	deposit(t, p, alice, 1000, 2000)

	_, err := p.Deposit(context.Background(), bob, DepositParams{
		AssetA:         assetA,
		AssetB:         assetB,
		AmountADesired: big.NewInt(100),
		AmountBDesired: big.NewInt(300),
		AmountBMin:     big.NewInt(250), // optimal is 200
		To:             bob,
		Deadline:       testDeadline,
	})
	require.ErrorIs(t, err, ErrSlippageExceeded)

	_, _, reserveA, reserveB, _ := p.Reserves()
	assert.Equal(t, big.NewInt(1000), reserveA)
	assert.Equal(t, big.NewInt(2000), reserveB)
}

func TestDepositZeroShares(t *testing.T) {
	p, _, _ := newTestPool(t)
	deposit(t, p, alice, 1000, 1000)

	_, err := p.Deposit(context.Background(), bob, DepositParams{
		AssetA:         assetA,
		AssetB:         assetB,
		AmountADesired: big.NewInt(0),
		AmountBDesired: big.NewInt(0),
		To:             bob,
		Deadline:       testDeadline,
	})
	require.ErrorIs(t, err, ErrZeroLiquidity)
}

func TestDepositExpired(t *testing.T) {
	p, reg, _ := newTestPool(t)

	_, err := p.Deposit(context.Background(), alice, DepositParams{
		AssetA:         assetA,
		AssetB:         assetB,
		AmountADesired: big.NewInt(1000),
		AmountBDesired: big.NewInt(1000),
		To:             alice,
		Deadline:       testNow - 1,
	})
	require.ErrorIs(t, err, ErrExpired)

	_, _, _, _, bound := p.Reserves()
	assert.False(t, bound)
	assert.Equal(t, big.NewInt(1_000_000), balanceOf(t, reg, assetA, alice))
}

func TestDepositInvalidRecipient(t *testing.T) {
	p, _, _ := newTestPool(t)

	_, err := p.Deposit(context.Background(), alice, DepositParams{
		AssetA:         assetA,
		AssetB:         assetB,
		AmountADesired: big.NewInt(1000),
		AmountBDesired: big.NewInt(1000),
		To:             common.Address{},
		Deadline:       testDeadline,
	})
	require.ErrorIs(t, err, ErrInvalidRecipient)
}

func TestDepositPairMismatch(t *testing.T) {
	p, _, _ := newTestPool(t)
	deposit(t, p, alice, 1000, 1000)

	_, err := p.Deposit(context.Background(), bob, DepositParams{
		AssetA:         assetA,
		AssetB:         assetC,
		AmountADesired: big.NewInt(100),
		AmountBDesired: big.NewInt(100),
		To:             bob,
		Deadline:       testDeadline,
	})
	require.ErrorIs(t, err, ErrTokenPairMismatch)
}

func TestDepositRollbackOnFailedTransfer(t *testing.T) {
	p, reg, sink := newTestPool(t)

	// Revoke bob's assetB allowance so the second transfer-in fails after
	// the first already moved funds.
	ledgerB, err := reg.Ledger(assetB)
	require.NoError(t, err)
	require.NoError(t, ledgerB.Approve(bob, poolAddr, big.NewInt(0)))

	_, err = p.Deposit(context.Background(), bob, DepositParams{
		AssetA:         assetA,
		AssetB:         assetB,
		AmountADesired: big.NewInt(1000),
		AmountBDesired: big.NewInt(1000),
		To:             bob,
		Deadline:       testDeadline,
	})
	require.ErrorIs(t, err, token.ErrInsufficientAllowance)

	// The pulled assetA leg was refunded and no state was committed.
	assert.Equal(t, big.NewInt(1_000_000), balanceOf(t, reg, assetA, bob))
	assert.Zero(t, balanceOf(t, reg, assetA, poolAddr).Sign())
	_, _, _, _, bound := p.Reserves()
	assert.False(t, bound)
	assert.Zero(t, p.TotalShares().Sign())
	assert.Empty(t, sink.events)
}

func TestWithdraw(t *testing.T) {
	p, reg, sink := newTestPool(t)
	deposit(t, p, alice, 1000, 1000)

	res, err := p.Withdraw(context.Background(), alice, WithdrawParams{
		AssetA:     assetA,
		AssetB:     assetB,
		Shares:     big.NewInt(400),
		AmountAMin: big.NewInt(400),
		AmountBMin: big.NewInt(400),
		To:         bob,
		Deadline:   testDeadline,
	})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(400), res.AmountA)
	assert.Equal(t, big.NewInt(400), res.AmountB)

	_, _, reserveA, reserveB, _ := p.Reserves()
	assert.Equal(t, big.NewInt(600), reserveA)
	assert.Equal(t, big.NewInt(600), reserveB)
	assert.Equal(t, big.NewInt(600), p.TotalShares())
	assert.Equal(t, big.NewInt(600), p.SharesOf(alice))

	assert.Equal(t, big.NewInt(1_000_400), balanceOf(t, reg, assetA, bob))

	require.Len(t, sink.events, 2)
	assert.Equal(t, model.EventLiquidityRemoved, sink.events[1].EventName)
}

func TestWithdrawReversedOrientation(t *testing.T) {
	p, _, _ := newTestPool(t)
	deposit(t, p, alice, 1000, 2000)

	res, err := p.Withdraw(context.Background(), alice, WithdrawParams{
		AssetA:     assetB,
		AssetB:     assetA,
		Shares:     big.NewInt(707),
		AmountAMin: big.NewInt(999), // assetB leg: 707*2000/1414 = 1000
		AmountBMin: big.NewInt(500), // assetA leg: 707*1000/1414 = 500
		To:         alice,
		Deadline:   testDeadline,
	})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), res.AmountA)
	assert.Equal(t, big.NewInt(500), res.AmountB)
}

func TestWithdrawSlippage(t *testing.T) {
	p, _, _ := newTestPool(t)
	deposit(t, p, alice, 1000, 1000)

	_, err := p.Withdraw(context.Background(), alice, WithdrawParams{
		AssetA:     assetA,
		AssetB:     assetB,
		Shares:     big.NewInt(400),
		AmountAMin: big.NewInt(401),
		To:         alice,
		Deadline:   testDeadline,
	})
	require.ErrorIs(t, err, ErrSlippageExceeded)

	assert.Equal(t, big.NewInt(1000), p.TotalShares())
}

func TestWithdrawInsufficientShares(t *testing.T) {
	p, _, _ := newTestPool(t)
	deposit(t, p, alice, 1000, 1000)

	_, err := p.Withdraw(context.Background(), bob, WithdrawParams{
		AssetA:   assetA,
		AssetB:   assetB,
		Shares:   big.NewInt(1),
		To:       bob,
		Deadline: testDeadline,
	})
	require.ErrorIs(t, err, ErrInsufficientShares)
}

func TestSwap(t *testing.T) {
	p, reg, sink := newTestPool(t)
	deposit(t, p, alice, 1000, 1000)

	res, err := p.Swap(context.Background(), bob, SwapParams{
		AmountIn:     big.NewInt(100),
		AmountOutMin: big.NewInt(90),
		Path:         []common.Address{assetA, assetB},
		To:           bob,
		Deadline:     testDeadline,
	})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), res.AmountIn)
	assert.Equal(t, big.NewInt(90), res.AmountOut)

	_, _, reserveA, reserveB, _ := p.Reserves()
	assert.Equal(t, big.NewInt(1100), reserveA)
	assert.Equal(t, big.NewInt(910), reserveB)
	// Shares are never affected by swaps.
	assert.Equal(t, big.NewInt(1000), p.TotalShares())

	assert.Equal(t, big.NewInt(999_900), balanceOf(t, reg, assetA, bob))
	assert.Equal(t, big.NewInt(1_000_090), balanceOf(t, reg, assetB, bob))

	require.Len(t, sink.events, 2)
	assert.Equal(t, model.EventSwapExecuted, sink.events[1].EventName)
	data, ok := sink.events[1].Decoded.(model.SwapExecutedData)
	require.True(t, ok)
	assert.Equal(t, bob.Hex(), data.Trader)
	assert.Equal(t, "100", data.AmountIn)
	assert.Equal(t, "90", data.AmountOut)
}

func TestSwapReversedOrientation(t *testing.T) {
	p, _, _ := newTestPool(t)
	deposit(t, p, alice, 1000, 1000)

	res, err := p.Swap(context.Background(), bob, SwapParams{
		AmountIn: big.NewInt(100),
		Path:     []common.Address{assetB, assetA},
		To:       bob,
		Deadline: testDeadline,
	})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(90), res.AmountOut)

	_, _, reserveA, reserveB, _ := p.Reserves()
	assert.Equal(t, big.NewInt(910), reserveA)
	assert.Equal(t, big.NewInt(1100), reserveB)
}

func TestSwapSlippage(t *testing.T) {
	p, _, _ := newTestPool(t)
	deposit(t, p, alice, 1000, 1000)

	_, err := p.Swap(context.Background(), bob, SwapParams{
		AmountIn:     big.NewInt(100),
		AmountOutMin: big.NewInt(91), // true quote is 90
		Path:         []common.Address{assetA, assetB},
		To:           bob,
		Deadline:     testDeadline,
	})
	require.ErrorIs(t, err, ErrSlippageExceeded)

	_, _, reserveA, reserveB, _ := p.Reserves()
	assert.Equal(t, big.NewInt(1000), reserveA)
	assert.Equal(t, big.NewInt(1000), reserveB)
}

func TestSwapInvalidPath(t *testing.T) {
	p, _, _ := newTestPool(t)
	deposit(t, p, alice, 1000, 1000)

	for _, path := range [][]common.Address{
		{assetA},
		{assetA, assetB, assetA},
		nil,
	} {
		_, err := p.Swap(context.Background(), bob, SwapParams{
			AmountIn: big.NewInt(100),
			Path:     path,
			To:       bob,
			Deadline: testDeadline,
		})
		require.ErrorIs(t, err, ErrInvalidPath)
	}
}

func TestSwapPairMismatch(t *testing.T) {
	p, _, _ := newTestPool(t)
	deposit(t, p, alice, 1000, 1000)

	_, err := p.Swap(context.Background(), bob, SwapParams{
		AmountIn: big.NewInt(100),
		Path:     []common.Address{assetA, assetC},
		To:       bob,
		Deadline: testDeadline,
	})
	require.ErrorIs(t, err, ErrTokenPairMismatch)
}

func TestSwapInvariantNeverDecreases(t *testing.T) {
	p, _, _ := newTestPool(t)
	deposit(t, p, alice, 10_000, 10_000)

	_, _, reserveA, reserveB, _ := p.Reserves()
	k := new(big.Int).Mul(reserveA, reserveB)

	for i, amount := range []int64{1, 7, 100, 3333, 50} {
		path := []common.Address{assetA, assetB}
		if i%2 == 1 {
			path = []common.Address{assetB, assetA}
		}
		_, err := p.Swap(context.Background(), bob, SwapParams{
			AmountIn: big.NewInt(amount),
			Path:     path,
			To:       bob,
			Deadline: testDeadline,
		})
		require.NoError(t, err)

		_, _, reserveA, reserveB, _ = p.Reserves()
		next := new(big.Int).Mul(reserveA, reserveB)
		require.GreaterOrEqual(t, next.Cmp(k), 0, "product decreased after swap %d", i)
		k = next
	}
}

func TestRoundTripNeverFavorsProvider(t *testing.T) {
	p, _, _ := newTestPool(t)
	deposit(t, p, alice, 1000, 3000)

	res, err := p.Deposit(context.Background(), bob, DepositParams{
		AssetA:         assetA,
		AssetB:         assetB,
		AmountADesired: big.NewInt(100),
		AmountBDesired: big.NewInt(1000),
		To:             bob,
		Deadline:       testDeadline,
	})
	require.NoError(t, err)

	out, err := p.Withdraw(context.Background(), bob, WithdrawParams{
		AssetA:   assetA,
		AssetB:   assetB,
		Shares:   res.Shares,
		To:       bob,
		Deadline: testDeadline,
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, out.AmountA.Cmp(res.AmountA), 0)
	assert.LessOrEqual(t, out.AmountB.Cmp(res.AmountB), 0)
}

func TestPrice(t *testing.T) {
	p, _, _ := newTestPool(t)
	deposit(t, p, alice, 1000, 2000)

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	forward, err := p.Price(assetA, assetB)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Mul(big.NewInt(2), scale), forward)

	backward, err := p.Price(assetB, assetA)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Div(scale, big.NewInt(2)), backward)

	_, err = p.Price(assetA, assetC)
	require.ErrorIs(t, err, ErrTokenPairMismatch)
}

func TestPriceUnbound(t *testing.T) {
	p, _, _ := newTestPool(t)

	_, err := p.Price(assetA, assetB)
	require.ErrorIs(t, err, ErrTokenPairMismatch)
}

func TestShareConservation(t *testing.T) {
	p, _, _ := newTestPool(t)
	deposit(t, p, alice, 1000, 2000)
	deposit(t, p, bob, 500, 1000)

	_, err := p.Withdraw(context.Background(), alice, WithdrawParams{
		AssetA:   assetA,
		AssetB:   assetB,
		Shares:   big.NewInt(300),
		To:       alice,
		Deadline: testDeadline,
	})
	require.NoError(t, err)

	sum := new(big.Int).Add(p.SharesOf(alice), p.SharesOf(bob))
	assert.Equal(t, p.TotalShares(), sum)
}

// reentrantToken wraps a token and invokes a callback before completing a
// transfer-in, the window where a hostile collaborator could try to re-enter
// the pool.
type reentrantToken struct {
	token.Token
	onTransferFrom func()
}

func (r *reentrantToken) TransferFrom(ctx context.Context, owner, dst common.Address, amount *big.Int) error {
	if r.onTransferFrom != nil {
		r.onTransferFrom()
	}
	return r.Token.TransferFrom(ctx, owner, dst, amount)
}

type reentrantRegistry struct {
	inner token.Registry
	hooks map[common.Address]func()
}

func (r *reentrantRegistry) Token(asset common.Address) (token.Token, error) {
	t, err := r.inner.Token(asset)
	if err != nil {
		return nil, err
	}
	if hook, ok := r.hooks[asset]; ok {
		return &reentrantToken{Token: t, onTransferFrom: hook}, nil
	}
	return t, nil
}

func TestReentrancyRejected(t *testing.T) {
	base := token.NewLedgerRegistry(poolAddr)
	base.Register(assetA, token.NewLedger("TOKA"))
	base.Register(assetB, token.NewLedger("TOKB"))
	for _, asset := range []common.Address{assetA, assetB} {
		ledger, err := base.Ledger(asset)
		require.NoError(t, err)
		require.NoError(t, ledger.Mint(alice, big.NewInt(1_000_000)))
		require.NoError(t, ledger.Approve(alice, poolAddr, big.NewInt(1_000_000)))
	}

	reg := &reentrantRegistry{inner: base, hooks: make(map[common.Address]func())}
	p := New(poolAddr, reg, WithClock(func() time.Time { return time.Unix(testNow, 0) }))

	var reentered error
	reg.hooks[assetA] = func() {
		_, reentered = p.Swap(context.Background(), alice, SwapParams{
			AmountIn: big.NewInt(1),
			Path:     []common.Address{assetA, assetB},
			To:       alice,
			Deadline: testDeadline,
		})
	}

	_, err := p.Deposit(context.Background(), alice, DepositParams{
		AssetA:         assetA,
		AssetB:         assetB,
		AmountADesired: big.NewInt(1000),
		AmountBDesired: big.NewInt(1000),
		To:             alice,
		Deadline:       testDeadline,
	})
	require.NoError(t, err)
	require.ErrorIs(t, reentered, ErrReentrancy)
}

func TestSnapshotRestore(t *testing.T) {
	p, reg, _ := newTestPool(t)
	deposit(t, p, alice, 1000, 2000)
	deposit(t, p, bob, 100, 500)

	snap, err := p.Snapshot()
	require.NoError(t, err)
	require.True(t, snap.Bound)

	restored := New(poolAddr, reg, WithClock(func() time.Time { return time.Unix(testNow, 0) }))
	require.NoError(t, restored.Restore(snap))

	_, _, wantA, wantB, _ := p.Reserves()
	_, _, gotA, gotB, bound := restored.Reserves()
	require.True(t, bound)
	assert.Equal(t, wantA, gotA)
	assert.Equal(t, wantB, gotB)
	assert.Equal(t, p.TotalShares(), restored.TotalShares())
	assert.Equal(t, p.SharesOf(alice), restored.SharesOf(alice))
	assert.Equal(t, p.SharesOf(bob), restored.SharesOf(bob))
}

func TestRestoreRejectsShareMismatch(t *testing.T) {
	p, reg, _ := newTestPool(t)
	deposit(t, p, alice, 1000, 1000)

	snap, err := p.Snapshot()
	require.NoError(t, err)
	snap.TotalShares = "999"

	restored := New(poolAddr, reg)
	require.Error(t, restored.Restore(snap))
}
