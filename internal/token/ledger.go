package token

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrInsufficientBalance is returned when a transfer exceeds the
	// sender's balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInsufficientAllowance is returned when a transfer-from exceeds
	// the spender's approved allowance.
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	// ErrInvalidAmount is returned for nil or negative amounts.
	ErrInvalidAmount = errors.New("amount must be non-nil and non-negative")
	// ErrZeroAddress is returned when funds would move to or from the
	// zero address.
	ErrZeroAddress = errors.New("zero address")
	// ErrUnknownAsset is returned by a registry for an unlisted asset.
	ErrUnknownAsset = errors.New("unknown asset")
)

// Ledger is an in-memory fungible-asset ledger: balances, allowances and
// total supply, with all-or-nothing transfers. It stands in for the external
// asset contract during tests and demo runs.
//
// Invariant: sum of all balances equals the total supply.
type Ledger struct {
	mu         sync.Mutex
	symbol     string
	supply     *big.Int
	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int
}

func NewLedger(symbol string) *Ledger {
	return &Ledger{
		symbol:     symbol,
		supply:     new(big.Int),
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[common.Address]map[common.Address]*big.Int),
	}
}

// Symbol returns the asset's display symbol.
func (l *Ledger) Symbol() string { return l.symbol }

// Mint credits amount to dst and grows the total supply.
func (l *Ledger) Mint(dst common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if dst == (common.Address{}) {
		return fmt.Errorf("%w: mint destination", ErrZeroAddress)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(dst, amount)
	l.supply.Add(l.supply, amount)
	return nil
}

// Approve sets spender's allowance over owner's funds to amount.
func (l *Ledger) Approve(owner, spender common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	inner := l.allowances[owner]
	if inner == nil {
		inner = make(map[common.Address]*big.Int)
		l.allowances[owner] = inner
	}
	inner[spender] = new(big.Int).Set(amount)
	return nil
}

// BalanceOf returns holder's balance. Absent entries are zero.
func (l *Ledger) BalanceOf(holder common.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.balances[holder]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// Allowance returns the remaining amount spender may pull from owner.
func (l *Ledger) Allowance(owner, spender common.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if inner := l.allowances[owner]; inner != nil {
		if a, ok := inner[spender]; ok {
			return new(big.Int).Set(a)
		}
	}
	return new(big.Int)
}

// TotalSupply returns the aggregate minted supply.
func (l *Ledger) TotalSupply() *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.supply)
}

// transfer moves amount from src to dst, failing without effect when src's
// balance is short.
func (l *Ledger) transfer(src, dst common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if src == (common.Address{}) || dst == (common.Address{}) {
		return ErrZeroAddress
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	bal := l.balances[src]
	if bal == nil || bal.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s", ErrInsufficientBalance, l.symbol)
	}
	bal.Sub(bal, amount)
	l.credit(dst, amount)
	return nil
}

// transferFrom moves amount from owner to dst on behalf of spender,
// consuming spender's allowance.
func (l *Ledger) transferFrom(spender, owner, dst common.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if owner == (common.Address{}) || dst == (common.Address{}) {
		return ErrZeroAddress
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	inner := l.allowances[owner]
	var allowance *big.Int
	if inner != nil {
		allowance = inner[spender]
	}
	if allowance == nil || allowance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s", ErrInsufficientAllowance, l.symbol)
	}
	bal := l.balances[owner]
	if bal == nil || bal.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s", ErrInsufficientBalance, l.symbol)
	}
	allowance.Sub(allowance, amount)
	bal.Sub(bal, amount)
	l.credit(dst, amount)
	return nil
}

func (l *Ledger) credit(dst common.Address, amount *big.Int) {
	if b, ok := l.balances[dst]; ok {
		b.Add(b, amount)
		return
	}
	l.balances[dst] = new(big.Int).Set(amount)
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	return nil
}
