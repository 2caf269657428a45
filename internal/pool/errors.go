package pool

import "errors"

var (
	// ErrExpired is returned when the current time is past the
	// caller-supplied deadline.
	ErrExpired = errors.New("deadline expired")
	// ErrInvalidRecipient is returned for a zero recipient address.
	ErrInvalidRecipient = errors.New("invalid recipient")
	// ErrTokenPairMismatch is returned when the supplied assets do not
	// match the bound pair, or are identical before binding.
	ErrTokenPairMismatch = errors.New("token pair mismatch")
	// ErrSlippageExceeded is returned when a computed amount falls short
	// of the caller's floor.
	ErrSlippageExceeded = errors.New("slippage exceeded")
	// ErrZeroLiquidity is returned when a deposit would issue zero shares.
	ErrZeroLiquidity = errors.New("zero liquidity issued")
	// ErrInsufficientShares is returned when a withdrawal requests more
	// shares than the caller holds.
	ErrInsufficientShares = errors.New("insufficient shares")
	// ErrInvalidPath is returned when a swap path is not exactly two
	// assets.
	ErrInvalidPath = errors.New("invalid swap path")
	// ErrInvalidInputs is returned when a calculation receives a zero or
	// nil input or reserve.
	ErrInvalidInputs = errors.New("invalid inputs")
	// ErrReentrancy is returned when an operation is invoked while
	// another one is still in flight.
	ErrReentrancy = errors.New("reentrant pool operation")
)
