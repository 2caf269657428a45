package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"pairpool/internal/pool"
	"pairpool/internal/token"
)

// ErrInvalidRequestBody indicates the request payload could not be parsed
// into the expected structure.
var ErrInvalidRequestBody = fiber.NewError(fiber.StatusBadRequest, "invalid request body")

// ErrInvalidQueryParameters indicates the query string could not be parsed.
var ErrInvalidQueryParameters = fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")

// ErrAmountRequired is returned when a required amount field is missing.
var ErrAmountRequired = fiber.NewError(fiber.StatusBadRequest, "amount is required")

// ErrInvalidAmountFormat is returned when an amount cannot be parsed as a
// base-10 unsigned integer.
var ErrInvalidAmountFormat = fiber.NewError(fiber.StatusBadRequest, "invalid amount format")

// ErrPoolBusy maps a rejected overlapping operation to a 409 Conflict.
var ErrPoolBusy = fiber.NewError(fiber.StatusConflict, "pool operation in flight")

// ErrInternal signals a generic server-side failure.
var ErrInternal = fiber.NewError(fiber.StatusInternalServerError, "operation failed")

// NewAddressRequired returns a 400 Bad Request for a missing address field.
func NewAddressRequired(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, field+" address is required")
}

// NewInvalidAddress returns a 400 Bad Request for a malformed address.
func NewInvalidAddress(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid "+field+" address")
}

// mapPoolError translates engine and ledger errors into HTTP errors with a
// distinguishable status and message per kind.
func (h *BaseHandler) mapPoolError(err error) error {
	switch {
	case errors.Is(err, pool.ErrExpired):
		return fiber.NewError(fiber.StatusBadRequest, "deadline expired")
	case errors.Is(err, pool.ErrInvalidRecipient):
		return fiber.NewError(fiber.StatusBadRequest, "invalid recipient")
	case errors.Is(err, pool.ErrTokenPairMismatch):
		return fiber.NewError(fiber.StatusBadRequest, "token pair mismatch")
	case errors.Is(err, pool.ErrSlippageExceeded):
		return fiber.NewError(fiber.StatusConflict, "slippage exceeded")
	case errors.Is(err, pool.ErrZeroLiquidity):
		return fiber.NewError(fiber.StatusBadRequest, "deposit would issue zero shares")
	case errors.Is(err, pool.ErrInsufficientShares):
		return fiber.NewError(fiber.StatusBadRequest, "insufficient shares")
	case errors.Is(err, pool.ErrInvalidPath):
		return fiber.NewError(fiber.StatusBadRequest, "invalid swap path")
	case errors.Is(err, pool.ErrInvalidInputs):
		return fiber.NewError(fiber.StatusBadRequest, "invalid inputs")
	case errors.Is(err, pool.ErrReentrancy):
		return ErrPoolBusy
	case errors.Is(err, token.ErrInsufficientBalance):
		return fiber.NewError(fiber.StatusBadRequest, "insufficient token balance")
	case errors.Is(err, token.ErrInsufficientAllowance):
		return fiber.NewError(fiber.StatusBadRequest, "insufficient token allowance")
	case errors.Is(err, token.ErrUnknownAsset):
		return fiber.NewError(fiber.StatusBadRequest, "unknown asset")
	default:
		h.logger.Error("pool operation failed", zap.Error(err))
		return ErrInternal
	}
}
