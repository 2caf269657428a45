package handler

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"pairpool/internal/token"
)

// FaucetHandler funds demo accounts on the in-process ledgers and grants
// the pool an allowance so the funded account can deposit and swap right
// away.
type FaucetHandler struct {
	BaseHandler
	registry *token.LedgerRegistry
	poolAddr common.Address
}

func NewFaucetHandler(logger *zap.Logger, registry *token.LedgerRegistry, poolAddr common.Address) *FaucetHandler {
	return &FaucetHandler{
		BaseHandler: BaseHandler{logger: logger},
		registry:    registry,
		poolAddr:    poolAddr,
	}
}

func (h *FaucetHandler) Register(app *fiber.App) {
	app.Post("/faucet", h.Fund())
}

type FaucetRequest struct {
	Account string `json:"account"`
	Asset   string `json:"asset"`
	Amount  string `json:"amount"`
}

type FaucetResponse struct {
	Balance   string `json:"balance"`
	Allowance string `json:"allowance"`
}

func (h *FaucetHandler) Fund() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req FaucetRequest
		if err := c.Bind().Body(&req); err != nil {
			return ErrInvalidRequestBody
		}

		account, err := parseAddress("account", req.Account)
		if err != nil {
			return err
		}
		asset, err := parseAddress("asset", req.Asset)
		if err != nil {
			return err
		}
		amount, err := parseAmount(req.Amount)
		if err != nil {
			return err
		}

		ledger, err := h.registry.Ledger(asset)
		if err != nil {
			return h.mapPoolError(err)
		}
		if err := ledger.Mint(account, amount); err != nil {
			return h.mapPoolError(err)
		}
		if err := ledger.Approve(account, h.poolAddr, ledger.BalanceOf(account)); err != nil {
			return h.mapPoolError(err)
		}

		h.logger.Info("faucet funded account",
			zap.String("account", account.Hex()),
			zap.String("asset", asset.Hex()),
			zap.String("amount", amount.String()))

		return c.JSON(FaucetResponse{
			Balance:   ledger.BalanceOf(account).String(),
			Allowance: ledger.Allowance(account, h.poolAddr).String(),
		})
	}
}
