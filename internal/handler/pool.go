package handler

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"pairpool/internal/pool"
	"pairpool/internal/service"
)

// PoolHandler exposes the pool operations over HTTP.
type PoolHandler struct {
	BaseHandler
	service *service.Service
}

func NewPoolHandler(logger *zap.Logger, svc *service.Service) *PoolHandler {
	return &PoolHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// Register mounts the pool routes on the app.
func (h *PoolHandler) Register(app *fiber.App) {
	app.Post("/deposit", h.Deposit())
	app.Post("/withdraw", h.Withdraw())
	app.Post("/swap", h.Swap())
	app.Get("/price", h.Price())
	app.Get("/quote", h.Quote())
}

type DepositRequest struct {
	From           string `json:"from"`
	AssetA         string `json:"asset_a"`
	AssetB         string `json:"asset_b"`
	AmountADesired string `json:"amount_a_desired"`
	AmountBDesired string `json:"amount_b_desired"`
	AmountAMin     string `json:"amount_a_min"`
	AmountBMin     string `json:"amount_b_min"`
	To             string `json:"to"`
	Deadline       int64  `json:"deadline"`
}

type DepositResponse struct {
	AmountA string `json:"amount_a"`
	AmountB string `json:"amount_b"`
	Shares  string `json:"shares"`
}

func (h *PoolHandler) Deposit() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req DepositRequest
		if err := c.Bind().Body(&req); err != nil {
			return ErrInvalidRequestBody
		}

		from, err := parseAddress("from", req.From)
		if err != nil {
			return err
		}
		assetA, err := parseAddress("asset_a", req.AssetA)
		if err != nil {
			return err
		}
		assetB, err := parseAddress("asset_b", req.AssetB)
		if err != nil {
			return err
		}
		to, err := parseRecipient(req.To, from)
		if err != nil {
			return err
		}
		desiredA, err := parseAmount(req.AmountADesired)
		if err != nil {
			return err
		}
		desiredB, err := parseAmount(req.AmountBDesired)
		if err != nil {
			return err
		}
		minA, err := parseOptionalAmount(req.AmountAMin)
		if err != nil {
			return err
		}
		minB, err := parseOptionalAmount(req.AmountBMin)
		if err != nil {
			return err
		}

		res, err := h.service.Deposit(c.Context(), from, pool.DepositParams{
			AssetA:         assetA,
			AssetB:         assetB,
			AmountADesired: desiredA,
			AmountBDesired: desiredB,
			AmountAMin:     minA,
			AmountBMin:     minB,
			To:             to,
			Deadline:       req.Deadline,
		})
		if err != nil {
			return h.mapPoolError(err)
		}

		return c.JSON(DepositResponse{
			AmountA: res.AmountA.String(),
			AmountB: res.AmountB.String(),
			Shares:  res.Shares.String(),
		})
	}
}

type WithdrawRequest struct {
	From       string `json:"from"`
	AssetA     string `json:"asset_a"`
	AssetB     string `json:"asset_b"`
	Shares     string `json:"shares"`
	AmountAMin string `json:"amount_a_min"`
	AmountBMin string `json:"amount_b_min"`
	To         string `json:"to"`
	Deadline   int64  `json:"deadline"`
}

type WithdrawResponse struct {
	AmountA string `json:"amount_a"`
	AmountB string `json:"amount_b"`
}

func (h *PoolHandler) Withdraw() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req WithdrawRequest
		if err := c.Bind().Body(&req); err != nil {
			return ErrInvalidRequestBody
		}

		from, err := parseAddress("from", req.From)
		if err != nil {
			return err
		}
		assetA, err := parseAddress("asset_a", req.AssetA)
		if err != nil {
			return err
		}
		assetB, err := parseAddress("asset_b", req.AssetB)
		if err != nil {
			return err
		}
		to, err := parseRecipient(req.To, from)
		if err != nil {
			return err
		}
		shares, err := parseAmount(req.Shares)
		if err != nil {
			return err
		}
		minA, err := parseOptionalAmount(req.AmountAMin)
		if err != nil {
			return err
		}
		minB, err := parseOptionalAmount(req.AmountBMin)
		if err != nil {
			return err
		}

		res, err := h.service.Withdraw(c.Context(), from, pool.WithdrawParams{
			AssetA:     assetA,
			AssetB:     assetB,
			Shares:     shares,
			AmountAMin: minA,
			AmountBMin: minB,
			To:         to,
			Deadline:   req.Deadline,
		})
		if err != nil {
			return h.mapPoolError(err)
		}

		return c.JSON(WithdrawResponse{
			AmountA: res.AmountA.String(),
			AmountB: res.AmountB.String(),
		})
	}
}

type SwapRequest struct {
	From         string `json:"from"`
	AssetIn      string `json:"asset_in"`
	AssetOut     string `json:"asset_out"`
	AmountIn     string `json:"amount_in"`
	AmountOutMin string `json:"amount_out_min"`
	To           string `json:"to"`
	Deadline     int64  `json:"deadline"`
}

type SwapResponse struct {
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
}

func (h *PoolHandler) Swap() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req SwapRequest
		if err := c.Bind().Body(&req); err != nil {
			return ErrInvalidRequestBody
		}

		from, err := parseAddress("from", req.From)
		if err != nil {
			return err
		}
		assetIn, err := parseAddress("asset_in", req.AssetIn)
		if err != nil {
			return err
		}
		assetOut, err := parseAddress("asset_out", req.AssetOut)
		if err != nil {
			return err
		}
		to, err := parseRecipient(req.To, from)
		if err != nil {
			return err
		}
		amountIn, err := parseAmount(req.AmountIn)
		if err != nil {
			return err
		}
		outMin, err := parseOptionalAmount(req.AmountOutMin)
		if err != nil {
			return err
		}

		res, err := h.service.Swap(c.Context(), from, pool.SwapParams{
			AmountIn:     amountIn,
			AmountOutMin: outMin,
			Path:         []common.Address{assetIn, assetOut},
			To:           to,
			Deadline:     req.Deadline,
		})
		if err != nil {
			return h.mapPoolError(err)
		}

		return c.JSON(SwapResponse{
			AmountIn:  res.AmountIn.String(),
			AmountOut: res.AmountOut.String(),
		})
	}
}

type PriceRequest struct {
	AssetA string `query:"asset_a" json:"asset_a"`
	AssetB string `query:"asset_b" json:"asset_b"`
}

type PriceResponse struct {
	Price string `json:"price"`
}

func (h *PoolHandler) Price() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req PriceRequest
		if err := c.Bind().Query(&req); err != nil {
			return ErrInvalidQueryParameters
		}

		assetA, err := parseAddress("asset_a", req.AssetA)
		if err != nil {
			return err
		}
		assetB, err := parseAddress("asset_b", req.AssetB)
		if err != nil {
			return err
		}

		price, err := h.service.Price(assetA, assetB)
		if err != nil {
			return h.mapPoolError(err)
		}

		return c.JSON(PriceResponse{Price: price.String()})
	}
}

type QuoteRequest struct {
	AmountIn   string `query:"amount_in" json:"amount_in"`
	ReserveIn  string `query:"reserve_in" json:"reserve_in"`
	ReserveOut string `query:"reserve_out" json:"reserve_out"`
}

type QuoteResponse struct {
	AmountOut string `json:"amount_out"`
}

func (h *PoolHandler) Quote() fiber.Handler {
	return func(c fiber.Ctx) error {
		var req QuoteRequest
		if err := c.Bind().Query(&req); err != nil {
			return ErrInvalidQueryParameters
		}

		amountIn, err := parseAmount(req.AmountIn)
		if err != nil {
			return err
		}
		reserveIn, err := parseAmount(req.ReserveIn)
		if err != nil {
			return err
		}
		reserveOut, err := parseAmount(req.ReserveOut)
		if err != nil {
			return err
		}

		out, err := h.service.Quote(amountIn, reserveIn, reserveOut)
		if err != nil {
			return h.mapPoolError(err)
		}

		return c.JSON(QuoteResponse{AmountOut: out.String()})
	}
}

func parseAddress(field, raw string) (common.Address, error) {
	if raw == "" {
		return common.Address{}, NewAddressRequired(field)
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, NewInvalidAddress(field)
	}
	return common.HexToAddress(raw), nil
}

// parseRecipient falls back to the caller when no explicit recipient is
// given.
func parseRecipient(raw string, from common.Address) (common.Address, error) {
	if raw == "" {
		return from, nil
	}
	return parseAddress("to", raw)
}

func parseAmount(raw string) (*big.Int, error) {
	if raw == "" {
		return nil, ErrAmountRequired
	}
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok || amount.Sign() < 0 {
		return nil, ErrInvalidAmountFormat
	}
	return amount, nil
}

func parseOptionalAmount(raw string) (*big.Int, error) {
	if raw == "" {
		return nil, nil
	}
	return parseAmount(raw)
}
