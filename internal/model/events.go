package model

// Amounts are serialized as strings so arbitrary-precision values survive
// JSON round-trips.

// LiquidityAddedData is the LiquidityAdded event payload.
type LiquidityAddedData struct {
	Provider string `json:"provider"`
	AssetA   string `json:"asset_a"`
	AssetB   string `json:"asset_b"`
	AmountA  string `json:"amount_a"`
	AmountB  string `json:"amount_b"`
	Shares   string `json:"shares"`
}

// LiquidityRemovedData is the LiquidityRemoved event payload.
type LiquidityRemovedData struct {
	Provider string `json:"provider"`
	AmountA  string `json:"amount_a"`
	AmountB  string `json:"amount_b"`
	Shares   string `json:"shares"`
}

// SwapExecutedData is the SwapExecuted event payload.
type SwapExecutedData struct {
	Trader    string `json:"trader"`
	AssetIn   string `json:"asset_in"`
	AssetOut  string `json:"asset_out"`
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
}
