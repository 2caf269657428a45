package model

// PoolEvent is an append-only notification emitted by the pool after a
// committed operation. It is never part of the pool's own state.
type PoolEvent struct {
	Seq       uint64      `json:"seq"`
	Timestamp int64       `json:"timestamp"`
	EventName string      `json:"event_name"`
	Decoded   interface{} `json:"decoded"`
}

// Event names carried by PoolEvent.
const (
	EventLiquidityAdded   = "LiquidityAdded"
	EventLiquidityRemoved = "LiquidityRemoved"
	EventSwapExecuted     = "SwapExecuted"
)
