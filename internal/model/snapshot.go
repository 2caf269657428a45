package model

// PoolSnapshot is the pool's externally visible state at a point in time,
// used for checkpointing and storage. Numeric fields are decimal strings.
type PoolSnapshot struct {
	Bound       bool              `json:"bound"`
	AssetA      string            `json:"asset_a"`
	AssetB      string            `json:"asset_b"`
	ReserveA    string            `json:"reserve_a"`
	ReserveB    string            `json:"reserve_b"`
	TotalShares string            `json:"total_shares"`
	Positions   map[string]string `json:"positions"`
	LastSeq     uint64            `json:"last_seq"`
	UpdatedAt   string            `json:"updated_at"`
}
