package models

// SimulateRequest is the body for POST /api/v1/simulate and
// POST /api/v1/simulate/stream. Omitted fields fall back to the server config.
type SimulateRequest struct {
	Tier           int  `json:"tier" binding:"required,min=1"`
	TickLimit      int  `json:"tick_limit,omitempty" binding:"omitempty,min=1,max=1000"`
	TickIntervalMS *int `json:"tick_interval_ms,omitempty" binding:"omitempty,min=0,max=60000"`
	SampleSize     *int `json:"sample_size,omitempty" binding:"omitempty,min=0,max=8"`
	IncludeLedger  bool `json:"include_ledger,omitempty"` // default: false
}
