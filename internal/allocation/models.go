package allocation

// ScoredAsset is the minimal record the allocator operates on. It is produced
// fresh per evaluation by the analysis layer; the allocator never caches or
// mutates it.
type ScoredAsset struct {
	Symbol             string  `json:"symbol"`
	CurrentPrice       float64 `json:"current_price"`
	FuturePotentialPct float64 `json:"future_potential_pct"`
}

// Efficiency returns the expected return per currency unit. The second return
// value is false when the price is non-positive and the ratio is undefined.
func (a ScoredAsset) Efficiency() (float64, bool) {
	if a.CurrentPrice <= 0 {
		return 0, false
	}
	return a.FuturePotentialPct / a.CurrentPrice, true
}

// AllocationLine is one asset's slice of a greedy portfolio.
type AllocationLine struct {
	Symbol          string  `json:"symbol"`
	Shares          int     `json:"shares"`
	Cost            float64 `json:"cost"`
	PotentialReturn float64 `json:"potential_return"`
}

// Portfolio is an ordered sequence of allocation lines. Line order is the
// greedy selection order.
type Portfolio struct {
	Lines []AllocationLine `json:"lines"`
}

// TotalCost returns the sum of all line costs.
func (p Portfolio) TotalCost() float64 {
	var total float64
	for _, line := range p.Lines {
		total += line.Cost
	}
	return total
}

// TotalPotentialReturn returns the sum of all line potential returns.
func (p Portfolio) TotalPotentialReturn() float64 {
	var total float64
	for _, line := range p.Lines {
		total += line.PotentialReturn
	}
	return total
}

// IsEmpty reports whether the portfolio holds no lines.
func (p Portfolio) IsEmpty() bool {
	return len(p.Lines) == 0
}
