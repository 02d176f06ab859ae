package ledger

// Summary aggregates statistics from a Result.
type Summary struct {
	Fitness       float64
	TotalHolding  float64
	TotalStockout float64
	TotalOrder    float64
	OrdersPlaced  int

	CostPerSKU      map[string]float64 // SKU name → total cost over the horizon
	StockoutPeriods map[string]int     // SKU name → periods spent backordered
}

// Summarize computes aggregate statistics from a Result.
// Safe for nil or empty results (returns zero-value fields).
func Summarize(r *Result) *Summary {
	summary := &Summary{
		CostPerSKU:      make(map[string]float64),
		StockoutPeriods: make(map[string]int),
	}
	if r == nil {
		return summary
	}

	summary.Fitness = r.Fitness
	for _, rec := range r.Records {
		summary.TotalHolding += rec.HoldingCost
		summary.TotalStockout += rec.StockoutCost
		summary.TotalOrder += rec.OrderCost
		summary.CostPerSKU[rec.SKU] += rec.TotalCost
		if rec.Inventory < 0 {
			summary.StockoutPeriods[rec.SKU]++
		}
	}

	orderIDs := make(map[int]bool)
	for _, o := range r.Orders {
		orderIDs[o.OrderID] = true
	}
	summary.OrdersPlaced = len(orderIDs)

	return summary
}
