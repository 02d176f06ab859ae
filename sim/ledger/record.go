// Package ledger provides the per-period output records of an evaluation.
// This package has no dependencies on sim/ — it stores pure data types.
package ledger

// Record captures one SKU's state and cost breakdown for one period.
// Inventory is the end-of-period level, the value the costs are charged on;
// it may be negative, denoting backordered demand. Delivered is recorded so
// that the conservation law
//
//	inventory[t] = inventory[t-1] + delivered[t] - demand[t]
//
// can be reconstructed from records alone.
type Record struct {
	SKU          string
	Period       int
	Demand       int
	Inventory    int
	Delivered    int
	OrderedQty   int // quantity actually placed this period (0 if unmatched)
	HoldingCost  float64
	StockoutCost float64
	OrderCost    float64
	TotalCost    float64
}

// OrderRecord captures one placed order line for reporting: which supplier
// won which SKU at what discounted price, and when the goods arrive.
type OrderRecord struct {
	Period       int
	OrderID      int
	Supplier     string
	SKU          string
	Quantity     int
	Price        float64
	DeliveryCost float64
	DeliveryDay  int
}

// Result is the complete output of one evaluation: one Record per
// (SKU, period), the order log, and the scalar fitness (the sum of all
// holding, stockout and order costs — lower is better).
type Result struct {
	Records []Record
	Orders  []OrderRecord
	Fitness float64
}
