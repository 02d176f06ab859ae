package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_Aggregates(t *testing.T) {
	result := &Result{
		Fitness: 5500,
		Records: []Record{
			{SKU: "SKU0", Period: 0, Inventory: 100, HoldingCost: 500, TotalCost: 500},
			{SKU: "SKU0", Period: 1, Inventory: -10, StockoutCost: 2000, TotalCost: 2000},
			{SKU: "SKU1", Period: 0, Inventory: 50, HoldingCost: 100, OrderCost: 2900, TotalCost: 3000},
			{SKU: "SKU1", Period: 1, Inventory: 40, HoldingCost: 0, TotalCost: 0},
		},
		Orders: []OrderRecord{
			{Period: 0, OrderID: 0, SKU: "SKU1", Quantity: 29},
			{Period: 0, OrderID: 0, SKU: "SKU0", Quantity: 10}, // second line, same order
			{Period: 1, OrderID: 1, SKU: "SKU1", Quantity: 5},
		},
	}

	s := Summarize(result)

	assert.Equal(t, 5500.0, s.Fitness)
	assert.Equal(t, 600.0, s.TotalHolding)
	assert.Equal(t, 2000.0, s.TotalStockout)
	assert.Equal(t, 2900.0, s.TotalOrder)
	assert.Equal(t, 2500.0, s.CostPerSKU["SKU0"])
	assert.Equal(t, 3000.0, s.CostPerSKU["SKU1"])
	assert.Equal(t, 1, s.StockoutPeriods["SKU0"])
	assert.Equal(t, 0, s.StockoutPeriods["SKU1"])

	// Two distinct order IDs: a multi-line order counts once.
	assert.Equal(t, 2, s.OrdersPlaced)
}

func TestSummarize_NilAndEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.NotNil(t, s)
	assert.Equal(t, 0.0, s.Fitness)
	assert.Empty(t, s.CostPerSKU)

	s = Summarize(&Result{})
	assert.Equal(t, 0, s.OrdersPlaced)
}
