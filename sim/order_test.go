package sim

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testOrder(id int, sku string, qty, deliveryDay int) *Order {
	return &Order{
		ID:          id,
		Supplier:    "Sup1",
		Lines:       []OrderLine{{SKU: sku, Quantity: qty, Price: decimal.NewFromInt(int64(qty * 10))}},
		DeliveryDay: deliveryDay,
	}
}

func TestPipeline_MatureReturnsOnlyDueOrders(t *testing.T) {
	// GIVEN orders due on days 3 and 5
	p := NewPipeline()
	p.Place(testOrder(0, "SKU0", 100, 3))
	p.Place(testOrder(1, "SKU0", 50, 5))

	// WHEN day 3 matures
	due := p.Mature(3)

	// THEN only the first order is returned
	assert.Len(t, due, 1)
	assert.Equal(t, 0, due[0].ID)
	assert.Equal(t, 1, p.PendingOrders())
}

func TestPipeline_AtMostOnceDelivery(t *testing.T) {
	// GIVEN a matured order
	p := NewPipeline()
	p.Place(testOrder(0, "SKU0", 100, 3))
	first := p.Mature(3)
	assert.Len(t, first, 1)

	// WHEN the same day matures again
	second := p.Mature(3)

	// THEN the order never reappears
	assert.Empty(t, second)
	assert.Equal(t, 0, p.PendingOrders())
	assert.Equal(t, 0, p.OnOrder("SKU0"))
}

func TestPipeline_SameDayOrdersMatureInPlacementOrder(t *testing.T) {
	// GIVEN three orders for the same SKU all due on day 4
	p := NewPipeline()
	p.Place(testOrder(2, "SKU0", 10, 4))
	p.Place(testOrder(0, "SKU0", 20, 4))
	p.Place(testOrder(1, "SKU0", 30, 4))

	// WHEN the day matures
	due := p.Mature(4)

	// THEN orders come back in the order they were placed, not by ID
	assert.Len(t, due, 3)
	assert.Equal(t, []int{2, 0, 1}, []int{due[0].ID, due[1].ID, due[2].ID})
}

func TestPipeline_OnOrderTracksUndeliveredQuantity(t *testing.T) {
	p := NewPipeline()
	p.Place(testOrder(0, "SKU0", 100, 3))
	p.Place(testOrder(1, "SKU0", 50, 5))
	p.Place(testOrder(2, "SKU1", 70, 3))

	assert.Equal(t, 150, p.OnOrder("SKU0"))
	assert.Equal(t, 70, p.OnOrder("SKU1"))
	assert.Equal(t, 0, p.OnOrder("SKU2"))

	p.Mature(3)
	assert.Equal(t, 50, p.OnOrder("SKU0"))
	assert.Equal(t, 0, p.OnOrder("SKU1"))
}

func TestOrder_TotalPriceIncludesDelivery(t *testing.T) {
	o := &Order{
		Lines: []OrderLine{
			{SKU: "SKU0", Quantity: 10, Price: decimal.NewFromInt(900)},
			{SKU: "SKU1", Quantity: 5, Price: decimal.NewFromInt(500)},
		},
		DeliveryCost: decimal.NewFromInt(300),
	}
	assert.True(t, o.TotalPrice().Equal(decimal.NewFromInt(1700)))
}

func TestOrder_QuantityFor(t *testing.T) {
	o := &Order{
		Lines: []OrderLine{
			{SKU: "SKU0", Quantity: 10},
			{SKU: "SKU1", Quantity: 5},
		},
	}
	assert.Equal(t, 10, o.QuantityFor("SKU0"))
	assert.Equal(t, 0, o.QuantityFor("SKU9"))
}
