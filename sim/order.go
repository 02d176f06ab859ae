package sim

import (
	"sort"

	"github.com/shopspring/decimal"
)

// OrderLine is one (SKU, quantity) pair within an order, priced at the
// supplier's discounted rate for that quantity.
type OrderLine struct {
	SKU      string
	Quantity int
	Price    decimal.Decimal
}

// Order is an immutable record of one consolidated purchase from a single
// supplier: every line the supplier won in the placement period, the fixed
// delivery cost, and the day the whole order arrives. Once matured it never
// affects state again.
type Order struct {
	ID           int
	Supplier     string
	Lines        []OrderLine
	DeliveryCost decimal.Decimal
	PlacedPeriod int
	DeliveryDay  int

	seq int // placement sequence, stamped by the pipeline
}

// TotalPrice sums the line prices plus the delivery cost.
func (o *Order) TotalPrice() decimal.Decimal {
	total := o.DeliveryCost
	for _, line := range o.Lines {
		total = total.Add(line.Price)
	}
	return total
}

// QuantityFor returns the ordered quantity of one SKU within the order.
func (o *Order) QuantityFor(sku string) int {
	q := 0
	for _, line := range o.Lines {
		if line.SKU == sku {
			q += line.Quantity
		}
	}
	return q
}

// Pipeline holds orders in flight between placement and delivery, indexed by
// delivery day so maturation is a single map lookup per period rather than a
// scan of every pending order. It also maintains the per-SKU on-order totals
// the policies consume.
type Pipeline struct {
	byDay   map[int][]*Order
	onOrder map[string]int
	nextSeq int
	pending int
}

// NewPipeline creates an empty order pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{
		byDay:   make(map[int][]*Order),
		onOrder: make(map[string]int),
	}
}

// Place inserts an order into the pending set and stamps its placement
// sequence. The sequence is what keeps same-day maturation deterministic.
func (p *Pipeline) Place(o *Order) {
	o.seq = p.nextSeq
	p.nextSeq++
	p.byDay[o.DeliveryDay] = append(p.byDay[o.DeliveryDay], o)
	for _, line := range o.Lines {
		p.onOrder[line.SKU] += line.Quantity
	}
	p.pending++
}

// Mature removes and returns every order whose delivery day equals period, in
// placement order. Each returned order has left the pipeline for good; the
// caller must apply its quantities to inventory exactly once, before the
// period's demand is deducted.
func (p *Pipeline) Mature(period int) []*Order {
	due := p.byDay[period]
	if len(due) == 0 {
		return nil
	}
	delete(p.byDay, period)

	sort.Slice(due, func(i, j int) bool { return due[i].seq < due[j].seq })
	for _, o := range due {
		for _, line := range o.Lines {
			p.onOrder[line.SKU] -= line.Quantity
		}
		p.pending--
	}
	return due
}

// OnOrder returns the total undelivered quantity for one SKU.
func (p *Pipeline) OnOrder(sku string) int {
	return p.onOrder[sku]
}

// PendingOrders returns how many orders are still awaiting delivery.
func (p *Pipeline) PendingOrders() int {
	return p.pending
}
