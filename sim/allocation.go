package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
	xrand "golang.org/x/exp/rand"
)

// Request is one SKU's pending replenishment need for the current period.
// Quantity is always positive; zero-quantity needs never reach allocation.
type Request struct {
	SKU      *SKU
	Quantity int
}

// Allocator matches pending replenishment requests to suppliers, once per
// period. Supplier iteration order is shuffled each call to avoid structural
// bias toward whichever supplier happens to be listed first; within one
// supplier, requests are visited in stable SKU order so a run is fully
// reproducible given the evaluation's RNG.
type Allocator struct {
	suppliers   []*Supplier
	nextOrderID int
}

// NewAllocator creates an allocator over a fixed supplier set.
func NewAllocator(suppliers []*Supplier) *Allocator {
	return &Allocator{suppliers: suppliers}
}

// Allocate assigns each request to the first supplier (in shuffled order)
// that offers the item. Each supplier produces at most one consolidated
// Order per period, carrying every line it won and a single delivery cost;
// its delivery day is the period plus one sampled lead time. Requests no
// supplier offers come back as unmatched; whether they are dropped or
// carried over is the caller's decision.
func (a *Allocator) Allocate(requests []*Request, period int, shuffleRNG *rand.Rand, leadTimeSrc *xrand.Rand) (orders []*Order, unmatched []*Request) {
	if len(requests) == 0 {
		return nil, nil
	}

	order := make([]*Supplier, len(a.suppliers))
	copy(order, a.suppliers)
	shuffleRNG.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	open := make([]*Request, len(requests))
	copy(open, requests)

	for _, supplier := range order {
		var lines []OrderLine
		remaining := open[:0:0]
		for _, req := range open {
			price, err := supplier.FindPrice(req.SKU.Name, req.Quantity)
			if err != nil {
				// ErrNotOffered and friends: this supplier is simply not
				// eligible for the item.
				remaining = append(remaining, req)
				continue
			}
			lines = append(lines, OrderLine{SKU: req.SKU.Name, Quantity: req.Quantity, Price: price})
		}
		open = remaining

		if len(lines) == 0 {
			continue
		}

		leadTime := supplier.SampleLeadTime(leadTimeSrc)
		o := &Order{
			ID:           a.nextOrderID,
			Supplier:     supplier.Name,
			Lines:        lines,
			DeliveryCost: supplier.DeliveryCost,
			PlacedPeriod: period,
			DeliveryDay:  period + leadTime,
		}
		a.nextOrderID++
		orders = append(orders, o)
		logrus.Debugf("period %d: %s wins %d line(s), delivery day %d", period, supplier.Name, len(lines), o.DeliveryDay)
	}

	return orders, open
}
