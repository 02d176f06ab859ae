package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrNotOffered reports that a supplier does not carry an item. This is an
// expected allocation outcome, never a failure: callers treat it as zero
// eligibility and move on to the next supplier.
var ErrNotOffered = errors.New("item not offered by supplier")

// Tier is one quantity-discount step: orders of at least Threshold units get
// DiscountPct percent off the base price.
type Tier struct {
	Threshold   int
	DiscountPct int64
}

// Listing is a supplier's offer for one item: a unit price and an ordered
// discount schedule with strictly increasing thresholds and non-decreasing
// discounts.
type Listing struct {
	PricePerItem decimal.Decimal
	Tiers        []Tier
}

// Supplier models one source of replenishment: a catalog of priced items and
// a stochastic lead time. Suppliers are read-only during a run; their only
// interaction with randomness is through the lead-time source passed in by
// the evaluation.
type Supplier struct {
	Name         string
	Catalog      map[string]Listing
	DeliveryCost decimal.Decimal // fixed cost per consolidated order
	LeadTimeMean int             // half-normal location
	LeadTimeRisk float64         // half-normal scale (lead-time SD)
}

// NewSupplier validates the catalog and lead-time parameters up front so that
// tier-table defects surface at setup, not mid-evaluation.
func NewSupplier(name string, catalog map[string]Listing, deliveryCost decimal.Decimal, leadTimeMean int, leadTimeRisk float64) (*Supplier, error) {
	if name == "" {
		return nil, fmt.Errorf("supplier: name must not be empty")
	}
	if leadTimeMean < 0 {
		return nil, fmt.Errorf("supplier %s: lead time mean must be non-negative, got %d", name, leadTimeMean)
	}
	if leadTimeRisk < 0 {
		return nil, fmt.Errorf("supplier %s: lead time risk must be non-negative, got %v", name, leadTimeRisk)
	}
	if deliveryCost.IsNegative() {
		return nil, fmt.Errorf("supplier %s: delivery cost must be non-negative, got %s", name, deliveryCost)
	}
	for item, listing := range catalog {
		if listing.PricePerItem.IsNegative() {
			return nil, fmt.Errorf("supplier %s: item %s has negative unit price %s", name, item, listing.PricePerItem)
		}
		if err := validateTiers(listing.Tiers); err != nil {
			return nil, fmt.Errorf("supplier %s: item %s: %w", name, item, err)
		}
	}
	return &Supplier{
		Name:         name,
		Catalog:      catalog,
		DeliveryCost: deliveryCost,
		LeadTimeMean: leadTimeMean,
		LeadTimeRisk: leadTimeRisk,
	}, nil
}

func validateTiers(tiers []Tier) error {
	prevThreshold := math.MinInt
	var prevDiscount int64 = -1
	for _, tier := range tiers {
		if tier.Threshold <= 0 {
			return fmt.Errorf("discount threshold must be positive, got %d", tier.Threshold)
		}
		if tier.Threshold <= prevThreshold {
			return fmt.Errorf("discount thresholds must be strictly increasing, got %d after %d", tier.Threshold, prevThreshold)
		}
		if tier.DiscountPct < 0 || tier.DiscountPct > 100 {
			return fmt.Errorf("discount percent must be in [0, 100], got %d", tier.DiscountPct)
		}
		if tier.DiscountPct < prevDiscount {
			return fmt.Errorf("discounts must be non-decreasing with threshold, got %d%% after %d%%", tier.DiscountPct, prevDiscount)
		}
		prevThreshold = tier.Threshold
		prevDiscount = tier.DiscountPct
	}
	return nil
}

// Offers reports whether the supplier carries the item.
func (s *Supplier) Offers(item string) bool {
	_, ok := s.Catalog[item]
	return ok
}

// FindPrice returns the total price for quantity units of the item after the
// best applicable discount: the tier with the largest threshold not exceeding
// the quantity. Returns ErrNotOffered when the item is absent from the catalog.
func (s *Supplier) FindPrice(item string, quantity int) (decimal.Decimal, error) {
	listing, ok := s.Catalog[item]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s does not carry %s", ErrNotOffered, s.Name, item)
	}
	if quantity < 0 {
		return decimal.Zero, fmt.Errorf("supplier %s: quantity must be non-negative, got %d", s.Name, quantity)
	}

	basePrice := listing.PricePerItem.Mul(decimal.NewFromInt(int64(quantity)))

	// Tiers are validated ascending, so the last threshold <= quantity wins.
	var discount int64
	for _, tier := range listing.Tiers {
		if quantity < tier.Threshold {
			break
		}
		discount = tier.DiscountPct
	}

	price := basePrice.Mul(decimal.NewFromInt(100 - discount)).Div(decimal.NewFromInt(100))
	return price, nil
}

// SampleLeadTime draws a delivery delay from a half-normal distribution
// located at the supplier's base lead time and scaled by its risk, truncated
// to a non-negative integer. Zero risk degenerates to the fixed base value.
func (s *Supplier) SampleLeadTime(src *xrand.Rand) int {
	if s.LeadTimeRisk == 0 {
		return s.LeadTimeMean
	}
	n := distuv.Normal{Mu: 0, Sigma: s.LeadTimeRisk, Src: src}
	lt := float64(s.LeadTimeMean) + math.Abs(n.Rand())
	if lt < 0 {
		return 0
	}
	return int(lt)
}
