// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/replenish-sim/replenish-sim/sim/ledger"
)

// Simulator drives one evaluation of a scenario: a single sequential pass
// over periods and, within a period, over SKUs in configuration order. It
// owns freshly-constructed SKU and pipeline state, so any number of
// Simulators for the same Scenario may run in parallel as long as their
// SimulationKeys differ.
type Simulator struct {
	scenario *Scenario

	skus      []*SKU
	policies  []*Policy
	skuIndex  map[string]int
	pipeline  *Pipeline
	allocator *Allocator
	rng       *PartitionedRNG

	// carry-over mode state
	carried    []*Request
	carriedSKU map[string]bool
}

// NewSimulator validates the scenario and builds fresh per-evaluation state.
// Every configuration-error class is rejected here; a constructed Simulator
// cannot fail mid-run.
func NewSimulator(sc *Scenario, key SimulationKey) (*Simulator, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	s := &Simulator{
		scenario:   sc,
		skuIndex:   make(map[string]int, len(sc.SKUs)),
		pipeline:   NewPipeline(),
		allocator:  NewAllocator(sc.Suppliers),
		rng:        NewPartitionedRNG(key),
		carriedSKU: make(map[string]bool),
	}

	capacities, err := s.partitionWarehouse(sc)
	if err != nil {
		return nil, err
	}

	for i, cfg := range sc.SKUs {
		sku, err := NewSKU(cfg.Name, cfg.InitialOnHand, cfg.PerItemCost, capacities[i])
		if err != nil {
			return nil, err
		}
		s.skus = append(s.skus, sku)
		s.policies = append(s.policies, cfg.Policy.Clone())
		s.skuIndex[cfg.Name] = i
	}

	return s, nil
}

// partitionWarehouse resolves the per-SKU capacities: explicit configuration
// wins, and a scenario warehouse randomly splits its capacity across the SKUs
// that have none.
func (s *Simulator) partitionWarehouse(sc *Scenario) ([]int, error) {
	capacities := make([]int, len(sc.SKUs))
	var unassigned []int
	for i, cfg := range sc.SKUs {
		capacities[i] = cfg.Capacity
		if cfg.Capacity == 0 {
			unassigned = append(unassigned, i)
		}
	}
	if sc.Warehouse == nil || len(unassigned) == 0 {
		return capacities, nil
	}

	shares, err := sc.Warehouse.AllocateSpace(len(unassigned), s.rng.ForSubsystem(SubsystemWarehouse))
	if err != nil {
		return nil, err
	}
	for j, i := range unassigned {
		capacities[i] = shares[j]
	}
	return capacities, nil
}

// Run executes the evaluation and returns the fully-populated result. The
// per-period step order is fixed:
//
//	mature deliveries → consult policies → clamp and collect requests →
//	one allocation pass → deduct demand → charge costs
//
// Demand may push inventory negative; the level is not floored, so the
// stockout magnitude stays measurable. Run never blocks and performs no I/O.
func (s *Simulator) Run() *ledger.Result {
	horizon := s.scenario.TimePeriods
	costs := s.scenario.Costs

	records := make([]ledger.Record, 0, len(s.skus)*horizon)
	var orderLog []ledger.OrderRecord
	fitness := 0.0

	allocRNG := s.rng.ForSubsystem(SubsystemAllocation)
	leadTimeSrc := s.rng.SourceFor(SubsystemLeadTime)

	logrus.Debugf("run: %d SKUs, %d suppliers, horizon %d, key %d",
		len(s.skus), len(s.scenario.Suppliers), horizon, s.rng.Key())

	for t := 0; t < horizon; t++ {
		// (1) Mature deliveries into on-hand stock, before demand is deducted.
		delivered := make(map[string]int)
		for _, o := range s.pipeline.Mature(t) {
			for _, line := range o.Lines {
				sku := s.skus[s.skuIndex[line.SKU]]
				sku.OnHand += line.Quantity
				sku.OnOrder -= line.Quantity
				delivered[line.SKU] += line.Quantity
			}
			logrus.Debugf("period %d: order %d from %s matured", t, o.ID, o.Supplier)
		}

		// (2)–(3) Consult policies and collect clamped replenishment requests.
		var requests []*Request
		if len(s.carried) > 0 {
			requests = append(requests, s.carried...)
		}
		for i, sku := range s.skus {
			if s.carriedSKU[sku.Name] {
				// A carried request is still open for this SKU; asking the
				// policy again would double-request.
				continue
			}
			pol := s.policies[i]
			if !pol.NeedsOrder(sku.OnHand, sku.OnOrder, t) {
				continue
			}
			q := pol.OrderQuantity(sku.OnHand, sku.OnOrder)
			if rem := sku.RemainingAllocation(); q > rem {
				q = rem
			}
			if q <= 0 {
				continue
			}
			requests = append(requests, &Request{SKU: sku, Quantity: q})
		}

		// (4) One allocation pass per period across all pending requests.
		orders, unmatched := s.allocator.Allocate(requests, t, allocRNG, leadTimeSrc)
		placed := make([]int, len(s.skus))
		for _, o := range orders {
			s.pipeline.Place(o)
			deliveryCost := o.DeliveryCost.InexactFloat64()
			for _, line := range o.Lines {
				i := s.skuIndex[line.SKU]
				s.skus[i].OnOrder += line.Quantity
				placed[i] += line.Quantity
				orderLog = append(orderLog, ledger.OrderRecord{
					Period:       t,
					OrderID:      o.ID,
					Supplier:     o.Supplier,
					SKU:          line.SKU,
					Quantity:     line.Quantity,
					Price:        line.Price.InexactFloat64(),
					DeliveryCost: deliveryCost,
					DeliveryDay:  o.DeliveryDay,
				})
			}
		}

		s.carried = s.carried[:0]
		for k := range s.carriedSKU {
			delete(s.carriedSKU, k)
		}
		if s.scenario.CarryOverRequests {
			s.carried = unmatched
			for _, req := range unmatched {
				s.carriedSKU[req.SKU.Name] = true
			}
		}

		// (5)–(6) Deduct realized demand, then charge costs on the
		// end-of-period level.
		for i, sku := range s.skus {
			demand := s.scenario.Demand[i][t]
			sku.OnHand -= demand
			inv := sku.OnHand

			var holding, stockout float64
			if inv > 0 {
				holding = float64(inv) * sku.PerItemCost * costs.HoldingRate
			} else if inv < 0 {
				stockout = float64(-inv) * sku.PerItemCost * costs.StockoutCoeff
			}
			orderCost := float64(placed[i]) * sku.PerItemCost
			total := holding + stockout + orderCost
			fitness += total

			records = append(records, ledger.Record{
				SKU:          sku.Name,
				Period:       t,
				Demand:       demand,
				Inventory:    inv,
				Delivered:    delivered[sku.Name],
				OrderedQty:   placed[i],
				HoldingCost:  holding,
				StockoutCost: stockout,
				OrderCost:    orderCost,
				TotalCost:    total,
			})
		}
	}

	logrus.Debugf("run complete: fitness %.2f, %d orders still in flight", fitness, s.pipeline.PendingOrders())

	return &ledger.Result{Records: records, Orders: orderLog, Fitness: fitness}
}

// Evaluate scores one policy assignment against a scenario. When policies is
// non-nil it must hold one policy per SKU and overrides the scenario's bound
// policies; the scenario itself is never mutated, so concurrent Evaluate
// calls with distinct keys are safe.
func Evaluate(sc *Scenario, policies []*Policy, key SimulationKey) (*ledger.Result, error) {
	run := *sc
	if policies != nil {
		if len(policies) != len(sc.SKUs) {
			return nil, fmt.Errorf("evaluate: %d policies for %d SKUs", len(policies), len(sc.SKUs))
		}
		skus := make([]SKUConfig, len(sc.SKUs))
		copy(skus, sc.SKUs)
		for i := range skus {
			skus[i].Policy = policies[i]
		}
		run.SKUs = skus
	}
	s, err := NewSimulator(&run, key)
	if err != nil {
		return nil, err
	}
	return s.Run(), nil
}
