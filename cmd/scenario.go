package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/replenish-sim/replenish-sim/sim"
	"github.com/replenish-sim/replenish-sim/sim/demand"
)

// ScenarioSpec is the YAML schema for one simulation scenario.
type ScenarioSpec struct {
	TimePeriods       int            `yaml:"time_periods"`
	CarryOverRequests bool           `yaml:"carry_over_requests,omitempty"`
	Costs             CostSpec       `yaml:"costs"`
	Warehouse         *WarehouseSpec `yaml:"warehouse,omitempty"`
	SKUs              []SKUSpec      `yaml:"skus"`
	Suppliers         []SupplierSpec `yaml:"suppliers"`
}

// CostSpec configures the cost accounting coefficients.
type CostSpec struct {
	HoldingRate   float64 `yaml:"holding_rate"`
	StockoutCoeff float64 `yaml:"stockout_coefficient"`
}

// WarehouseSpec configures the shared warehouse whose capacity is randomly
// partitioned across SKUs without an explicit allocation.
type WarehouseSpec struct {
	MaxCapacity int `yaml:"max_capacity"`
}

// SKUSpec configures one SKU, its bound policy and its demand source.
type SKUSpec struct {
	Name          string      `yaml:"name"`
	InitialOnHand int         `yaml:"initial_on_hand"`
	PerItemCost   float64     `yaml:"per_item_cost"`
	Capacity      int         `yaml:"capacity,omitempty"` // 0 = take a warehouse share, or unbounded
	Policy        PolicySpec  `yaml:"policy"`
	Sizing        *SizingSpec `yaml:"sizing,omitempty"`
	Demand        DemandSpec  `yaml:"demand"`
}

// PolicySpec selects a policy kind and its parameters. Only the fields of the
// chosen kind are read.
type PolicySpec struct {
	Kind string `yaml:"kind"`

	Min int `yaml:"min,omitempty"`
	Max int `yaml:"max,omitempty"`

	QToOrder     int `yaml:"q_to_order,omitempty"`
	ReorderPoint int `yaml:"reorder_point,omitempty"`

	ReviewInterval int `yaml:"review_interval,omitempty"`
	OrderUpTo      int `yaml:"order_up_to,omitempty"`
}

// SizingSpec statistically sizes a qr policy's reorder point from demand and
// lead-time variability when no explicit reorder_point is given.
type SizingSpec struct {
	ServiceLevel float64 `yaml:"service_level,omitempty"` // default 0.999
	LeadTimeMean float64 `yaml:"lead_time_mean"`
	LeadTimeSD   float64 `yaml:"lead_time_sd"`
}

// DemandSpec either carries an explicit per-period series or parameterizes a
// generator from sim/demand.
type DemandSpec struct {
	Series []int `yaml:"series,omitempty"`

	Type       string  `yaml:"type,omitempty"`
	Mean       float64 `yaml:"mean,omitempty"`
	SD         float64 `yaml:"sd,omitempty"`
	Frequency  int     `yaml:"frequency,omitempty"`
	TrendCoeff float64 `yaml:"trend_coefficient,omitempty"`
	FreqCoeff  float64 `yaml:"frequency_coefficient,omitempty"`
}

// SupplierSpec configures one supplier and its catalog.
type SupplierSpec struct {
	Name         string                 `yaml:"name"`
	DeliveryCost float64                `yaml:"delivery_cost"`
	LeadTimeMean int                    `yaml:"lead_time_mean"`
	LeadTimeRisk float64                `yaml:"lead_time_risk"`
	Catalog      map[string]ListingSpec `yaml:"catalog"`
}

// ListingSpec is one catalog entry. The unit price is a decimal string so
// money amounts survive the YAML round trip exactly.
type ListingSpec struct {
	PricePerItem string     `yaml:"price_per_item"`
	Discounts    []TierSpec `yaml:"discounts,omitempty"`
}

// TierSpec is one quantity-discount step.
type TierSpec struct {
	Threshold int   `yaml:"threshold"`
	Percent   int64 `yaml:"percent"`
}

// LoadScenario reads and validates a scenario YAML file. Demand series that
// are not given explicitly are generated from the seed's demand subsystem, so
// the same (file, seed) pair always yields the same scenario.
func LoadScenario(path string, seed int64) (*sim.Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	var spec ScenarioSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return BuildScenario(&spec, seed)
}

// BuildScenario turns a parsed spec into a validated sim.Scenario.
func BuildScenario(spec *ScenarioSpec, seed int64) (*sim.Scenario, error) {
	sc := &sim.Scenario{
		TimePeriods:       spec.TimePeriods,
		CarryOverRequests: spec.CarryOverRequests,
		Costs: sim.CostConfig{
			HoldingRate:   spec.Costs.HoldingRate,
			StockoutCoeff: spec.Costs.StockoutCoeff,
		},
	}

	if spec.Warehouse != nil {
		w, err := sim.NewWarehouse(spec.Warehouse.MaxCapacity)
		if err != nil {
			return nil, err
		}
		sc.Warehouse = w
	}

	demandMatrix, err := buildDemand(spec, seed)
	if err != nil {
		return nil, err
	}
	sc.Demand = demandMatrix

	for i, skuSpec := range spec.SKUs {
		policy, err := buildPolicy(skuSpec, demandSummary(demandMatrix[i]))
		if err != nil {
			return nil, fmt.Errorf("sku %s: %w", skuSpec.Name, err)
		}
		sc.SKUs = append(sc.SKUs, sim.SKUConfig{
			Name:          skuSpec.Name,
			InitialOnHand: skuSpec.InitialOnHand,
			PerItemCost:   skuSpec.PerItemCost,
			Capacity:      skuSpec.Capacity,
			Policy:        policy,
		})
	}

	for _, supSpec := range spec.Suppliers {
		supplier, err := buildSupplier(supSpec)
		if err != nil {
			return nil, err
		}
		sc.Suppliers = append(sc.Suppliers, supplier)
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// buildDemand resolves every SKU's series: explicit series win, the rest are
// generated in SKU order from the shared demand source.
func buildDemand(spec *ScenarioSpec, seed int64) ([][]int, error) {
	matrix := make([][]int, len(spec.SKUs))
	src := sim.NewPartitionedRNG(sim.NewSimulationKey(seed)).SourceFor(sim.SubsystemDemand)

	for i, skuSpec := range spec.SKUs {
		if len(skuSpec.Demand.Series) > 0 {
			matrix[i] = skuSpec.Demand.Series
			continue
		}
		d := skuSpec.Demand
		series, err := demand.Generate([]demand.Spec{{
			Type:       demand.Type(d.Type),
			Mean:       d.Mean,
			SD:         d.SD,
			Frequency:  d.Frequency,
			TrendCoeff: d.TrendCoeff,
			FreqCoeff:  d.FreqCoeff,
		}}, spec.TimePeriods, src)
		if err != nil {
			return nil, fmt.Errorf("sku %s: %w", skuSpec.Name, err)
		}
		matrix[i] = series[0]
	}
	return matrix, nil
}

type demandStats struct {
	mean float64
	sd   float64
}

// demandSummary estimates mean/SD of a realized series, feeding the
// reorder-point sizing when the scenario asks for it.
func demandSummary(series []int) demandStats {
	if len(series) == 0 {
		return demandStats{}
	}
	var sum float64
	for _, d := range series {
		sum += float64(d)
	}
	mean := sum / float64(len(series))
	var ss float64
	for _, d := range series {
		diff := float64(d) - mean
		ss += diff * diff
	}
	variance := ss / float64(len(series))
	return demandStats{mean: mean, sd: math.Sqrt(variance)}
}

func buildPolicy(skuSpec SKUSpec, stats demandStats) (*sim.Policy, error) {
	kind := sim.PolicyKind(skuSpec.Policy.Kind)
	switch kind {
	case sim.PolicyMinMax:
		return sim.NewMinMax(skuSpec.Policy.Min, skuSpec.Policy.Max)
	case sim.PolicyQR:
		rop := skuSpec.Policy.ReorderPoint
		if rop == 0 && skuSpec.Sizing != nil {
			csl := skuSpec.Sizing.ServiceLevel
			if csl == 0 {
				csl = sim.DefaultCSL
			}
			sized, err := sim.ReorderPoint(stats.mean, stats.sd,
				skuSpec.Sizing.LeadTimeMean, skuSpec.Sizing.LeadTimeSD, csl, skuSpec.Capacity)
			if err != nil {
				return nil, err
			}
			rop = sized
		}
		return sim.NewQR(skuSpec.Policy.QToOrder, rop)
	case sim.PolicyPeriodicUpTo:
		return sim.NewPeriodicUpTo(skuSpec.Policy.ReviewInterval, skuSpec.Policy.OrderUpTo)
	default:
		return nil, fmt.Errorf("unknown policy kind %q", skuSpec.Policy.Kind)
	}
}

func buildSupplier(spec SupplierSpec) (*sim.Supplier, error) {
	catalog := make(map[string]sim.Listing, len(spec.Catalog))
	for item, listing := range spec.Catalog {
		price, err := decimal.NewFromString(listing.PricePerItem)
		if err != nil {
			return nil, fmt.Errorf("supplier %s: item %s: bad price %q: %w", spec.Name, item, listing.PricePerItem, err)
		}
		tiers := make([]sim.Tier, len(listing.Discounts))
		for i, t := range listing.Discounts {
			tiers[i] = sim.Tier{Threshold: t.Threshold, DiscountPct: t.Percent}
		}
		catalog[item] = sim.Listing{PricePerItem: price, Tiers: tiers}
	}
	return sim.NewSupplier(spec.Name, catalog,
		decimal.NewFromFloat(spec.DeliveryCost), spec.LeadTimeMean, spec.LeadTimeRisk)
}
