package sim

import "fmt"

// CostConfig groups the coefficients of the per-period cost accounting.
type CostConfig struct {
	HoldingRate   float64 // per-period holding charge as a fraction of item value
	StockoutCoeff float64 // multiplier on the value of backordered stock
}

// NewCostConfig constructs a CostConfig; both coefficients must be non-negative.
func NewCostConfig(holdingRate, stockoutCoeff float64) (CostConfig, error) {
	cfg := CostConfig{HoldingRate: holdingRate, StockoutCoeff: stockoutCoeff}
	if err := cfg.Validate(); err != nil {
		return CostConfig{}, err
	}
	return cfg, nil
}

// Validate checks the cost coefficients.
func (c CostConfig) Validate() error {
	if c.HoldingRate < 0 {
		return fmt.Errorf("cost config: holding rate must be non-negative, got %v", c.HoldingRate)
	}
	if c.StockoutCoeff < 0 {
		return fmt.Errorf("cost config: stockout coefficient must be non-negative, got %v", c.StockoutCoeff)
	}
	return nil
}

// SKUConfig is the per-SKU input contract: identity, economics, starting
// state, and the 1:1 bound policy. The configuration is immutable; the
// simulator clones what it needs so one Scenario can back many evaluations.
type SKUConfig struct {
	Name          string
	InitialOnHand int
	PerItemCost   float64
	Capacity      int // 0 = unbounded
	Policy        *Policy
}

// Scenario is the full immutable input of one evaluation: SKUs with bound
// policies, the supplier set, the realized demand matrix, cost coefficients
// and the horizon. Validate rejects every configuration-error class up front;
// a validated scenario cannot fail mid-run.
type Scenario struct {
	SKUs      []SKUConfig
	Suppliers []*Supplier
	Demand    [][]int // shape (len(SKUs), TimePeriods), entries >= 0
	Costs     CostConfig
	Warehouse *Warehouse // optional; partitions capacity across SKUs lacking one

	TimePeriods int

	// CarryOverRequests keeps requests no supplier matched and retries them
	// in later periods instead of dropping them. Default false: the reference
	// behavior drops an unmatched request at the end of its period.
	CarryOverRequests bool
}

// Validate fails fast on configuration errors, before any period is simulated.
func (sc *Scenario) Validate() error {
	if sc.TimePeriods <= 0 {
		return fmt.Errorf("scenario: time periods must be positive, got %d", sc.TimePeriods)
	}
	if len(sc.SKUs) == 0 {
		return fmt.Errorf("scenario: at least one SKU is required")
	}
	if err := sc.Costs.Validate(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(sc.SKUs))
	for i, cfg := range sc.SKUs {
		if cfg.Name == "" {
			return fmt.Errorf("scenario: sku %d has no name", i)
		}
		if seen[cfg.Name] {
			return fmt.Errorf("scenario: duplicate sku name %q", cfg.Name)
		}
		seen[cfg.Name] = true
		if cfg.PerItemCost < 0 {
			return fmt.Errorf("scenario: sku %s: per-item cost must be non-negative, got %v", cfg.Name, cfg.PerItemCost)
		}
		if cfg.Capacity < 0 {
			return fmt.Errorf("scenario: sku %s: capacity must be non-negative, got %d", cfg.Name, cfg.Capacity)
		}
		if cfg.Policy == nil {
			return fmt.Errorf("scenario: sku %s has no policy bound", cfg.Name)
		}
		if err := validatePolicyParams(cfg.Policy); err != nil {
			return fmt.Errorf("scenario: sku %s: %w", cfg.Name, err)
		}
	}

	if len(sc.Demand) != len(sc.SKUs) {
		return fmt.Errorf("scenario: demand rows (%d) do not match SKU count (%d)", len(sc.Demand), len(sc.SKUs))
	}
	for i, series := range sc.Demand {
		if len(series) != sc.TimePeriods {
			return fmt.Errorf("scenario: demand series for sku %s has %d periods, want %d", sc.SKUs[i].Name, len(series), sc.TimePeriods)
		}
		for t, d := range series {
			if d < 0 {
				return fmt.Errorf("scenario: demand for sku %s at period %d is negative (%d)", sc.SKUs[i].Name, t, d)
			}
		}
	}

	if len(sc.Suppliers) == 0 {
		return fmt.Errorf("scenario: at least one supplier is required")
	}

	return nil
}

func validatePolicyParams(p *Policy) error {
	switch p.Kind {
	case PolicyMinMax:
		_, err := NewMinMax(p.Min, p.Max)
		return err
	case PolicyQR:
		_, err := NewQR(p.QToOrder, p.ReorderPoint)
		return err
	case PolicyPeriodicUpTo:
		_, err := NewPeriodicUpTo(p.ReviewInterval, p.OrderUpTo)
		return err
	default:
		return fmt.Errorf("unknown policy kind %q", p.Kind)
	}
}
