package sim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validScenario() *Scenario {
	policy, _ := NewMinMax(50, 300)
	return &Scenario{
		SKUs: []SKUConfig{
			{Name: "SKU0", InitialOnHand: 100, PerItemCost: 100, Policy: policy},
		},
		Suppliers:   []*Supplier{fixedSupplier("Sup1", []string{"SKU0"}, 2)},
		Demand:      [][]int{{10, 10, 10}},
		Costs:       CostConfig{HoldingRate: 0.05, StockoutCoeff: 2},
		TimePeriods: 3,
	}
}

func TestScenarioValidate_Accepts(t *testing.T) {
	assert.NoError(t, validScenario().Validate())
}

func TestScenarioValidate_RejectsEachErrorClass(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantSub string
	}{
		{"zero horizon", func(sc *Scenario) { sc.TimePeriods = 0 }, "time periods"},
		{"no SKUs", func(sc *Scenario) { sc.SKUs = nil }, "at least one SKU"},
		{"negative holding rate", func(sc *Scenario) { sc.Costs.HoldingRate = -0.1 }, "holding rate"},
		{"negative stockout coeff", func(sc *Scenario) { sc.Costs.StockoutCoeff = -1 }, "stockout coefficient"},
		{"unnamed SKU", func(sc *Scenario) { sc.SKUs[0].Name = "" }, "no name"},
		{"negative item cost", func(sc *Scenario) { sc.SKUs[0].PerItemCost = -1 }, "per-item cost"},
		{"negative capacity", func(sc *Scenario) { sc.SKUs[0].Capacity = -1 }, "capacity"},
		{"unbound policy", func(sc *Scenario) { sc.SKUs[0].Policy = nil }, "no policy"},
		{"unknown policy kind", func(sc *Scenario) { sc.SKUs[0].Policy = &Policy{Kind: "eoq"} }, "unknown policy kind"},
		{"bad policy params", func(sc *Scenario) { sc.SKUs[0].Policy = &Policy{Kind: PolicyPeriodicUpTo} }, "review interval"},
		{"demand row mismatch", func(sc *Scenario) { sc.Demand = [][]int{{1, 1, 1}, {1, 1, 1}} }, "demand rows"},
		{"demand horizon mismatch", func(sc *Scenario) { sc.Demand = [][]int{{1, 1}} }, "periods"},
		{"negative demand", func(sc *Scenario) { sc.Demand[0][1] = -3 }, "negative"},
		{"no suppliers", func(sc *Scenario) { sc.Suppliers = nil }, "at least one supplier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := validScenario()
			tt.mutate(sc)
			err := sc.Validate()
			if err == nil {
				t.Fatal("want error, got none")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestScenarioValidate_RejectsDuplicateSKUNames(t *testing.T) {
	sc := validScenario()
	sc.SKUs = append(sc.SKUs, sc.SKUs[0])
	sc.Demand = append(sc.Demand, []int{10, 10, 10})

	err := sc.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewCostConfig(t *testing.T) {
	cfg, err := NewCostConfig(0.05, 2)
	assert.NoError(t, err)
	assert.Equal(t, 0.05, cfg.HoldingRate)

	_, err = NewCostConfig(-0.05, 2)
	assert.Error(t, err)
}
