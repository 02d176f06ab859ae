package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultCSL is the default target cycle service level for reorder-point sizing.
const DefaultCSL = 0.999

// SafetyStock sizes the buffer stock needed to absorb demand and lead-time
// variability at the target cycle service level:
//
//	SS = floor(k * sqrt(ltMean * dSD^2 + dMean * ltSD^2)),  k = Phi^-1(csl)
//
// csl must lie strictly in (0, 1) and the statistical inputs must be
// non-negative.
func SafetyStock(demandMean, demandSD, leadTimeMean, leadTimeSD, csl float64) (int, error) {
	if csl <= 0 || csl >= 1 {
		return 0, fmt.Errorf("safety stock: service level must be in (0, 1), got %v", csl)
	}
	if demandMean < 0 || demandSD < 0 || leadTimeMean < 0 || leadTimeSD < 0 {
		return 0, fmt.Errorf("safety stock: statistical inputs must be non-negative")
	}
	k := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(csl)
	ss := k * math.Sqrt(leadTimeMean*demandSD*demandSD+demandMean*leadTimeSD*leadTimeSD)
	return int(math.Floor(ss)), nil
}

// ReorderPoint computes lead-time demand plus safety stock:
//
//	ROP = ltMean * dMean + SS
//
// capacity > 0 bounds the result: a reorder point above the SKU's warehouse
// allocation is a configuration error, raised here at setup time and never
// inside the period loop.
func ReorderPoint(demandMean, demandSD, leadTimeMean, leadTimeSD, csl float64, capacity int) (int, error) {
	ss, err := SafetyStock(demandMean, demandSD, leadTimeMean, leadTimeSD, csl)
	if err != nil {
		return 0, err
	}
	rop := int(leadTimeMean*demandMean) + ss
	if capacity > 0 && rop > capacity {
		return 0, fmt.Errorf("reorder point %d exceeds the SKU's maximum capacity %d", rop, capacity)
	}
	return rop, nil
}
