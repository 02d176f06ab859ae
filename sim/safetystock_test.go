package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafetyStock_KnownValue(t *testing.T) {
	// GIVEN demand N(100, 20) and lead time (4, 1) at the default CSL
	// k = Phi^-1(0.999) ~= 3.0902, so
	// SS = floor(3.0902 * sqrt(4*400 + 100*1)) = floor(3.0902 * sqrt(1700)) = 127
	ss, err := SafetyStock(100, 20, 4, 1, DefaultCSL)
	assert.NoError(t, err)
	assert.Equal(t, 127, ss)
}

func TestSafetyStock_MedianServiceLevelIsZero(t *testing.T) {
	// At CSL 0.5 the quantile is exactly zero, so no buffer is needed.
	ss, err := SafetyStock(100, 20, 4, 1, 0.5)
	assert.NoError(t, err)
	assert.Equal(t, 0, ss)
}

func TestSafetyStock_NoVariabilityNoBuffer(t *testing.T) {
	ss, err := SafetyStock(100, 0, 4, 0, DefaultCSL)
	assert.NoError(t, err)
	assert.Equal(t, 0, ss)
}

func TestSafetyStock_RejectsBadServiceLevel(t *testing.T) {
	for _, csl := range []float64{0, 1, -0.5, 1.5} {
		if _, err := SafetyStock(100, 20, 4, 1, csl); err == nil {
			t.Errorf("CSL %v: want error, got none", csl)
		}
	}
}

func TestSafetyStock_RejectsNegativeInputs(t *testing.T) {
	_, err := SafetyStock(-100, 20, 4, 1, DefaultCSL)
	assert.Error(t, err)
}

func TestReorderPoint_LeadTimeDemandPlusBuffer(t *testing.T) {
	// ROP = ltMean*dMean + SS = 4*100 + 127 = 527
	rop, err := ReorderPoint(100, 20, 4, 1, DefaultCSL, 0)
	assert.NoError(t, err)
	assert.Equal(t, 527, rop)
}

func TestReorderPoint_DeterministicInputs(t *testing.T) {
	// With zero variability the reorder point is exactly the lead-time demand.
	rop, err := ReorderPoint(100, 0, 4, 0, DefaultCSL, 0)
	assert.NoError(t, err)
	assert.Equal(t, 400, rop)
}

func TestReorderPoint_CapacityBound(t *testing.T) {
	// GIVEN a capacity below the computed reorder point of 527
	_, err := ReorderPoint(100, 20, 4, 1, DefaultCSL, 500)

	// THEN sizing fails at setup time
	assert.Error(t, err)

	// AND a sufficient capacity passes
	rop, err := ReorderPoint(100, 20, 4, 1, DefaultCSL, 600)
	assert.NoError(t, err)
	assert.Equal(t, 527, rop)
}
