package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// SKU tracks the mutable inventory state of one stock-keeping item during an
// evaluation. OnHand may go negative to represent backordered demand; the
// magnitude of the negative level is what the stockout charge is based on.
// An SKU instance is owned by exactly one simulation run.
type SKU struct {
	Name        string
	OnHand      int     // current physical inventory, negative = backorder
	OnOrder     int     // total quantity placed but not yet delivered
	PerItemCost float64 // immutable after construction
	Capacity    int     // warehouse allocation; 0 = unbounded
}

// NewSKU constructs an SKU. PerItemCost must be non-negative and Capacity,
// when set, must be positive.
func NewSKU(name string, onHand int, perItemCost float64, capacity int) (*SKU, error) {
	if name == "" {
		return nil, fmt.Errorf("sku: name must not be empty")
	}
	if perItemCost < 0 {
		return nil, fmt.Errorf("sku %s: per-item cost must be non-negative, got %v", name, perItemCost)
	}
	if capacity < 0 {
		return nil, fmt.Errorf("sku %s: capacity must be non-negative, got %d", name, capacity)
	}
	return &SKU{
		Name:        name,
		OnHand:      onHand,
		PerItemCost: perItemCost,
		Capacity:    capacity,
	}, nil
}

// RemainingAllocation returns how many more units may be ordered before the
// SKU's warehouse allocation is exhausted, counting both on-hand and in-flight
// stock against the allocation. Unbounded SKUs report MaxInt.
func (s *SKU) RemainingAllocation() int {
	if s.Capacity == 0 {
		return math.MaxInt
	}
	rem := s.Capacity - s.OnHand - s.OnOrder
	if rem < 0 {
		return 0
	}
	return rem
}

// Warehouse models the shared storage the SKUs compete for.
type Warehouse struct {
	MaxCapacity int
}

// NewWarehouse constructs a Warehouse with a positive capacity.
func NewWarehouse(maxCapacity int) (*Warehouse, error) {
	if maxCapacity <= 0 {
		return nil, fmt.Errorf("warehouse: max capacity must be positive, got %d", maxCapacity)
	}
	return &Warehouse{MaxCapacity: maxCapacity}, nil
}

// AllocateSpace randomly partitions the warehouse capacity across n SKUs.
// Every SKU receives at least one unit and the final SKU takes the remainder,
// so the allocations always sum to MaxCapacity.
func (w *Warehouse) AllocateSpace(n int, rng *rand.Rand) ([]int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("warehouse: number of SKUs must be positive, got %d", n)
	}
	if w.MaxCapacity < n {
		return nil, fmt.Errorf("warehouse: capacity %d cannot cover %d SKUs", w.MaxCapacity, n)
	}

	allocations := make([]int, 0, n)
	remaining := w.MaxCapacity
	for i := 0; i < n-1; i++ {
		// Leave room for one unit per SKU still to be allocated.
		reserve := n - 1 - i
		q := 1 + rng.Intn(remaining-reserve)
		remaining -= q
		allocations = append(allocations, q)
	}
	allocations = append(allocations, remaining)
	return allocations, nil
}
