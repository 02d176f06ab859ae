// Package sim provides the core inventory replenishment and cost accounting engine.
//
// # Reading Guide
//
// Start with these three files to understand the evaluation kernel:
//   - policy.go: the closed set of reorder policies (minmax, qr, periodic_utp)
//   - order.go: the order pipeline that delays placed orders until delivery
//   - simulator.go: the period loop that drives policies, allocation and costing
//
// # Architecture
//
// One evaluation is a single sequential pass over time periods. Within a
// period the step order is fixed: mature deliveries, consult policies, clamp
// and collect replenishment requests, run one allocation pass across all
// suppliers, deduct realized demand, charge costs. The scalar fitness is the
// sum of holding, stockout and order costs over every SKU and period.
//
// Leaf sub-packages:
//   - sim/ledger/: pure-data per-period records and summary aggregation
//   - sim/demand/: demand series generators consumed by the engine
//
// # Determinism
//
// Evaluations never block and perform no I/O. All randomness (lead-time
// sampling, supplier shuffle order) is drawn from a per-evaluation
// PartitionedRNG seeded by a SimulationKey, so the same key and scenario
// reproduce a run exactly and parallel evaluations with distinct keys share
// no mutable state.
package sim
