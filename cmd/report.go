package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/replenish-sim/replenish-sim/sim/ledger"
)

// WriteRecordsCSV exports the per-(SKU, period) records to a CSV file.
func WriteRecordsCSV(path string, records []ledger.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("records csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"sku", "period", "demand", "inventory", "delivered",
		"ordered_quantity", "holding_cost", "stockout_cost", "order_cost", "total_cost"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.SKU,
			strconv.Itoa(r.Period),
			strconv.Itoa(r.Demand),
			strconv.Itoa(r.Inventory),
			strconv.Itoa(r.Delivered),
			strconv.Itoa(r.OrderedQty),
			formatCost(r.HoldingCost),
			formatCost(r.StockoutCost),
			formatCost(r.OrderCost),
			formatCost(r.TotalCost),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteOrdersCSV exports the order log to a CSV file.
func WriteOrdersCSV(path string, orders []ledger.OrderRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("orders csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"period", "order_id", "supplier", "sku", "quantity",
		"price", "delivery_cost", "delivery_day"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, o := range orders {
		row := []string{
			strconv.Itoa(o.Period),
			strconv.Itoa(o.OrderID),
			o.Supplier,
			o.SKU,
			strconv.Itoa(o.Quantity),
			formatCost(o.Price),
			formatCost(o.DeliveryCost),
			strconv.Itoa(o.DeliveryDay),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatCost(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// PrintSummary displays the aggregated evaluation result.
func PrintSummary(summary *ledger.Summary) {
	fmt.Println("=== Evaluation Summary ===")
	fmt.Printf("Fitness (total cost) : %.2f\n", summary.Fitness)
	fmt.Printf("Holding cost         : %.2f\n", summary.TotalHolding)
	fmt.Printf("Stockout cost        : %.2f\n", summary.TotalStockout)
	fmt.Printf("Order cost           : %.2f\n", summary.TotalOrder)
	fmt.Printf("Orders placed        : %d\n", summary.OrdersPlaced)

	skus := make([]string, 0, len(summary.CostPerSKU))
	for name := range summary.CostPerSKU {
		skus = append(skus, name)
	}
	sort.Strings(skus)
	for _, name := range skus {
		fmt.Printf("  %-12s cost %.2f, stockout periods %d\n",
			name, summary.CostPerSKU[name], summary.StockoutPeriods[name])
	}
}
