package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// InventoryMetrics tracks ledger health observed by the low-stock sweep.
type InventoryMetrics struct {
	lowStock prometheus.Gauge
}

// NewInventoryMetrics registers the inventory metrics on the provided registerer.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	lowStock := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inventory_low_stock_records",
		Help: "Inventory records at or below the configured low-stock threshold.",
	})
	reg.MustRegister(lowStock)
	return &InventoryMetrics{lowStock: lowStock}
}

// SetLowStockCount records how many records the latest sweep flagged.
func (m *InventoryMetrics) SetLowStockCount(count int) {
	if m == nil || m.lowStock == nil {
		return
	}
	m.lowStock.Set(float64(count))
}
