package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StockMovements = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stokra",
		Subsystem: "inventory",
		Name:      "stock_movements_total",
		Help:      "Stock movements appended to the ledger, by reason.",
	}, []string{"reason"})

	InsufficientStockRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stokra",
		Subsystem: "inventory",
		Name:      "insufficient_stock_rejections_total",
		Help:      "Sales rejected because available stock did not cover the request.",
	})

	OrderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stokra",
		Subsystem: "orders",
		Name:      "transitions_total",
		Help:      "Order stage transitions, by stage category.",
	}, []string{"category"})

	ReceivablesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stokra",
		Subsystem: "finance",
		Name:      "receivables_created_total",
		Help:      "Receivable titles generated by order transitions.",
	})
)
