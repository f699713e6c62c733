package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentsTotal,
		paymentsRevenueTotal,
		invoicesIssuedTotal,
	)
}

var (
	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payment executions by outcome (succeeded/declined/failed).",
		},
		[]string{"outcome"},
	)

	paymentsRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_revenue_total",
			Help: "Total monetary value of successful payments, labeled by currency.",
		},
		[]string{"currency"},
	)

	invoicesIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "invoices_issued_total",
			Help: "Invoices created by successful charges.",
		},
	)
)

func IncPayment(outcome string) {
	paymentsTotal.WithLabelValues(norm(outcome)).Inc()
}

func AddPaymentRevenue(currency string, amount float64) {
	paymentsRevenueTotal.WithLabelValues(norm(currency)).Add(amount)
}

func IncInvoiceIssued() {
	invoicesIssuedTotal.Inc()
}
