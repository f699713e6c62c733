package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		subscriptionTransitionsTotal,
		subscriptionsByStatus,
	)
}

var (
	subscriptionTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_transitions_total",
			Help: "Subscription state transitions by target status.",
		},
		[]string{"to"},
	)

	subscriptionsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "subscriptions_by_status",
			Help: "Current subscription counts per status.",
		},
		[]string{"status"},
	)
)

func IncSubscriptionTransition(to string) {
	subscriptionTransitionsTotal.WithLabelValues(norm(to)).Inc()
}

func SetSubscriptionsByStatus(status string, n int) {
	subscriptionsByStatus.WithLabelValues(norm(status)).Set(float64(n))
}
