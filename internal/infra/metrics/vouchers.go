package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		voucherValidationsTotal,
		voucherRedemptionsTotal,
	)
}

var (
	voucherValidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voucher_validations_total",
			Help: "Voucher validation attempts by result (valid or failure reason).",
		},
		[]string{"result"},
	)

	voucherRedemptionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "voucher_redemptions_total",
			Help: "Vouchers redeemed at successful payment time.",
		},
	)
)

func IncVoucherValidation(result string) {
	voucherValidationsTotal.WithLabelValues(norm(result)).Inc()
}

func IncVoucherRedemption() {
	voucherRedemptionsTotal.Inc()
}
