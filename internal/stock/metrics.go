package stock

import "github.com/prometheus/client_golang/prometheus"

const (
	resultConfirmed    = "confirmed"
	resultInsufficient = "insufficient"
	resultNotFound     = "not_found"
	resultError        = "error"
)

type reservationMetrics struct {
	total *prometheus.CounterVec
}

func newReservationMetrics(reg *prometheus.Registry) *reservationMetrics {
	m := &reservationMetrics{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_reservations_total",
				Help: "Reservation attempts by result",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.total)
	return m
}

func (m *reservationMetrics) observe(result string) {
	if m == nil {
		return
	}
	m.total.WithLabelValues(result).Inc()
}
