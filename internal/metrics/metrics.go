package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artics_client",
			Name:      "reservation_created_total",
			Help:      "Count of create-reservation attempts by outcome.",
		},
		[]string{"outcome"},
	)

	reservationCancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artics_client",
			Name:      "reservation_cancelled_total",
			Help:      "Count of cancel-reservation attempts by outcome.",
		},
		[]string{"outcome"},
	)

	guardDecision = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artics_client",
			Name:      "guard_decision_total",
			Help:      "Count of navigation guard decisions by action.",
		},
		[]string{"action"},
	)

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artics_client",
			Name:      "api_requests_total",
			Help:      "Count of API requests by method and status class.",
		},
		[]string{"method", "status"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(reservationCreated, reservationCancelled, guardDecision, apiRequests)
	})
}

func IncReservationCreated(outcome string) {
	reservationCreated.WithLabelValues(outcome).Inc()
}

func IncReservationCancelled(outcome string) {
	reservationCancelled.WithLabelValues(outcome).Inc()
}

func IncGuardDecision(action string) {
	guardDecision.WithLabelValues(action).Inc()
}

func IncAPIRequest(method, status string) {
	apiRequests.WithLabelValues(method, status).Inc()
}
