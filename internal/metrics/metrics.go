package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	RequestsHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "connecthub",
			Name:      "api_requests",
			Help:      "Time taken to process API requests",
			Buckets:   []float64{.005, .01, .025, .05, .075, .1, .15, .2, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"route", "method", "code"},
	)

	TransitionsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "connecthub",
			Name:      "proposal_transitions_total",
			Help:      "Number of proposal lifecycle transitions",
		}, []string{"action", "error"},
	)

	EscrowAmountCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "connecthub",
			Name:      "escrow_amount_total",
			Help:      "Sum of escrow amounts moved by operation",
		}, []string{"operation"},
	)
)

func CollectRequestsMetric(route, method string, code int, start time.Time) {
	RequestsHistogram.
		WithLabelValues(route, method, codeLabelValue(code)).
		Observe(time.Since(start).Seconds())
}

func CollectTransition(action string, err error) {
	TransitionsCounter.
		WithLabelValues(action, errLabelValue(err)).
		Inc()
}

func CollectEscrowAmount(operation string, amount decimal.Decimal) {
	EscrowAmountCounter.
		WithLabelValues(operation).
		Add(amount.InexactFloat64())
}

// errLabelValue returns string representation of error label value
func errLabelValue(err error) string {
	if err != nil {
		return "true"
	}
	return "false"
}

func codeLabelValue(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
