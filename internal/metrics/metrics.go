package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ProviderRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "anvil",
		Name:      "provider_requests_total",
		Help:      "Calls to the transaction API by endpoint and result.",
	}, []string{"endpoint", "result"})

	ProviderLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "anvil",
		Name:      "provider_request_duration_seconds",
		Help:      "Latency of calls to the transaction API.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	TransactionsBuilt = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "anvil",
		Name:      "transactions_built_total",
		Help:      "Transactions built and verified.",
	})

	TransactionsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "anvil",
		Name:      "transactions_submitted_total",
		Help:      "Transactions accepted by the submit endpoint.",
	})

	VerificationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "anvil",
		Name:      "verification_failures_total",
		Help:      "Build responses whose CBOR did not match the reported fields.",
	})

	PendingTransactions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "anvil",
		Name:      "pending_transactions",
		Help:      "Built transactions waiting for submission.",
	})
)

func init() {
	prometheus.MustRegister(
		ProviderRequests,
		ProviderLatency,
		TransactionsBuilt,
		TransactionsSubmitted,
		VerificationFailures,
		PendingTransactions,
	)
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
