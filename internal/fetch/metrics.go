package fetch

import "github.com/prometheus/client_golang/prometheus"

// Metrics are registered eagerly and unconditionally, mirroring the pack's
// own metrics idiom: harmless to register if nothing scrapes them.
// EnableHTTPMetrics only gates whether fetchers observe into them.
var (
	fetchRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aetherscope_fetch_requests_total",
		Help: "Total fetch attempts by engine and outcome",
	}, []string{"engine", "outcome"})

	fetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aetherscope_fetch_duration_seconds",
		Help:    "Fetch latency by engine",
		Buckets: prometheus.DefBuckets,
	}, []string{"engine"})
)

func init() {
	prometheus.MustRegister(fetchRequestsTotal, fetchDuration)
}

func observeFetch(enabled bool, engine, outcome string, seconds float64) {
	if !enabled {
		return
	}
	fetchRequestsTotal.WithLabelValues(engine, outcome).Inc()
	fetchDuration.WithLabelValues(engine).Observe(seconds)
}
