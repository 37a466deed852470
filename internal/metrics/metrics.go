// Package metrics exposes Prometheus collectors for the allowlist extractor.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	fetchAttemptsTotal *prometheus.CounterVec
	fetchOutcomesTotal *prometheus.CounterVec
	inflightRequests   prometheus.Gauge
	urlsExtracted      prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		fetchAttemptsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "allowlist_fetch_attempts_total",
				Help: "Total number of HTTP GET attempts, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		fetchOutcomesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "allowlist_fetch_outcomes_total",
				Help: "Terminal fetch outcomes per endpoint, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		inflightRequests = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "allowlist_inflight_requests",
				Help: "Number of HTTP requests currently in flight.",
			},
		)

		urlsExtracted = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "allowlist_urls_extracted",
				Help: "Number of unique URLs extracted by the last run.",
			},
		)
	})
}

// ObserveAttempt records one HTTP GET attempt.
func ObserveAttempt(success bool) {
	Init()
	fetchAttemptsTotal.WithLabelValues(outcomeLabel(success)).Inc()
}

// ObserveOutcome records the terminal outcome for one endpoint.
func ObserveOutcome(success bool) {
	Init()
	fetchOutcomesTotal.WithLabelValues(outcomeLabel(success)).Inc()
}

// IncInFlight marks one request as in flight.
func IncInFlight() {
	Init()
	inflightRequests.Inc()
}

// DecInFlight marks one in-flight request as finished.
func DecInFlight() {
	Init()
	inflightRequests.Dec()
}

// SetURLsExtracted records the size of the extracted URL set.
func SetURLsExtracted(n int) {
	Init()
	urlsExtracted.Set(float64(n))
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}

func outcomeLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
