// Package metrics exposes Prometheus collectors for discovery runs and the
// distribution endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds every collector of this package. A dedicated registry
	// keeps tests and embedders independent of the global default.
	Registry = prometheus.NewRegistry()

	ProbeResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blocklist_probes_total",
			Help: "Total DNS probes by outcome",
		},
		[]string{"outcome"},
	)
	Discovered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "blocklist_discovered_total",
			Help: "Total hostnames discovered that were not in the blocklist",
		},
	)
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blocklist_dns_query_duration_seconds",
			Help:    "Duration of individual DNS queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)
	Entries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "blocklist_entries",
			Help: "Number of hostnames in the served blocklist",
		},
	)
	SignatureValid = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "blocklist_signature_valid",
			Help: "1 if the served blocklist matches its detached signature, 0 otherwise",
		},
	)
)

func init() {
	Registry.MustRegister(ProbeResults, Discovered, QueryDuration, Entries, SignatureValid)
}

// Handler serves the package registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// SetSignatureValid records the outcome of the latest verification.
func SetSignatureValid(valid bool) {
	if valid {
		SignatureValid.Set(1)
	} else {
		SignatureValid.Set(0)
	}
}
