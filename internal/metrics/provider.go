package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outbound provider Prometheus metrics.
var (
	MetadataRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moviedex",
			Name:      "metadata_requests_total",
			Help:      "Total number of metadata fetch requests",
		},
		[]string{"status"},
	)

	MetadataRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "moviedex",
			Name:      "metadata_request_duration_seconds",
			Help:      "Metadata fetch duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)

	MetadataErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moviedex",
			Name:      "metadata_errors_total",
			Help:      "Total metadata fetch errors",
		},
		[]string{"error_type"}, // "not_found" / "timeout" / "status" / "malformed" / "transport"
	)

	ProbeChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moviedex",
			Name:      "metadata_probe_checks_total",
			Help:      "Metadata provider reachability probe results",
		},
		[]string{"result"}, // "up" / "down"
	)

	SummaryRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moviedex",
			Name:      "summary_requests_total",
			Help:      "Total number of summary generation requests",
		},
		[]string{"model", "status"}, // status: "success" / "empty" / "error"
	)

	SummaryRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "moviedex",
			Name:      "summary_request_duration_seconds",
			Help:      "Summary generation duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model"},
	)
)

var providerMetricsRegistered bool

// RegisterProviderMetrics registers outbound provider metrics. Must be called once from main.
func RegisterProviderMetrics() {
	if providerMetricsRegistered {
		return
	}
	prometheus.MustRegister(MetadataRequestsTotal)
	prometheus.MustRegister(MetadataRequestDuration)
	prometheus.MustRegister(MetadataErrorsTotal)
	prometheus.MustRegister(ProbeChecksTotal)
	prometheus.MustRegister(SummaryRequestsTotal)
	prometheus.MustRegister(SummaryRequestDuration)
	providerMetricsRegistered = true
}
