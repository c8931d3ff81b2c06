package apiclient

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts client outcomes. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	retries  *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewMetrics registers the client counters on reg, prefixed with the service
// name (for example web_apiclient_requests_total).
func NewMetrics(reg prometheus.Registerer, service string) *Metrics {
	factory := promauto.With(reg)
	prefix := metricPrefix(service)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_apiclient_requests_total",
			Help: "The total number of logical API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		retries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_apiclient_retries_total",
			Help: "The total number of API request retries by method.",
		}, []string{"method"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_apiclient_failures_total",
			Help: "The total number of terminal API request failures by kind.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) observeSuccess(method string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, "success").Inc()
}

func (m *Metrics) observeRetry(method string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(method).Inc()
}

func (m *Metrics) observeFailure(method string, kind Kind) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, "failure").Inc()
	m.failures.WithLabelValues(string(kind)).Inc()
}

func metricPrefix(service string) string {
	service = strings.TrimSpace(strings.ToLower(service))
	if service == "" {
		return "launchpad"
	}
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(service)
}
