/*
Package metrics defines the Prometheus collectors exported on /metrics.

Collectors live on a private registry so tests can create independent instances.
*/
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "roomkey"

// Metrics holds the service counters.
type Metrics struct {
	registry *prometheus.Registry

	credentialsIssued *prometheus.CounterVec
	issueFailures     *prometheus.CounterVec
	directoryCalls    *prometheus.CounterVec
}

// New creates and registers all collectors, including the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		credentialsIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credentials_issued_total",
			Help:      "Number of access tokens issued, by admission role.",
		}, []string{"role"}),
		issueFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "issue_failures_total",
			Help:      "Number of rejected issuance requests, by error code.",
		}, []string{"code"}),
		directoryCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directory_requests_total",
			Help:      "Calls to the conferencing backend's room service, by operation and result.",
		}, []string{"op", "result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.credentialsIssued,
		m.issueFailures,
		m.directoryCalls,
	)

	return m
}

// CredentialsIssued adds n issued credentials for role.
func (m *Metrics) CredentialsIssued(role string, n int) {
	m.credentialsIssued.WithLabelValues(role).Add(float64(n))
}

// IssueFailed counts one rejected issuance request.
func (m *Metrics) IssueFailed(code string) {
	m.issueFailures.WithLabelValues(code).Inc()
}

// DirectoryCall counts one directory request; result is "ok", "not_found" or "error".
func (m *Metrics) DirectoryCall(op, result string) {
	m.directoryCalls.WithLabelValues(op, result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry (used by tests).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
