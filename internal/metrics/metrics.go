// Package metrics exposes Prometheus metrics for Gateward.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth outcome labels.
const (
	AuthOutcomeSuccess        = "success"
	AuthOutcomeBadCredentials = "bad_credentials"
	AuthOutcomeAccountLocked  = "account_locked"
)

// Metrics holds the Prometheus collectors for the access-control core.
// A nil *Metrics is valid and records nothing, so tests and callers
// that do not care about observability can pass nil.
type Metrics struct {
	registry *prometheus.Registry

	refreshTotal *prometheus.CounterVec
	lookupTotal  *prometheus.CounterVec
	authTotal    *prometheus.CounterVec
	snapshotSize prometheus.Gauge
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: registry,
		refreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateward_directory_refresh_total",
			Help: "Tenant directory refreshes by result.",
		}, []string{"result"}),
		lookupTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateward_tenant_lookup_total",
			Help: "Tenant name cache lookups by result.",
		}, []string{"result"}),
		authTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateward_authentication_total",
			Help: "Authentication attempts by outcome.",
		}, []string{"outcome"}),
		snapshotSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gateward_tenant_snapshot_organizations",
			Help: "Organizations in the current tenant cache snapshot.",
		}),
	}

	registry.MustRegister(m.refreshTotal, m.lookupTotal, m.authTotal, m.snapshotSize)
	return m
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRefresh records a directory refresh result and, on success,
// the size of the installed snapshot.
func (m *Metrics) ObserveRefresh(ok bool, size int) {
	if m == nil {
		return
	}
	if ok {
		m.refreshTotal.WithLabelValues("success").Inc()
		m.snapshotSize.Set(float64(size))
		return
	}
	m.refreshTotal.WithLabelValues("failure").Inc()
}

// ObserveLookup records a tenant cache lookup result.
func (m *Metrics) ObserveLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.lookupTotal.WithLabelValues("hit").Inc()
		return
	}
	m.lookupTotal.WithLabelValues("miss").Inc()
}

// ObserveAuth records an authentication attempt outcome.
func (m *Metrics) ObserveAuth(outcome string) {
	if m == nil {
		return
	}
	m.authTotal.WithLabelValues(outcome).Inc()
}
