// Package metrics holds the prometheus collectors of the auth service. A nil
// *Metrics is valid and records nothing, so services can run without it.
package metrics

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/tenantauth/internal/auth/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "auth"

// Grant outcomes, used as the outcome label of auth_token_grants_total.
const (
	OutcomeIssued           = "issued"
	OutcomeUnsupportedGrant = "unsupported_grant_type"
	OutcomeInvalidClient    = "invalid_client"
	OutcomeServerError      = "server_error"
)

type Metrics struct {
	registry *prometheus.Registry

	grants         *prometheus.CounterVec
	grantDuration  prometheus.Histogram
	introspections *prometheus.CounterVec
	clients        *prometheus.GaugeVec
	rateLimited    *prometheus.CounterVec
}

// New creates the collectors on a private registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		grants: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_grants_total",
			Help:      "Token requests by outcome.",
		}, []string{"outcome"}),
		grantDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "token_grant_duration_seconds",
			Help:      "Time spent handling a token request, including secret verification.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1},
		}),
		introspections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "introspections_total",
			Help:      "Introspection requests by result.",
		}, []string{"active"}),
		clients: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "clients",
			Help:      "Registered clients by status.",
		}, []string{"status"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter, by profile.",
		}, []string{"profile"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.grants,
		m.grantDuration,
		m.introspections,
		m.clients,
		m.rateLimited,
	)
	return m
}

// Registry exposes the registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) GrantCompleted(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.grants.WithLabelValues(outcome).Inc()
	m.grantDuration.Observe(took.Seconds())
}

func (m *Metrics) Introspected(active bool) {
	if m == nil {
		return
	}
	label := "false"
	if active {
		label = "true"
	}
	m.introspections.WithLabelValues(label).Inc()
}

// SetClients replaces the per-status client gauge. Statuses absent from
// counts are reported as zero.
func (m *Metrics) SetClients(counts map[domain.ClientStatus]int) {
	if m == nil {
		return
	}
	for _, st := range domain.ClientStatuses {
		m.clients.WithLabelValues(string(st)).Set(float64(counts[st]))
	}
}

func (m *Metrics) RateLimited(profile string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(profile).Inc()
}
