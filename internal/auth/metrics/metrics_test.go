package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantauth/internal/auth/domain"
	"github.com/aussiebroadwan/tenantauth/internal/auth/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.GrantCompleted(metrics.OutcomeIssued, time.Millisecond)
	m.Introspected(true)
	m.SetClients(nil)
	m.RateLimited("strict")
}

func TestCollectors(t *testing.T) {
	m := metrics.New()

	m.GrantCompleted(metrics.OutcomeIssued, 10*time.Millisecond)
	m.GrantCompleted(metrics.OutcomeInvalidClient, time.Millisecond)
	m.GrantCompleted(metrics.OutcomeInvalidClient, time.Millisecond)
	m.Introspected(false)
	m.SetClients(map[domain.ClientStatus]int{domain.ClientStatusActive: 3})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, `auth_token_grants_total{outcome="invalid_client"} 2`)
	require.Contains(t, body, `auth_token_grants_total{outcome="issued"} 1`)
	require.Contains(t, body, `auth_introspections_total{active="false"} 1`)
	require.Contains(t, body, `auth_clients{status="ACTIVE"} 3`)
	require.Contains(t, body, `auth_clients{status="SUSPENDED"} 0`)

	n, err := testutil.GatherAndCount(m.Registry(), "auth_token_grant_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
