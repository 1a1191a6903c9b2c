package auth_test

import (
	"testing"

	"github.com/aussiebroadwan/tenantauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestLivezEndpoint verifies the liveness endpoint.
func TestLivezEndpoint(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)
	require.NotEmpty(t, health.Version)
}

// TestReadyzEndpoint verifies the readiness endpoint reports its checks.
func TestReadyzEndpoint(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Signer)
}

// TestServiceHealthAndInfo verifies /api/health counts the seeded admin client
// and /api/info links the OAuth2 endpoints.
func TestServiceHealthAndInfo(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)

	health, err := client.GetHealth(t.Context())
	require.NoError(t, err)
	require.Equal(t, "UP", health.Status)
	require.Equal(t, "UP", health.Database)
	require.NotNil(t, health.TotalClients)
	require.Equal(t, 1, *health.TotalClients)

	info, err := client.GetInfo(t.Context())
	require.NoError(t, err)
	require.Equal(t, testIssuer, info.Issuer)
	require.Contains(t, info.Endpoints, "token")
	require.Contains(t, info.Endpoints, "introspect")
}
