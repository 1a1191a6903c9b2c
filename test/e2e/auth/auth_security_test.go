package auth_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/aussiebroadwan/tenantauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestRegistrationAPIRequiresBearer verifies the clients API rejects missing
// and invalid bearer tokens.
func TestRegistrationAPIRequiresBearer(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	for name, auth := range map[string]string{
		"Missing": "",
		"Invalid": "Bearer invalid-token-12345",
	} {
		t.Run(name, func(t *testing.T) {
			req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, baseURL+"/api/clients", nil)
			require.NoError(t, err)
			if auth != "" {
				req.Header.Set("Authorization", auth)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")
		})
	}
}

// TestTokenResponseHeaders verifies token responses are never cached and carry
// the security headers.
func TestTokenResponseHeaders(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {adminClientID},
		"client_secret": {adminClientSecret},
	}
	resp, err := http.Post(baseURL+"/oauth2/token", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

// TestMultipleAuthMethodsRejected verifies credentials may not be sent both in
// the Authorization header and the form body.
func TestMultipleAuthMethodsRejected(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_secret": {adminClientSecret},
	}
	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, baseURL+"/oauth2/token", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(adminClientID, adminClientSecret)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body authsdk.ErrorResponse
	require.NoError(t, decodeBody(resp, &body))
	require.Equal(t, authsdk.ErrorCodeInvalidRequest, body.Error)
}
