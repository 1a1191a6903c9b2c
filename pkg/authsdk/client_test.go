package authsdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/tenantauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, grants *atomic.Int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())

		id, secret, ok := r.BasicAuth()
		if !ok {
			id, secret = r.PostForm.Get("client_id"), r.PostForm.Get("client_secret")
		}
		if id != "acme-1" || secret != "s3cr3t" {
			authsdk.ErrInvalidClient.WriteError(w)
			return
		}

		grants.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(authsdk.TokenResponse{
			AccessToken: "tok",
			TokenType:   "Bearer",
			// Inside the renewal buffer so every call renews.
			ExpiresIn: 10,
			Scope:     "clients:read,clients:write",
			TenantID:  "acme",
		})
	})
	mux.HandleFunc("POST /oauth2/introspect", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		_ = json.NewEncoder(w).Encode(authsdk.IntrospectionResponse{Active: r.PostForm.Get("token") == "tok"})
	})
	mux.HandleFunc("GET /api/clients/{clientId}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			authsdk.ErrInvalidToken.WriteError(w)
			return
		}
		if r.PathValue("clientId") != "acme-1" {
			authsdk.ErrClientNotFound.WriteError(w)
			return
		}
		_ = json.NewEncoder(w).Encode(authsdk.ClientInfo{ClientID: "acme-1", ClientSecret: "***"})
	})
	mux.HandleFunc("DELETE /api/clients/{clientId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/clients", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			authsdk.ErrInvalidRequest.WriteError(w)
			return
		}
		var req authsdk.RegisterClientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			authsdk.ErrInvalidRequest.WriteError(w)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(authsdk.ClientInfo{ClientID: "new-1", TenantID: req.TenantID, ClientSecret: "plain"})
	})
	mux.HandleFunc("GET /api/clients", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(authsdk.ListClientsResponse{
			Clients: []authsdk.ClientInfo{{ClientID: r.URL.Query().Get("tenant_id") + "-" + r.URL.Query().Get("status")}},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientCredentialsGrant(t *testing.T) {
	var grants atomic.Int32
	srv := newTestServer(t, &grants)
	ctx := context.Background()

	for _, basic := range []bool{false, true} {
		c := authsdk.NewSDKClient(srv.URL + "/")
		c.UseBasicAuth = basic

		tok, err := c.ClientCredentialsGrant(ctx, "acme-1", "s3cr3t", []string{"clients:read"})
		require.NoError(t, err)
		require.Equal(t, "tok", tok.AccessToken)
		require.Equal(t, "acme", tok.TenantID)

		_, err = c.ClientCredentialsGrant(ctx, "acme-1", "wrong", nil)
		require.ErrorIs(t, err, authsdk.ErrInvalidClient)

		var oerr *authsdk.OAuth2Error
		require.True(t, errors.As(err, &oerr))
		require.Equal(t, http.StatusUnauthorized, oerr.StatusCode)
	}
}

func TestIntrospect(t *testing.T) {
	var grants atomic.Int32
	c := authsdk.NewSDKClient(newTestServer(t, &grants).URL)

	res, err := c.Introspect(context.Background(), "tok")
	require.NoError(t, err)
	require.True(t, res.Active)

	res, err = c.Introspect(context.Background(), "garbage")
	require.NoError(t, err)
	require.False(t, res.Active)
}

func TestSessionRenewsAndChecksScopes(t *testing.T) {
	var grants atomic.Int32
	c := authsdk.NewSDKClient(newTestServer(t, &grants).URL)
	ctx := context.Background()

	s, err := c.AuthenticateWithClientCredentials(ctx, "acme-1", "s3cr3t", nil)
	require.NoError(t, err)
	require.Equal(t, "acme", s.TenantID())
	require.True(t, s.HasScope("clients:write"))
	require.ElementsMatch(t, []string{"clients:read", "clients:write"}, s.Scopes())

	info, err := s.GetClient(ctx, "acme-1")
	require.NoError(t, err)
	require.Equal(t, "***", info.ClientSecret)

	_, err = s.GetClient(ctx, "missing")
	require.ErrorIs(t, err, authsdk.ErrClientNotFound)

	require.NoError(t, s.DeactivateClient(ctx, "acme-1"))

	// One initial grant plus one renewal per call.
	require.Equal(t, int32(4), grants.Load())
}

func TestSessionScopeCheck(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth2/token", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(authsdk.TokenResponse{AccessToken: "tok", ExpiresIn: 3600, Scope: ""})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := authsdk.NewSDKClient(srv.URL)
	s, err := c.AuthenticateWithClientCredentials(context.Background(), "id", "secret", nil)
	require.NoError(t, err)

	_, err = s.ListClients(context.Background(), authsdk.ListClientsFilter{})
	require.ErrorContains(t, err, "missing required scope")
}

func TestSessionRegistrationCalls(t *testing.T) {
	var grants atomic.Int32
	c := authsdk.NewSDKClient(newTestServer(t, &grants).URL)
	ctx := context.Background()

	s, err := c.AuthenticateWithClientCredentials(ctx, "acme-1", "s3cr3t", nil)
	require.NoError(t, err)

	created, err := s.RegisterClient(ctx, authsdk.RegisterClientRequest{TenantID: "acme"})
	require.NoError(t, err)
	require.Equal(t, "new-1", created.ClientID)
	require.Equal(t, "acme", created.TenantID)
	require.Equal(t, "plain", created.ClientSecret)

	list, err := s.ListClients(ctx, authsdk.ListClientsFilter{TenantID: "acme", Status: "ACTIVE"})
	require.NoError(t, err)
	require.Len(t, list.Clients, 1)
	require.Equal(t, "acme-ACTIVE", list.Clients[0].ClientID)
}

func TestTransportErrorNamesCall(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := authsdk.NewSDKClient(srv.URL)
	_, err := c.Introspect(context.Background(), "tok")
	require.ErrorContains(t, err, "POST /oauth2/introspect")
}
