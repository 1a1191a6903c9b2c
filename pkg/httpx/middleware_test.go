package httpx_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/tenantauth/pkg/httpx"
	"github.com/aussiebroadwan/tenantauth/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler(), mark("outer"), mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"outer", "inner"}, order)
}

func TestRecover(t *testing.T) {
	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), httpx.Recover())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "server_error")
}

type stubVerifier struct {
	claims jwtx.Claims
	err    error
}

func (s stubVerifier) Verify(token string) (jwtx.Claims, error) {
	if token != "good" {
		return jwtx.Claims{}, errors.New("bad token")
	}
	return s.claims, s.err
}

func TestAuthnAndScopes(t *testing.T) {
	v := stubVerifier{claims: jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "ops-admin"},
		TenantID:         "acme",
		Scope:            "clients:read",
	}}

	var seen jwtx.Claims
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		auth   string
		scopes []string
		want   int
		header string
	}{
		{name: "missing header", auth: "", scopes: []string{"clients:read"}, want: http.StatusUnauthorized, header: "invalid_token"},
		{name: "wrong scheme", auth: "Basic good", scopes: []string{"clients:read"}, want: http.StatusUnauthorized, header: "invalid_token"},
		{name: "bad token", auth: "Bearer nope", scopes: []string{"clients:read"}, want: http.StatusUnauthorized, header: "invalid_token"},
		{name: "insufficient scope", auth: "Bearer good", scopes: []string{"clients:write"}, want: http.StatusForbidden, header: "insufficient_scope"},
		{name: "any scope matches", auth: "bearer good", scopes: []string{"clients:write", "clients:read"}, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := httpx.Chain(inner, httpx.AuthnMiddleware(v), httpx.RequireAnyScope(tt.scopes...))

			r := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
			if tt.auth != "" {
				r.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)

			require.Equal(t, tt.want, rec.Code)
			if tt.header != "" {
				require.Contains(t, rec.Header().Get("WWW-Authenticate"), tt.header)
			}
		})
	}

	require.Equal(t, "ops-admin", seen.Subject)
	require.Equal(t, "acme", seen.TenantID)
}

func TestIsFormContentType(t *testing.T) {
	for ct, want := range map[string]bool{
		"":                                  true,
		"application/x-www-form-urlencoded": true,
		"application/x-www-form-urlencoded; charset=utf-8": true,
		"application/json": false,
		"text/plain":       false,
	} {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		if ct != "" {
			r.Header.Set("Content-Type", ct)
		}
		require.Equal(t, want, httpx.IsFormContentType(r), ct)
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	decode := func(body string) error {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		return httpx.DecodeJSON(httptest.NewRecorder(), r, &dst)
	}

	require.NoError(t, decode(`{"name":"svc"}`))
	require.Equal(t, "svc", dst.Name)
	require.Error(t, decode(`{"name":"svc","extra":1}`))
	require.Error(t, decode(`{"name":"svc"}{}`))
	require.Error(t, decode(`not json`))
}
