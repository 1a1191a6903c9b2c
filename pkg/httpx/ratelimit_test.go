package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantauth/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestIPKeyExtractor(t *testing.T) {
	tests := []struct {
		name    string
		trust   bool
		remote  string
		headers map[string]string
		want    string
	}{
		{name: "remote addr", remote: "192.0.2.7:4312", want: "192.0.2.7"},
		{name: "remote addr without port", remote: "192.0.2.7", want: "192.0.2.7"},
		{
			name:    "forwarded for ignored by default",
			remote:  "10.0.0.1:80",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.9"},
			want:    "10.0.0.1",
		},
		{
			name:    "real ip ignored by default",
			remote:  "10.0.0.1:80",
			headers: map[string]string{"X-Real-IP": "198.51.100.3"},
			want:    "10.0.0.1",
		},
		{
			name:    "forwarded for takes first hop",
			trust:   true,
			remote:  "10.0.0.1:80",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.2"},
			want:    "203.0.113.9",
		},
		{
			name:    "real ip",
			trust:   true,
			remote:  "10.0.0.1:80",
			headers: map[string]string{"X-Real-IP": " 198.51.100.3 "},
			want:    "198.51.100.3",
		},
		{name: "trusted without headers", trust: true, remote: "192.0.2.7:4312", want: "192.0.2.7"},
	}

	t.Cleanup(func() { httpx.TrustProxyHeaders = false })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpx.TrustProxyHeaders = tt.trust
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			require.Equal(t, tt.want, httpx.IPKeyExtractor(r))
		})
	}
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	cfg := httpx.RateLimitConfig{Name: "test", RequestsPerWindow: 1, Window: time.Hour, Burst: 1}
	h := httpx.Chain(okHandler(), httpx.RateLimitByIP(cfg))

	do := func(forwarded string) int {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "192.0.2.1:1234"
		r.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, do("203.0.113.1"))
	// A fresh header value must not buy a fresh bucket.
	require.Equal(t, http.StatusTooManyRequests, do("203.0.113.2"))
}

func TestClientIDKeyExtractor(t *testing.T) {
	t.Run("basic auth wins", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("client_id=form-client"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.SetBasicAuth("basic-client", "secret")
		require.Equal(t, "basic-client", httpx.ClientIDKeyExtractor(r))
	})

	t.Run("form field", func(t *testing.T) {
		form := url.Values{"client_id": {"form-client"}}
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		require.Equal(t, "form-client", httpx.ClientIDKeyExtractor(r))
	})

	t.Run("absent", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		require.Empty(t, httpx.ClientIDKeyExtractor(r))
	})
}

func TestCompositeKeyExtractorSkipsEmpty(t *testing.T) {
	extract := httpx.CompositeKeyExtractor(":",
		func(*http.Request) string { return "a" },
		func(*http.Request) string { return "" },
		func(*http.Request) string { return "c" },
	)
	require.Equal(t, "a:c", extract(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := httpx.RateLimitConfig{Name: "test", RequestsPerWindow: 2, Window: time.Hour, Burst: 2}

	var rejected []string
	httpx.RejectHook = func(profile string) { rejected = append(rejected, profile) }
	t.Cleanup(func() { httpx.RejectHook = nil })

	h := httpx.Chain(okHandler(), httpx.RateLimitByIP(cfg))

	do := func(ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	require.Equal(t, http.StatusOK, do("192.0.2.1").Code)
	require.Equal(t, http.StatusOK, do("192.0.2.1").Code)

	rec := do("192.0.2.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "1h0m0s", rec.Header().Get("X-RateLimit-Window"))
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Contains(t, rec.Body.String(), "rate_limit_exceeded")
	require.Equal(t, []string{"test"}, rejected)

	// Other keys have their own bucket.
	require.Equal(t, http.StatusOK, do("192.0.2.2").Code)
}

func TestRateLimitMiddlewareAllowsWithoutKey(t *testing.T) {
	cfg := httpx.RateLimitConfig{Name: "test", RequestsPerWindow: 1, Window: time.Hour, Burst: 1}
	h := httpx.Chain(okHandler(), httpx.RateLimitMiddleware(cfg, func(*http.Request) string { return "" }))

	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitByIPAndClient(t *testing.T) {
	cfg := httpx.RateLimitConfig{Name: "test", RequestsPerWindow: 1, Window: time.Hour, Burst: 1}
	h := httpx.Chain(okHandler(), httpx.RateLimitByIPAndClient(cfg))

	do := func(clientID string) int {
		form := url.Values{"client_id": {clientID}}
		r := httptest.NewRequest(http.MethodPost, "/oauth2/token", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, do("alpha"))
	require.Equal(t, http.StatusTooManyRequests, do("alpha"))
	require.Equal(t, http.StatusOK, do("beta"))
}

func TestParseRateLimitFromEnv(t *testing.T) {
	def := httpx.RateLimitConfig{Name: "custom", RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	t.Setenv("RATELIMIT_CUSTOM_REQUESTS", "50")
	t.Setenv("RATELIMIT_CUSTOM_WINDOW_SEC", "10")
	t.Setenv("RATELIMIT_CUSTOM_BURST", "-1")

	got := httpx.ParseRateLimitFromEnv(def)
	require.Equal(t, 50, got.RequestsPerWindow)
	require.Equal(t, 10*time.Second, got.Window)
	require.Equal(t, 5, got.Burst)
	require.Equal(t, "custom", got.Name)
}
