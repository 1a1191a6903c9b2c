package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/tenantauth/internal/auth/domain"
	"github.com/aussiebroadwan/tenantauth/internal/auth/service"
	"github.com/aussiebroadwan/tenantauth/internal/auth/store/cache"
	"github.com/aussiebroadwan/tenantauth/pkg/authsdk"
	"github.com/aussiebroadwan/tenantauth/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("AUTH_ISSUER", "https://auth.example.com")
	t.Setenv("AUTH_TOKEN_TTL", "900")
	t.Setenv("AUTH_DATABASE_DRIVER", "Postgres")
	t.Setenv("AUTH_DATABASE_URL", "postgres://u:p@localhost/auth")
	t.Setenv("AUTH_SCOPES_SUPPORTED", "read:a, write:b")
	t.Setenv("HOUSEKEEPING_INTERVAL", "5m")
	t.Setenv("PORT", "not-a-number")
	t.Setenv("AUTH_TRUST_PROXY_HEADERS", "true")

	cfg := LoadConfig()
	require.Equal(t, "https://auth.example.com", cfg.Issuer)
	require.Equal(t, 15*time.Minute, cfg.TokenTTL)
	require.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	require.Equal(t, []string{"read:a", "write:b"}, cfg.ScopesSupported)
	require.Equal(t, 5*time.Minute, cfg.HousekeepingInterval)
	require.Equal(t, 8080, cfg.Port)
	require.True(t, cfg.TrustProxyHeaders)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{
			DatabaseDriver: DriverSQLite,
			DatabaseFile:   "auth.db",
			TokenTTL:       time.Hour,
			Port:           9000,
		}
	}

	cfg := valid()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "http://localhost:9000", cfg.Issuer)

	cases := map[string]func(*Config){
		"unknown driver":       func(c *Config) { c.DatabaseDriver = "mysql" },
		"postgres without url": func(c *Config) { c.DatabaseDriver = DriverPostgres },
		"short secret":         func(c *Config) { c.JWTSecret = "too-short" },
		"zero ttl":             func(c *Config) { c.TokenTTL = 0 },
		"half admin":           func(c *Config) { c.AdminClientID = "admin" },
		"bad port":             func(c *Config) { c.Port = 70000 },
	}
	for name, mutate := range cases {
		cfg := valid()
		mutate(&cfg)
		require.Error(t, cfg.Validate(), name)
	}
}

func TestApplicationServesTokens(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Issuer:               "http://auth.test",
		JWTKeyID:             "k1",
		TokenTTL:             time.Hour,
		DatabaseDriver:       DriverSQLite,
		DatabaseFile:         filepath.Join(dir, "auth.db"),
		PepperFile:           filepath.Join(dir, "pepper"),
		AdminClientID:        "admin",
		AdminClientSecret:    "admin-secret",
		AdminTenantID:        "ops",
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "text",
		Port:                 18080,
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Minute,
	}

	app, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {"admin"},
		"client_secret": {"admin-secret"},
	}
	req := httptest.NewRequest(http.MethodPost, "/oauth2/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tok authsdk.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	require.Equal(t, "ops", tok.TenantID)
	require.Equal(t, "clients:read,clients:write", tok.Scope)

	// A second start against the same database keeps the admin client.
	again, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func storeConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))
	return Config{
		DatabaseDriver: DriverSQLite,
		DatabaseFile:   filepath.Join(dir, "auth.db"),
		ClientCacheTTL: time.Minute,
		LogLevel:       "error",
		LogFormat:      "text",
	}
}

func TestOpenStoreWithRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	cfg := storeConfig(t)
	cfg.RedisURL = "redis://" + mr.Addr()

	st, err := OpenStore(ctx, cfg, NewLogger(cfg))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.IsType(t, &cache.Store{}, st)

	clients := &service.ClientService{Store: st}
	reg, err := clients.Register(ctx, service.RegisterRequest{
		ClientID: "billing",
		Name:     "Billing",
		TenantID: "acme",
		Scopes:   []string{"invoices:read"},
	})
	require.NoError(t, err)

	got, err := st.Clients().LookupByClientID(ctx, reg.Client.ClientID)
	require.NoError(t, err)
	require.Equal(t, domain.ClientStatusActive, got.Status)
	require.True(t, mr.Exists(cache.DefaultKeyPrefix+"billing"))

	require.NoError(t, clients.Deactivate(ctx, "billing"))
	require.False(t, mr.Exists(cache.DefaultKeyPrefix+"billing"))

	got, err = st.Clients().LookupByClientID(ctx, "billing")
	require.NoError(t, err)
	require.Equal(t, domain.ClientStatusDeprecated, got.Status)
}

func TestOpenStoreWithoutRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := storeConfig(t)
	cfg.RedisURL = "redis://" + addr

	st, err := OpenStore(context.Background(), cfg, NewLogger(cfg))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	_, cached := st.(*cache.Store)
	require.False(t, cached, "an unreachable redis disables the cache")
	require.NoError(t, st.Ping(context.Background()))
}
