package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenantauth/pkg/jwtx"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Issuer    string        // Issuer claim and base URL of discovery links (default: http://localhost:{PORT})
	JWTSecret string        // HS256 key, at least 32 bytes. Empty means an ephemeral key
	JWTKeyID  string        // kid header and JWKS placeholder id (default: tenantauth-key-1)
	TokenTTL  time.Duration // Token lifetime for clients without their own (default: 1h)

	DatabaseDriver string        // sqlite or postgres (default: sqlite)
	DatabaseFile   string        // SQLite database file (default: ./auth.db)
	DatabaseURL    string        // Postgres connection URL, required for the postgres driver
	RedisURL       string        // Optional: enables the client lookup cache
	ClientCacheTTL time.Duration // Cache entry lifetime (default: 30s)
	PepperFile     string        // File holding the secret-hashing pepper (default: ./pepper)

	AdminClientID     string // Optional: seeds an admin client with clients:read/write
	AdminClientSecret string
	AdminTenantID     string // default: system

	ScopesSupported []string // Advertised in the discovery document

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Client gauge refresh interval (default: 1m)
	OTLPEndpoint         string        // Optional: enables OTLP/HTTP trace export
	TrustProxyHeaders    bool          // Key rate limits on X-Forwarded-For/X-Real-IP (default: false)
}

// LoadConfig reads the environment, after loading a .env file from the
// working directory when there is one.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		Issuer:               os.Getenv("AUTH_ISSUER"),
		JWTSecret:            os.Getenv("AUTH_JWT_SECRET"),
		JWTKeyID:             getEnvOrDefault("AUTH_JWT_KEY_ID", "tenantauth-key-1"),
		TokenTTL:             getEnvDurationOrDefault("AUTH_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		DatabaseDriver:       strings.ToLower(getEnvOrDefault("AUTH_DATABASE_DRIVER", DriverSQLite)),
		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		DatabaseURL:          os.Getenv("AUTH_DATABASE_URL"),
		RedisURL:             os.Getenv("AUTH_REDIS_URL"),
		ClientCacheTTL:       getEnvDurationOrDefault("AUTH_CLIENT_CACHE_TTL", 30*time.Second),
		PepperFile:           getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		AdminClientID:        os.Getenv("AUTH_ADMIN_CLIENT_ID"),
		AdminClientSecret:    os.Getenv("AUTH_ADMIN_CLIENT_SECRET"),
		AdminTenantID:        getEnvOrDefault("AUTH_ADMIN_TENANT_ID", "system"),
		ScopesSupported:      splitList(os.Getenv("AUTH_SCOPES_SUPPORTED")),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Minute),
		OTLPEndpoint:         getEnvOrDefault("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		TrustProxyHeaders:    getEnvBoolOrDefault("AUTH_TRUST_PROXY_HEADERS", false),
	}

	return cfg
}

// Validate fills derived defaults and rejects unusable settings.
func (c *Config) Validate() error {
	if c.Issuer == "" {
		c.Issuer = fmt.Sprintf("http://localhost:%d", c.Port)
	}

	var errs []error
	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("AUTH_DATABASE_FILE must not be empty"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("AUTH_DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("AUTH_DATABASE_DRIVER %q is not one of sqlite, postgres", c.DatabaseDriver))
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < jwtx.MinKeyLength {
		errs = append(errs, fmt.Errorf("AUTH_JWT_SECRET must be at least %d bytes", jwtx.MinKeyLength))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("AUTH_TOKEN_TTL must be positive"))
	}
	if (c.AdminClientID == "") != (c.AdminClientSecret == "") {
		errs = append(errs, errors.New("AUTH_ADMIN_CLIENT_ID and AUTH_ADMIN_CLIENT_SECRET must be set together"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds, matching token_validity_seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

// splitList parses a comma or space separated list.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
}
