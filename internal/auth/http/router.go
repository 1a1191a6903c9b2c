package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tenantauth/internal/auth/metrics"
	"github.com/aussiebroadwan/tenantauth/internal/auth/service"
	"github.com/aussiebroadwan/tenantauth/internal/auth/store"
	"github.com/aussiebroadwan/tenantauth/pkg/httpx"
	"github.com/aussiebroadwan/tenantauth/pkg/jwtx"
	"github.com/aussiebroadwan/tenantauth/pkg/slogx"

	_ "github.com/aussiebroadwan/tenantauth/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	codec        *jwtx.Codec
	issuer       string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	TokenService         *service.TokenService
	IntrospectionService *service.IntrospectionService
	ClientService        *service.ClientService

	// Metrics is optional; without it /metrics is not registered.
	Metrics *metrics.Metrics

	// ScopesSupported is advertised in the discovery document.
	ScopesSupported []string

	// Tracing wraps every request in an otelhttp span.
	Tracing bool
}

func NewRouter(
	codec *jwtx.Codec,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		issuer:       codec.Issuer(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}
}

// ApplyRoutes registers every endpoint and freezes the middleware chain.
// Exported service fields must be set before calling it.
func (r *Router) ApplyRoutes() {
	r.registerOAuth2()
	r.registerWellKnown()
	r.registerClients()
	r.registerSystem()

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())

	r.middlewares = []httpx.Middleware{
		httpx.Tracing(r.Tracing),
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
		httpx.SecurityHeaders(),
	}
	r.handler = httpx.Chain(r.Mux, r.middlewares...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Tenant Auth Service API
//	@version		1.0.0
//	@description	OAuth2 client_credentials token service for multi-tenant machine clients.
//	@description
//	@description				Tokens are HS256-signed JWTs and are validated through the introspection endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/tenantauth
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.handler == nil {
		http.Error(w, "routes not applied", http.StatusServiceUnavailable)
		return
	}
	r.handler.ServeHTTP(w, req)
}

func (r *Router) registerOAuth2() {
	// POST /token - strict limit by IP + presented client id (credential checks)
	tokenHandler := &TokenHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST "+tokenPath,
		httpx.Chain(tokenHandler,
			httpx.RateLimitByIPAndClient(httpx.StrictLimit),
		),
	)

	// POST /introspect - resource servers call this on every request
	introspectHandler := &IntrospectHandler{IntrospectionService: r.IntrospectionService}
	r.Mux.Handle("POST "+introspectPath,
		httpx.Chain(introspectHandler,
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerWellKnown() {
	r.Mux.Handle("GET "+metadataPath,
		httpx.Chain(MetadataHandler(r.issuer, r.ScopesSupported),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET "+jwksPath,
		httpx.Chain(JWKSHandler(r.codec),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerClients() {
	h := &ClientsHandler{ClientService: r.ClientService}

	read := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.RateLimitByIP(httpx.ModerateLimit),
			httpx.AuthnMiddleware(r.codec),
			httpx.RequireAnyScope(service.ScopeClientsRead),
			httpx.RateLimitByCaller(httpx.ModerateLimit),
		)
	}
	write := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.RateLimitByIP(httpx.ModerateLimit),
			httpx.AuthnMiddleware(r.codec),
			httpx.RequireAnyScope(service.ScopeClientsWrite),
			httpx.RateLimitByCaller(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /api/clients", write(h.HandleRegister))
	r.Mux.Handle("GET /api/clients", read(h.HandleList))
	r.Mux.Handle("GET /api/clients/{clientId}", read(h.HandleGet))
	r.Mux.Handle("PUT /api/clients/{clientId}", write(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/clients/{clientId}", write(h.HandleDeactivate))
}

func (r *Router) registerSystem() {
	// Monitoring systems poll these, so they share the public profile.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.codec),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /api/health",
		httpx.Chain(HealthHandler(r.buildVersion, r.ClientService),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /api/info",
		httpx.Chain(InfoHandler(r.buildVersion, r.issuer),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	if r.Metrics != nil {
		r.Mux.Handle("GET /metrics", r.Metrics.Handler())
	}
}
