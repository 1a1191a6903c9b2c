package authsdk

import (
	"github.com/aussiebroadwan/tenantauth/pkg/jwtx"
)

// ErrorResponse is the JSON body of every error: {error, error_description}.
type ErrorResponse struct {
	// Error is the OAuth2 error code (e.g., "invalid_request", "invalid_client")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Token Types
// ============================================================================

// TokenResponse is returned by POST /oauth2/token.
type TokenResponse struct {
	// AccessToken is the HS256-signed JWT.
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token.
	ExpiresIn int `json:"expires_in"`

	// Scope is the comma-joined list of granted scopes. It is "" when the
	// request matched none of the client's allowed scopes.
	Scope string `json:"scope"`

	// TenantID is the tenant the client belongs to.
	TenantID string `json:"tenant_id"`
}

// IntrospectionResponse is the RFC 7662 style body of POST /oauth2/introspect.
// An inactive token carries only Active=false.
type IntrospectionResponse struct {
	Active bool `json:"active"`

	ClientID  string `json:"client_id,omitempty"`
	TenantID  string `json:"tenant_id,omitempty"`
	Scope     string `json:"scope,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	Exp       int64  `json:"exp,omitempty"`
	Iat       int64  `json:"iat,omitempty"`
	Iss       string `json:"iss,omitempty"`
	Sub       string `json:"sub,omitempty"`
}

// ============================================================================
// Discovery Types
// ============================================================================

// ServerMetadata is the RFC 8414 document at /.well-known/oauth-authorization-server.
type ServerMetadata struct {
	Issuer                            string   `json:"issuer"`
	TokenEndpoint                     string   `json:"token_endpoint"`
	IntrospectionEndpoint             string   `json:"introspection_endpoint"`
	JWKSURI                           string   `json:"jwks_uri"`
	GrantTypesSupported               []string `json:"grant_types_supported"`
	ResponseTypesSupported            []string `json:"response_types_supported"`
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported"`
	ScopesSupported                   []string `json:"scopes_supported,omitempty"`
}

// JWKSResponse is the placeholder key set at /.well-known/jwks.json. Tokens are
// HS256-signed, so the single entry describes the key without exposing it.
type JWKSResponse jwtx.JWKS

// ============================================================================
// Client Registration Types
// ============================================================================

// RegisterClientRequest registers a new client. ClientID and ClientSecret are
// generated when omitted.
type RegisterClientRequest struct {
	ClientID             string   `json:"client_id,omitempty"`
	ClientSecret         string   `json:"client_secret,omitempty"`
	Name                 string   `json:"client_name"`
	TenantID             string   `json:"tenant_id"`
	Scopes               []string `json:"scopes"`
	TokenValiditySeconds *int     `json:"token_validity_seconds,omitempty"`
}

// UpdateClientRequest changes mutable client fields. Nil fields are left as is.
type UpdateClientRequest struct {
	Name                 *string  `json:"client_name,omitempty"`
	Scopes               []string `json:"scopes,omitempty"`
	Status               *string  `json:"status,omitempty"`
	TokenValiditySeconds *int     `json:"token_validity_seconds,omitempty"`
}

// ClientInfo describes a registered client. ClientSecret holds the plaintext
// only in the registration response and the mask "***" everywhere else.
type ClientInfo struct {
	ClientID             string   `json:"client_id"`
	ClientSecret         string   `json:"client_secret"`
	Name                 string   `json:"client_name"`
	TenantID             string   `json:"tenant_id"`
	Scopes               []string `json:"scopes"`
	Status               string   `json:"status"`
	TokenValiditySeconds int      `json:"token_validity_seconds"`

	// CreatedAt and LastUsedAt are RFC3339 timestamps.
	CreatedAt  string  `json:"created_at"`
	LastUsedAt *string `json:"last_used_at"`
}

// ListClientsResponse is returned by GET /api/clients.
type ListClientsResponse struct {
	Clients    []ClientInfo `json:"clients"`
	TotalCount int          `json:"total_count"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by the /livez and /readyz endpoints. Checks is only
// set by /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency checked by /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache,omitempty"`
	Signer   string `json:"signer"`
}

// ServiceHealthResponse is returned by GET /api/health. It is always 200; a
// failing database shows up as Database "DOWN".
type ServiceHealthResponse struct {
	Status        string `json:"status"`
	Application   string `json:"application"`
	Version       string `json:"version"`
	Timestamp     int64  `json:"timestamp"`
	Database      string `json:"database"`
	TotalClients  *int   `json:"total_clients,omitempty"`
	DatabaseError string `json:"database_error,omitempty"`
}

// InfoResponse is returned by GET /api/info.
type InfoResponse struct {
	Application string            `json:"application"`
	Version     string            `json:"version"`
	Issuer      string            `json:"issuer"`
	Endpoints   map[string]string `json:"endpoints"`
}
