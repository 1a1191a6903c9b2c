package jwtx

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTypeBearer is the fixed token-type label carried by every access token.
const TokenTypeBearer = "Bearer"

// DefaultAccessTokenTTL is used when a client has no usable lifetime of its own.
const DefaultAccessTokenTTL = time.Hour

// Claims are the access-token claims issued for the client_credentials grant.
// The subject is always the client id.
type Claims struct {
	jwt.RegisteredClaims

	// ClientID duplicates the subject for resource servers that look for it.
	ClientID string `json:"client_id"`

	// TenantID is the isolation boundary the client belongs to.
	TenantID string `json:"tenant_id"`

	// Scope is the comma-joined list of granted scopes, "" when none were granted.
	Scope string `json:"scope"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`
}

// NewAccessClaims builds the claim set for a freshly issued token.
func NewAccessClaims(
	clientID, tenantID string,
	scopes []string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		ClientID:  clientID,
		TenantID:  tenantID,
		Scope:     JoinScopes(scopes),
		TokenType: TokenTypeBearer,
	}
}

// Scopes splits the comma-joined scope claim back into its tokens.
func (c *Claims) Scopes() []string {
	if c.Scope == "" {
		return nil
	}
	parts := strings.Split(c.Scope, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinScopes serialises scopes the way the scope claim carries them.
func JoinScopes(scopes []string) string {
	return strings.Join(scopes, ",")
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateRequired ensures the claims a token must carry are present.
func (c *Claims) ValidateRequired() error {
	if c.Subject == "" || c.TenantID == "" || c.ExpiresAt == nil || c.IssuedAt == nil {
		return ErrInvalidClaim
	}
	return nil
}

// ExpiredAt reports whether the token is expired at now. A token is expired
// once now reaches its exp, so exp == now already counts.
func (c *Claims) ExpiredAt(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !now.Before(c.ExpiresAt.Time)
}
