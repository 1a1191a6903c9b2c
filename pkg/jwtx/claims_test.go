package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantauth/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewAccessClaims(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c := jwtx.NewAccessClaims("acme-1", "tenant-a", []string{"read:a", "write:b"}, time.Hour, "tenantauth", now)

	require.Equal(t, "acme-1", c.Subject)
	require.Equal(t, "acme-1", c.ClientID)
	require.Equal(t, "tenant-a", c.TenantID)
	require.Equal(t, "read:a,write:b", c.Scope)
	require.Equal(t, jwtx.TokenTypeBearer, c.TokenType)
	require.Equal(t, "tenantauth", c.Issuer)
	require.Equal(t, now, c.IssuedAt.Time)
	require.Equal(t, now.Add(time.Hour), c.ExpiresAt.Time)
	require.NotEmpty(t, c.ID)
}

func TestClaimsScopes(t *testing.T) {
	t.Run("splits comma joined scope", func(t *testing.T) {
		c := jwtx.Claims{Scope: "read:a,write:b,read:a"}
		require.Equal(t, []string{"read:a", "write:b", "read:a"}, c.Scopes())
	})

	t.Run("empty scope yields nil", func(t *testing.T) {
		c := jwtx.Claims{}
		require.Nil(t, c.Scopes())
	})
}

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "auth-service"}}

	require.NoError(t, c.ValidateIssuer("auth-service"))
	require.NoError(t, c.ValidateIssuer(""))
	require.ErrorIs(t, c.ValidateIssuer("chat-service"), jwtx.ErrIssuer)
}

func TestValidateRequired(t *testing.T) {
	now := time.Now()
	full := jwtx.NewAccessClaims("acme-1", "tenant-a", nil, time.Minute, "iss", now)
	require.NoError(t, full.ValidateRequired())

	tests := []struct {
		name   string
		mutate func(c *jwtx.Claims)
	}{
		{"missing subject", func(c *jwtx.Claims) { c.Subject = "" }},
		{"missing tenant", func(c *jwtx.Claims) { c.TenantID = "" }},
		{"missing exp", func(c *jwtx.Claims) { c.ExpiresAt = nil }},
		{"missing iat", func(c *jwtx.Claims) { c.IssuedAt = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := full
			tt.mutate(&c)
			require.ErrorIs(t, c.ValidateRequired(), jwtx.ErrInvalidClaim)
		})
	}
}

func TestExpiredAt(t *testing.T) {
	exp := time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC)
	c := jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}}

	require.False(t, c.ExpiredAt(exp.Add(-time.Second)))
	require.True(t, c.ExpiredAt(exp), "exp equal to now counts as expired")
	require.True(t, c.ExpiredAt(exp.Add(time.Second)))

	require.True(t, (&jwtx.Claims{}).ExpiredAt(exp), "missing exp counts as expired")
}
