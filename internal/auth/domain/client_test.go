package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantauth/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestParseClientStatus(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]domain.ClientStatus{
		"ACTIVE":       domain.ClientStatusActive,
		"suspended":    domain.ClientStatusSuspended,
		" Deprecated ": domain.ClientStatusDeprecated,
	} {
		got, err := domain.ParseClientStatus(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := domain.ParseClientStatus("INACTIVE")
	require.Error(t, err)
}

func TestTokenValidity(t *testing.T) {
	t.Parallel()

	c := domain.Client{TokenValiditySeconds: 900}
	require.Equal(t, 15*time.Minute, c.TokenValidity(time.Hour))

	c.TokenValiditySeconds = 0
	require.Equal(t, time.Hour, c.TokenValidity(time.Hour))

	c.TokenValiditySeconds = -5
	require.Equal(t, time.Hour, c.TokenValidity(time.Hour))

	c.TokenValiditySeconds = 20_000_000_000
	require.Equal(t, 365*24*time.Hour, c.TokenValidity(time.Hour))
}
