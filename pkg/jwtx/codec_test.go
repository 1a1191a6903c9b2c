package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenantauth/pkg/clock"
	"github.com/aussiebroadwan/tenantauth/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newTestCodec(t *testing.T, c clock.Clock) *jwtx.Codec {
	t.Helper()
	codec, err := jwtx.NewCodec(testKey, "tenantauth", "key-1", jwtx.WithClock(c))
	require.NoError(t, err)
	return codec
}

func TestNewCodecRejectsShortKey(t *testing.T) {
	_, err := jwtx.NewCodec([]byte("short"), "iss", "kid")
	require.ErrorIs(t, err, jwtx.ErrWeakKey)
}

func TestIssueDecodeRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	codec := newTestCodec(t, clock.NewManual(now))

	token, issued, err := codec.Issue("acme-1", "tenant-a", []string{"write:b", "read:a"}, time.Hour)
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)

	claims, err := codec.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "acme-1", claims.Subject)
	require.Equal(t, "acme-1", claims.ClientID)
	require.Equal(t, "tenant-a", claims.TenantID)
	require.Equal(t, "write:b,read:a", claims.Scope)
	require.Equal(t, "Bearer", claims.TokenType)
	require.Equal(t, "tenantauth", claims.Issuer)
	require.Equal(t, now, claims.IssuedAt.Time.UTC())
	require.Equal(t, now.Add(time.Hour), claims.ExpiresAt.Time.UTC())
	require.Equal(t, issued.ID, claims.ID)
	require.False(t, codec.IsExpired(claims))
}

func TestIssueEmptyScope(t *testing.T) {
	codec := newTestCodec(t, clock.Real{})

	token, _, err := codec.Issue("acme-1", "tenant-a", nil, time.Minute)
	require.NoError(t, err)

	claims, err := codec.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "", claims.Scope)
}

func TestIssueRejectsNonPositiveValidity(t *testing.T) {
	codec := newTestCodec(t, clock.Real{})

	_, _, err := codec.Issue("acme-1", "tenant-a", nil, 0)
	require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
}

func TestIssueSetsKidHeader(t *testing.T) {
	codec := newTestCodec(t, clock.Real{})
	token, _, err := codec.Issue("acme-1", "tenant-a", nil, time.Minute)
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, &jwtx.Claims{})
	require.NoError(t, err)
	require.Equal(t, "key-1", parsed.Header["kid"])
	require.Equal(t, "HS256", parsed.Header["alg"])
}

func TestIsExpired(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mc := clock.NewManual(start)
	codec := newTestCodec(t, mc)

	token, _, err := codec.Issue("acme-1", "tenant-a", nil, 10*time.Second)
	require.NoError(t, err)
	claims, err := codec.Decode(token)
	require.NoError(t, err)

	mc.Advance(9 * time.Second)
	require.False(t, codec.IsExpired(claims))

	mc.Advance(time.Second)
	require.True(t, codec.IsExpired(claims), "exp == now is expired")

	// Signature stays valid after expiry.
	_, err = codec.Decode(token)
	require.NoError(t, err)
}

func TestDecodeFailures(t *testing.T) {
	codec := newTestCodec(t, clock.Real{})
	good, _, err := codec.Issue("acme-1", "tenant-a", []string{"read:a"}, time.Minute)
	require.NoError(t, err)

	other, err := jwtx.NewCodec([]byte("ffffffffffffffffffffffffffffffff"), "tenantauth", "key-1")
	require.NoError(t, err)
	foreign, _, err := other.Issue("acme-1", "tenant-a", []string{"read:a"}, time.Minute)
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtx.NewAccessClaims(
		"acme-1", "tenant-a", nil, time.Minute, "tenantauth", time.Now(),
	)).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	missingTenant, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "acme-1",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString(testKey)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", jwtx.ErrMalformed},
		{"garbage", "not.a.jwt", jwtx.ErrMalformed},
		{"two segments", parts[0] + "." + parts[1], jwtx.ErrMalformed},
		{"wrong key", foreign, jwtx.ErrInvalidSig},
		{"tampered payload", tampered, nil},
		{"alg none", noneToken, nil},
		{"missing tenant", missingTenant, jwtx.ErrInvalidClaim},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := codec.Decode(tt.token)
			require.Error(t, err)
			if tt.want != nil {
				require.ErrorIs(t, err, tt.want)
			}
			require.Equal(t, jwtx.Claims{}, claims, "no partial claims on failure")
		})
	}
}

func TestVerify(t *testing.T) {
	start := time.Now().UTC()
	mc := clock.NewManual(start)
	codec := newTestCodec(t, mc)

	token, _, err := codec.Issue("acme-1", "tenant-a", []string{"clients:read"}, time.Minute)
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	require.Equal(t, []string{"clients:read"}, claims.Scopes())

	mc.Advance(2 * time.Minute)
	_, err = codec.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)

	mc.Set(start)
	otherIssuer, err := jwtx.NewCodec(testKey, "someone-else", "key-1", jwtx.WithClock(mc))
	require.NoError(t, err)
	_, err = otherIssuer.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}
