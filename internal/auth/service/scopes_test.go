package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNegotiateScopes(t *testing.T) {
	t.Parallel()

	allowed := []string{"read:a", "write:b"}

	tests := []struct {
		name      string
		requested string
		want      []string
	}{
		{"empty grants all", "", []string{"read:a", "write:b"}},
		{"blank grants all", "  ,  ", []string{"read:a", "write:b"}},
		{"subset", "write:b", []string{"write:b"}},
		{"request order kept", "write:b read:a", []string{"write:b", "read:a"}},
		{"comma separated", "read:a,write:b", []string{"read:a", "write:b"}},
		{"mixed separators", "read:a, write:b\tadmin:x", []string{"read:a", "write:b"}},
		{"duplicates kept", "read:a read:a", []string{"read:a", "read:a"}},
		{"no overlap", "admin:x", []string{}},
		{"case sensitive", "READ:A", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, NegotiateScopes(tt.requested, allowed))
		})
	}
}

func TestNegotiateScopesDoesNotAliasAllowed(t *testing.T) {
	t.Parallel()

	allowed := []string{"read:a"}
	got := NegotiateScopes("", allowed)
	got[0] = "changed"
	require.Equal(t, "read:a", allowed[0])
}

func TestNegotiateScopesNoAllowed(t *testing.T) {
	t.Parallel()

	require.Empty(t, NegotiateScopes("", nil))
	require.Empty(t, NegotiateScopes("read:a", nil))
}

func TestParseScopes(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"a", "b", "c"}, ParseScopes(" a,b  c,"))
	require.Empty(t, ParseScopes(""))
}
