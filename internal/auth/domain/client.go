package domain

import (
	"fmt"
	"strings"
	"time"
)

// ClientStatus is the lifecycle state of a registered client. Only ACTIVE
// clients may obtain tokens.
type ClientStatus string

const (
	ClientStatusActive     ClientStatus = "ACTIVE"
	ClientStatusSuspended  ClientStatus = "SUSPENDED"
	ClientStatusDeprecated ClientStatus = "DEPRECATED"
)

// ClientStatuses lists every valid status, in a stable order.
var ClientStatuses = []ClientStatus{
	ClientStatusActive,
	ClientStatusSuspended,
	ClientStatusDeprecated,
}

// ParseClientStatus accepts a status name in any case.
func ParseClientStatus(s string) (ClientStatus, error) {
	st := ClientStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown client status %q", s)
	}
	return st, nil
}

func (s ClientStatus) Valid() bool {
	switch s {
	case ClientStatusActive, ClientStatusSuspended, ClientStatusDeprecated:
		return true
	}
	return false
}

func (s ClientStatus) String() string { return string(s) }

const (
	// DefaultTokenValiditySeconds is assigned to clients registered without a lifetime.
	DefaultTokenValiditySeconds = 3600

	// MaxTokenValiditySeconds caps a client's token lifetime at one year.
	MaxTokenValiditySeconds = 365 * 24 * 60 * 60

	// MaskedSecret replaces the secret in every read response.
	MaskedSecret = "***"
)

// Client is a registered machine client. ClientID is unique across tenants and
// never changes. The plaintext secret is never stored.
type Client struct {
	ID                   string
	ClientID             string
	SecretHash           string
	Name                 string
	TenantID             string
	Scopes               []string
	Status               ClientStatus
	TokenValiditySeconds int
	CreatedAt            time.Time
	LastUsedAt           *time.Time
}

func (c Client) IsActive() bool { return c.Status == ClientStatusActive }

// TokenValidity returns the client's token lifetime, or fallback when the
// stored value is not positive. Stored values above the cap are clamped.
func (c Client) TokenValidity(fallback time.Duration) time.Duration {
	if c.TokenValiditySeconds <= 0 {
		return fallback
	}
	return time.Duration(min(c.TokenValiditySeconds, MaxTokenValiditySeconds)) * time.Second
}
