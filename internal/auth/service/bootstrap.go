package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/tenantauth/pkg/slogx"
)

const (
	ScopeClientsRead  = "clients:read"
	ScopeClientsWrite = "clients:write"

	adminClientName = "Administrator"
)

// AdminClient describes the management client seeded on startup.
type AdminClient struct {
	ClientID string
	Secret   string
	TenantID string
}

// BootstrapService seeds the admin client so the management API is usable
// on a fresh database.
type BootstrapService struct {
	Clients *ClientService
}

// EnsureAdminClient registers the admin client when it does not exist yet.
// An existing client is left untouched, including its secret. It reports
// whether a client was created.
func (s *BootstrapService) EnsureAdminClient(ctx context.Context, admin AdminClient) (bool, error) {
	l := slogx.FromContext(ctx).With("client_id", admin.ClientID)

	if admin.ClientID == "" || admin.Secret == "" {
		l.Debug("admin client not configured, skipping bootstrap")
		return false, nil
	}

	_, err := s.Clients.Get(ctx, admin.ClientID)
	if err == nil {
		l.Debug("admin client already present")
		return false, nil
	}
	if !errors.Is(err, ErrClientNotFound) {
		return false, err
	}

	tenant := admin.TenantID
	if tenant == "" {
		tenant = "system"
	}

	_, err = s.Clients.Register(ctx, RegisterRequest{
		ClientID:     admin.ClientID,
		ClientSecret: admin.Secret,
		Name:         adminClientName,
		TenantID:     tenant,
		Scopes:       []string{ScopeClientsRead, ScopeClientsWrite},
	})
	if errors.Is(err, ErrClientExists) {
		// Another replica won the race.
		return false, nil
	}
	if err != nil {
		return false, err
	}

	l.Info("admin client created", "tenant_id", tenant)
	return true, nil
}
