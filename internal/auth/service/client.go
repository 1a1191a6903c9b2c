package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/aussiebroadwan/tenantauth/internal/auth/domain"
	"github.com/aussiebroadwan/tenantauth/internal/auth/store"
	"github.com/aussiebroadwan/tenantauth/pkg/clock"
	"github.com/aussiebroadwan/tenantauth/pkg/cryptox"
	"github.com/aussiebroadwan/tenantauth/pkg/idx"
	"github.com/aussiebroadwan/tenantauth/pkg/slogx"
)

const maxClientNameLength = 200

// ClientService manages client registrations.
type ClientService struct {
	Store store.Store
	Clock clock.Clock
}

type RegisterRequest struct {
	// ClientID and ClientSecret are generated when empty.
	ClientID     string
	ClientSecret string

	Name     string
	TenantID string
	Scopes   []string

	// TokenValiditySeconds defaults to domain.DefaultTokenValiditySeconds.
	TokenValiditySeconds *int
}

// Registration carries the stored client and the plaintext secret. The
// secret is only ever available here.
type Registration struct {
	Client domain.Client
	Secret string
}

type ListFilter struct {
	TenantID string
	Status   domain.ClientStatus
}

// UpdateRequest holds optional changes. Nil fields are left alone; a nil
// Scopes slice keeps the current scopes while an empty one clears them.
type UpdateRequest struct {
	Name                 *string
	Scopes               []string
	Status               *domain.ClientStatus
	TokenValiditySeconds *int
}

// Register validates and stores a new ACTIVE client.
func (s *ClientService) Register(ctx context.Context, req RegisterRequest) (*Registration, error) {
	l := slogx.FromContext(ctx)

	name := strings.TrimSpace(req.Name)
	tenantID := strings.TrimSpace(req.TenantID)
	clientID := strings.TrimSpace(req.ClientID)

	if name == "" {
		return nil, fmt.Errorf("%w: client_name is required", ErrInvalidInput)
	}
	if len(name) > maxClientNameLength {
		return nil, fmt.Errorf("%w: client_name must be at most %d characters", ErrInvalidInput, maxClientNameLength)
	}
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant_id is required", ErrInvalidInput)
	}
	if err := validateScopes(req.Scopes); err != nil {
		return nil, err
	}
	validity := domain.DefaultTokenValiditySeconds
	if req.TokenValiditySeconds != nil {
		if err := validateValidity(*req.TokenValiditySeconds); err != nil {
			return nil, err
		}
		validity = *req.TokenValiditySeconds
	}

	now := s.now()
	if clientID == "" {
		clientID = GenerateClientID(name, now)
	} else if strings.ContainsFunc(clientID, unicode.IsSpace) || strings.Contains(clientID, ":") {
		return nil, fmt.Errorf("%w: client_id must not contain whitespace or ':'", ErrInvalidInput)
	}

	exists, err := s.Store.Clients().ExistsByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("check client: %w", err)
	}
	if exists {
		return nil, ErrClientExists
	}

	secret := req.ClientSecret
	if secret == "" {
		if secret, err = cryptox.GenerateClientSecret(); err != nil {
			return nil, err
		}
	}
	hash, err := cryptox.HashSecret(secret)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}

	client, err := s.Store.Clients().Save(ctx, domain.Client{
		ID:                   idx.NewAt(now).String(),
		ClientID:             clientID,
		SecretHash:           hash,
		Name:                 name,
		TenantID:             tenantID,
		Scopes:               slices.Clone(req.Scopes),
		Status:               domain.ClientStatusActive,
		TokenValiditySeconds: validity,
		CreatedAt:            now,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrClientExists
		}
		return nil, fmt.Errorf("save client: %w", err)
	}

	l.Info("client registered",
		"client_id", client.ClientID,
		"tenant_id", client.TenantID,
		"scopes", client.Scopes,
	)
	return &Registration{Client: client, Secret: secret}, nil
}

func (s *ClientService) Get(ctx context.Context, clientID string) (domain.Client, error) {
	c, err := s.Store.Clients().LookupByClientID(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Client{}, ErrClientNotFound
	}
	return c, err
}

// List returns clients newest first, narrowed by tenant and/or status.
func (s *ClientService) List(ctx context.Context, f ListFilter) ([]domain.Client, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, f.Status)
	}

	repo := s.Store.Clients()
	switch {
	case f.TenantID != "":
		clients, err := repo.ListByTenant(ctx, f.TenantID)
		if err != nil || f.Status == "" {
			return clients, err
		}
		return slices.DeleteFunc(clients, func(c domain.Client) bool {
			return c.Status != f.Status
		}), nil
	case f.Status != "":
		return repo.ListByStatus(ctx, f.Status)
	default:
		return repo.List(ctx)
	}
}

// Update applies the non-nil fields of req in a single transaction.
func (s *ClientService) Update(ctx context.Context, clientID string, req UpdateRequest) (domain.Client, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > maxClientNameLength {
			return domain.Client{}, fmt.Errorf("%w: client_name must be 1-%d characters", ErrInvalidInput, maxClientNameLength)
		}
		req.Name = &name
	}
	if req.Scopes != nil {
		if err := validateScopes(req.Scopes); err != nil {
			return domain.Client{}, err
		}
	}
	if req.Status != nil && !req.Status.Valid() {
		return domain.Client{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
	}
	if req.TokenValiditySeconds != nil {
		if err := validateValidity(*req.TokenValiditySeconds); err != nil {
			return domain.Client{}, err
		}
	}

	var updated domain.Client
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		c, err := tx.Clients().LookupByClientID(ctx, clientID)
		if err != nil {
			return err
		}
		if req.Name != nil {
			c.Name = *req.Name
		}
		if req.Scopes != nil {
			c.Scopes = slices.Clone(req.Scopes)
		}
		if req.Status != nil {
			c.Status = *req.Status
		}
		if req.TokenValiditySeconds != nil {
			c.TokenValiditySeconds = *req.TokenValiditySeconds
		}
		updated, err = tx.Clients().Update(ctx, c)
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Client{}, ErrClientNotFound
	}
	if err != nil {
		return domain.Client{}, fmt.Errorf("update client: %w", err)
	}

	slogx.FromContext(ctx).Info("client updated",
		"client_id", updated.ClientID,
		"status", updated.Status,
	)
	return updated, nil
}

// Deactivate marks the client DEPRECATED. Tokens already issued stay valid
// until they expire; new grants are refused.
func (s *ClientService) Deactivate(ctx context.Context, clientID string) error {
	status := domain.ClientStatusDeprecated
	_, err := s.Update(ctx, clientID, UpdateRequest{Status: &status})
	return err
}

// RotateSecret replaces the client's secret with a freshly generated one and
// returns it. The previous secret stops working immediately.
func (s *ClientService) RotateSecret(ctx context.Context, clientID string) (string, error) {
	secret, err := cryptox.GenerateClientSecret()
	if err != nil {
		return "", err
	}
	hash, err := cryptox.HashSecret(secret)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		c, err := tx.Clients().LookupByClientID(ctx, clientID)
		if err != nil {
			return err
		}
		c.SecretHash = hash
		_, err = tx.Clients().Update(ctx, c)
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrClientNotFound
	}
	if err != nil {
		return "", fmt.Errorf("rotate secret: %w", err)
	}

	slogx.FromContext(ctx).Info("client secret rotated", "client_id", clientID)
	return secret, nil
}

func (s *ClientService) Count(ctx context.Context) (int, error) {
	return s.Store.Clients().Count(ctx)
}

func (s *ClientService) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

// GenerateClientID derives a readable id from the client name: lower-cased,
// everything but letters and digits stripped from each word, words joined
// with '-', then suffixed with the registration time in Unix milliseconds.
func GenerateClientID(name string, now time.Time) string {
	var b strings.Builder
	for _, f := range strings.Fields(strings.ToLower(name)) {
		word := strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				return r
			}
			return -1
		}, f)
		if word == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('-')
		}
		b.WriteString(word)
	}
	base := b.String()
	if base == "" {
		base = "client"
	}
	return base + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}

func validateValidity(seconds int) error {
	if seconds <= 0 || seconds > domain.MaxTokenValiditySeconds {
		return fmt.Errorf("%w: token_validity_seconds must be between 1 and %d", ErrInvalidInput, domain.MaxTokenValiditySeconds)
	}
	return nil
}

// Scopes are persisted comma-joined and parsed back on commas and
// whitespace, so neither may appear inside a scope.
func validateScopes(scopes []string) error {
	for _, sc := range scopes {
		if sc == "" {
			return fmt.Errorf("%w: scopes must not be empty", ErrInvalidInput)
		}
		if strings.ContainsFunc(sc, func(r rune) bool { return r == ',' || unicode.IsSpace(r) }) {
			return fmt.Errorf("%w: scope %q must not contain commas or whitespace", ErrInvalidInput, sc)
		}
	}
	return nil
}
