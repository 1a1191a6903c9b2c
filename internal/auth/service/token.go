package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/tenantauth/internal/auth/domain"
	"github.com/aussiebroadwan/tenantauth/internal/auth/metrics"
	"github.com/aussiebroadwan/tenantauth/internal/auth/store"
	"github.com/aussiebroadwan/tenantauth/pkg/jwtx"
	"github.com/aussiebroadwan/tenantauth/pkg/slogx"
)

const GrantTypeClientCredentials = "client_credentials"

// GrantRequest is a token request as presented by the caller.
type GrantRequest struct {
	GrantType    string
	ClientID     string
	ClientSecret string
	Scope        string
}

// TokenService runs the client_credentials grant.
type TokenService struct {
	Store       store.Store
	Codec       *jwtx.Codec
	Credentials CredentialValidator
	Metrics     *metrics.Metrics

	// DefaultTTL applies to clients without a positive token validity.
	DefaultTTL time.Duration
}

// Grant authenticates the client and issues an access token.
//
// The grant type is checked before the store is touched. An unknown client,
// a client that is not ACTIVE and a wrong secret all return ErrInvalidClient.
// Store and signing failures come back wrapped and map to server_error. The
// lastUsedAt write after issuance is best effort.
func (s *TokenService) Grant(ctx context.Context, req GrantRequest) (grant *domain.TokenGrant, err error) {
	start := time.Now()
	defer func() {
		s.Metrics.GrantCompleted(grantOutcome(err), time.Since(start))
	}()

	if req.GrantType != GrantTypeClientCredentials {
		return nil, ErrUnsupportedGrantType
	}

	l := slogx.FromContext(ctx).With("client_id", req.ClientID)

	if req.ClientID == "" {
		s.Credentials.VerifyUnknown(req.ClientSecret)
		return nil, ErrInvalidClient
	}

	client, err := s.Store.Clients().LookupByClientID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Credentials.VerifyUnknown(req.ClientSecret)
			l.Info("token request for unknown client")
			return nil, ErrInvalidClient
		}
		return nil, fmt.Errorf("lookup client: %w", err)
	}

	// Verify before branching on status so every rejection costs one hash.
	secretOK := s.Credentials.Verify(client, req.ClientSecret)

	if !client.IsActive() {
		l.Info("token request for inactive client", "status", client.Status)
		return nil, ErrInvalidClient
	}
	if !secretOK {
		l.Info("client secret verification failed")
		return nil, ErrInvalidClient
	}

	scopes := NegotiateScopes(req.Scope, client.Scopes)
	validity := client.TokenValidity(s.defaultTTL())

	token, claims, err := s.Codec.Issue(client.ClientID, client.TenantID, scopes, validity)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if err := s.Store.Clients().UpdateLastUsedAt(ctx, client.ClientID, claims.IssuedAt.Time); err != nil {
		l.Warn("failed to record client usage", "error", err)
	}

	l.Info("access token issued",
		"tenant_id", client.TenantID,
		"scope", claims.Scope,
		"jti", claims.ID,
	)

	return &domain.TokenGrant{
		AccessToken: token,
		TokenType:   jwtx.TokenTypeBearer,
		ExpiresIn:   int(validity / time.Second),
		Scope:       claims.Scope,
		TenantID:    client.TenantID,
	}, nil
}

func (s *TokenService) defaultTTL() time.Duration {
	if s.DefaultTTL <= 0 {
		return jwtx.DefaultAccessTokenTTL
	}
	return s.DefaultTTL
}

func grantOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeIssued
	case errors.Is(err, ErrUnsupportedGrantType):
		return metrics.OutcomeUnsupportedGrant
	case errors.Is(err, ErrInvalidClient):
		return metrics.OutcomeInvalidClient
	default:
		return metrics.OutcomeServerError
	}
}
