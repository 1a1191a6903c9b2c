package service

import (
	"context"
	"strings"

	"github.com/aussiebroadwan/tenantauth/internal/auth/domain"
	"github.com/aussiebroadwan/tenantauth/internal/auth/metrics"
	"github.com/aussiebroadwan/tenantauth/pkg/jwtx"
	"github.com/aussiebroadwan/tenantauth/pkg/slogx"
)

// IntrospectionService reports whether a token is currently valid. It only
// needs the codec and never reads the client store.
type IntrospectionService struct {
	Codec   *jwtx.Codec
	Metrics *metrics.Metrics
}

// Introspect fails closed: any problem with the token, including a panic
// while decoding it, yields {Active: false} and nothing else.
func (s *IntrospectionService) Introspect(ctx context.Context, token string) (res domain.Introspection) {
	l := slogx.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			l.Error("panic during introspection", "panic", r)
			res = domain.Introspection{}
		}
		s.Metrics.Introspected(res.Active)
	}()

	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Introspection{}
	}

	claims, err := s.Codec.Verify(token)
	if err != nil {
		l.Debug("token inactive", "reason", err)
		return domain.Introspection{}
	}

	return domain.Introspection{
		Active:    true,
		ClientID:  claims.Subject,
		TenantID:  claims.TenantID,
		Scope:     claims.Scope,
		TokenType: claims.TokenType,
		Exp:       claims.ExpiresAt.Unix(),
		Iat:       claims.IssuedAt.Unix(),
		Iss:       claims.Issuer,
		Sub:       claims.Subject,
	}
}
