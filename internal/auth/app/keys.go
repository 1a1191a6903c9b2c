package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/tenantauth/pkg/clock"
	"github.com/aussiebroadwan/tenantauth/pkg/cryptox"
	"github.com/aussiebroadwan/tenantauth/pkg/jwtx"
)

// InitCodec builds the HS256 token codec.
//
// With AUTH_JWT_SECRET set, tokens stay valid across restarts and replicas.
// Without it a random key is generated on startup; every token issued by a
// previous process becomes invalid and replicas cannot verify each other.
func InitCodec(cfg Config, c clock.Clock, logger *slog.Logger) (*jwtx.Codec, error) {
	key := []byte(cfg.JWTSecret)

	if len(key) == 0 {
		generated, err := cryptox.GenerateSigningKey(jwtx.MinKeyLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
		key = generated
		logger.Warn("AUTH_JWT_SECRET not set, using an ephemeral signing key",
			"kid", cfg.JWTKeyID,
		)
		logger.Warn("all existing tokens are now invalid due to key rotation on startup")
	}

	codec, err := jwtx.NewCodec(key, cfg.Issuer, cfg.JWTKeyID, jwtx.WithClock(c))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}

	logger.Info("token codec ready",
		"algorithm", "HS256",
		"kid", cfg.JWTKeyID,
		"issuer", cfg.Issuer,
		"default_ttl", cfg.TokenTTL,
	)
	return codec, nil
}
