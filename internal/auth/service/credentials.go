package service

import (
	"github.com/aussiebroadwan/tenantauth/internal/auth/domain"
	"github.com/aussiebroadwan/tenantauth/pkg/cryptox"
)

// CredentialValidator checks a presented secret against a client's stored
// argon2id hash. The digest comparison is constant time. Status is not looked
// at here.
type CredentialValidator struct{}

// Verify reports whether secret matches the client's hash. An empty or
// malformed hash never matches.
func (CredentialValidator) Verify(client domain.Client, secret string) bool {
	if client.SecretHash == "" || secret == "" {
		return false
	}
	return cryptox.VerifySecret(secret, client.SecretHash) == nil
}

// VerifyUnknown burns the same hashing work as Verify for a client that does
// not exist, so response timing does not reveal which client ids are valid.
func (CredentialValidator) VerifyUnknown(secret string) {
	_ = cryptox.VerifySecret(secret, cryptox.DummyHash())
}
