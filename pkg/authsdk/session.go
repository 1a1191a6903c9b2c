package authsdk

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// expiryBuffer is how long before expiry a Session fetches a new token.
const expiryBuffer = 30 * time.Second

// Session holds a client-credentials access token. There are no refresh
// tokens, so an expiring token is replaced by running the grant again.
type Session struct {
	client *SDKClient

	clientID        string
	clientSecret    string
	requestedScopes []string

	mu          sync.RWMutex
	accessToken string
	tenantID    string
	expiresAt   time.Time
	scopes      map[string]bool
}

func newSession(
	client *SDKClient,
	clientID, clientSecret string,
	requested []string,
	tokenResp *TokenResponse,
) *Session {
	s := &Session{
		client:          client,
		clientID:        clientID,
		clientSecret:    clientSecret,
		requestedScopes: requested,
	}
	s.apply(tokenResp)
	return s
}

func (s *Session) apply(tokenResp *TokenResponse) {
	s.accessToken = tokenResp.AccessToken
	s.tenantID = tokenResp.TenantID
	s.expiresAt = time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - expiryBuffer)
	s.scopes = parseScopes(tokenResp.Scope)
}

// parseScopes accepts the comma-joined scope string the server returns and,
// for tolerance, space-delimited strings too.
func parseScopes(scopeStr string) map[string]bool {
	fields := strings.FieldsFunc(scopeStr, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	scopes := make(map[string]bool, len(fields))
	for _, scope := range fields {
		scopes[scope] = true
	}
	return scopes
}

// getValidToken returns the current access token, re-running the grant if it
// is about to expire.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have renewed while we waited for the lock.
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	tokenResp, err := s.client.ClientCredentialsGrant(ctx, s.clientID, s.clientSecret, s.requestedScopes)
	if err != nil {
		return "", fmt.Errorf("failed to renew token: %w", err)
	}
	s.apply(tokenResp)

	return s.accessToken, nil
}

// AccessToken returns the current access token without checking expiration.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// TenantID returns the tenant reported with the last token.
func (s *Session) TenantID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tenantID
}

// Scopes returns a copy of the current granted scopes as a slice.
func (s *Session) Scopes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scopes := make([]string, 0, len(s.scopes))
	for scope := range s.scopes {
		scopes = append(scopes, scope)
	}
	return scopes
}

// HasScope returns true if the session has the specified scope.
func (s *Session) HasScope(scope string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scopes[scope]
}

// checkScopes requires at least one of the given scopes when CheckScopes is on.
func (s *Session) checkScopes(anyOf ...string) error {
	if !s.client.CheckScopes || len(anyOf) == 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, scope := range anyOf {
		if s.scopes[scope] {
			return nil
		}
	}
	return fmt.Errorf("missing required scope: one of %s", strings.Join(anyOf, ", "))
}
