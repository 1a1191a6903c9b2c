package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the tenantauth service. It covers the public
// endpoints and creates authenticated Sessions for the registration API.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// CheckScopes makes a Session refuse calls it has no scope for before
	// sending them. Tests disable it to exercise the server-side checks.
	// Default: true
	CheckScopes bool

	// UseBasicAuth sends client credentials with HTTP Basic instead of form
	// fields.
	UseBasicAuth bool
}

// NewSDKClient creates a new auth service client with scope checking enabled.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		CheckScopes: true,
	}
}

// AuthenticateWithClientCredentials obtains a token and wraps it in a Session
// that re-runs the grant once the token is close to expiry.
func (c *SDKClient) AuthenticateWithClientCredentials(
	ctx context.Context,
	clientID, clientSecret string,
	scopes []string,
) (*Session, error) {
	tokenResp, err := c.ClientCredentialsGrant(ctx, clientID, clientSecret, scopes)
	if err != nil {
		return nil, err
	}

	return newSession(c, clientID, clientSecret, scopes, tokenResp), nil
}
