package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

const formContentType = "application/x-www-form-urlencoded"

// ClientCredentialsGrant requests an access token with the client_credentials
// grant. Scopes are sent space-delimited; an empty list asks for every scope
// the client is allowed. No refresh token is issued.
func (c *SDKClient) ClientCredentialsGrant(
	ctx context.Context,
	clientID, clientSecret string,
	scopes []string,
) (*TokenResponse, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	if len(scopes) > 0 {
		form.Set("scope", strings.Join(scopes, " "))
	}

	call := apiCall{method: http.MethodPost, path: "/oauth2/token", form: form}
	if c.UseBasicAuth {
		call.basicUser, call.basicPass = clientID, clientSecret
	} else {
		form.Set("client_id", clientID)
		form.Set("client_secret", clientSecret)
	}

	return c.requestToken(ctx, call)
}

// RequestToken posts arbitrary form values to the token endpoint. It exists
// for callers that need to exercise other grant types.
func (c *SDKClient) RequestToken(ctx context.Context, data url.Values) (*TokenResponse, error) {
	return c.requestToken(ctx, apiCall{method: http.MethodPost, path: "/oauth2/token", form: data})
}

func (c *SDKClient) requestToken(ctx context.Context, call apiCall) (*TokenResponse, error) {
	var tokenResp TokenResponse
	call.out = &tokenResp
	if err := c.send(ctx, call); err != nil {
		return nil, err
	}
	return &tokenResp, nil
}

// Introspect asks the server whether token is active. The call only fails on
// transport errors; a bad token comes back as Active=false.
func (c *SDKClient) Introspect(ctx context.Context, token string) (*IntrospectionResponse, error) {
	var out IntrospectionResponse
	err := c.send(ctx, apiCall{
		method: http.MethodPost,
		path:   "/oauth2/introspect",
		form:   url.Values{"token": {token}},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
