package authsdk

import (
	"context"
)

// GetServerMetadata retrieves the authorization server metadata document.
func (c *SDKClient) GetServerMetadata(ctx context.Context) (*ServerMetadata, error) {
	var md ServerMetadata
	if err := c.getJSON(ctx, "/.well-known/oauth-authorization-server", &md); err != nil {
		return nil, err
	}
	return &md, nil
}

// GetJWKS retrieves the placeholder key set.
func (c *SDKClient) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	var jwks JWKSResponse
	if err := c.getJSON(ctx, "/.well-known/jwks.json", &jwks); err != nil {
		return nil, err
	}
	return &jwks, nil
}
