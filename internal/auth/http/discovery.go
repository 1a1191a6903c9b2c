package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/tenantauth/pkg/authsdk"
	"github.com/aussiebroadwan/tenantauth/pkg/httpx"
	"github.com/aussiebroadwan/tenantauth/pkg/jwtx"
)

const (
	tokenPath      = "/oauth2/token"
	introspectPath = "/oauth2/introspect"
	jwksPath       = "/.well-known/jwks.json"
	metadataPath   = "/.well-known/oauth-authorization-server"
)

// MetadataHandler serves the RFC 8414 authorization server metadata.
//
//	@Summary		Authorization Server Metadata
//	@Description	Returns the OAuth2 discovery document (RFC 8414).
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	authsdk.ServerMetadata	"Server metadata"
//	@Router			/.well-known/oauth-authorization-server [get].
func MetadataHandler(issuer string, scopes []string) http.HandlerFunc {
	base := strings.TrimRight(issuer, "/")
	doc := authsdk.ServerMetadata{
		Issuer:                            issuer,
		TokenEndpoint:                     base + tokenPath,
		IntrospectionEndpoint:             base + introspectPath,
		JWKSURI:                           base + jwksPath,
		GrantTypesSupported:               []string{"client_credentials"},
		ResponseTypesSupported:            []string{"token"},
		TokenEndpointAuthMethodsSupported: []string{"client_secret_post", "client_secret_basic"},
		ScopesSupported:                   scopes,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WritePublicJSON(w, doc)
	}
}

// JWKSHandler exposes the key set placeholder. Tokens are HS256 so there is
// no public key to publish; the entry only names the algorithm and kid.
//
//	@Summary		Get JWKS
//	@Description	Returns a single placeholder key {kty: oct, alg: HS256, use: sig, kid}. No key material is exposed.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	authsdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(codec *jwtx.Codec) http.HandlerFunc {
	set := authsdk.JWKSResponse(codec.PlaceholderJWKS())
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WritePublicJSON(w, set)
	}
}
