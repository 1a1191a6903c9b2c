package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/tenantauth/internal/auth/service"
	"github.com/aussiebroadwan/tenantauth/pkg/authsdk"
	"github.com/aussiebroadwan/tenantauth/pkg/httpx"
	"github.com/aussiebroadwan/tenantauth/pkg/slogx"
)

// TokenHandler serves POST /oauth2/token.
// Accepts application/x-www-form-urlencoded per RFC 6749.
type TokenHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		OAuth2 Token Endpoint
//	@Description	Issues an HS256 access token using the client_credentials grant.
//	@Description	Client credentials may be sent as form fields or with HTTP Basic authentication.
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			grant_type		formData	string					true	"Grant type"	Enums(client_credentials)
//	@Param			client_id		formData	string					false	"Client identifier (unless sent with Basic auth)"
//	@Param			client_secret	formData	string					false	"Client secret (unless sent with Basic auth)"
//	@Param			scope			formData	string					false	"Comma or space separated scopes; empty grants all allowed scopes"
//	@Success		200				{object}	authsdk.TokenResponse	"access_token, token_type, expires_in, scope, tenant_id"
//	@Failure		400				{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401				{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		429				{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		500				{object}	authsdk.ErrorResponse	"error, error_description"
//	@Header			200				{string}	Cache-Control			"no-store"
//	@Header			200				{string}	Pragma					"no-cache"
//	@Router			/oauth2/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Ensure the right content-type
	if !httpx.IsFormContentType(r) {
		authsdk.ErrInvalidContentType.WriteError(w)
		return
	}

	// 2. Parse the form body
	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	// An absent grant_type is just another unsupported one.
	grantType := strings.TrimSpace(r.PostForm.Get("grant_type"))

	// 3. Resolve client credentials from Basic auth or the form
	clientID, clientSecret, err := clientCredentials(r)
	if err != nil {
		authsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return
	}

	grant, err := h.TokenService.Grant(ctx, service.GrantRequest{
		GrantType:    grantType,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scope:        r.PostForm.Get("scope"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedGrantType):
			authsdk.ErrUnsupportedGrantType.WriteError(w)
		case errors.Is(err, service.ErrInvalidClient):
			authsdk.ErrInvalidClient.WriteError(w)
		default:
			log.Error("client_credentials grant failed", "client_id", clientID, "error", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken: grant.AccessToken,
		TokenType:   grant.TokenType,
		ExpiresIn:   grant.ExpiresIn,
		Scope:       grant.Scope,
		TenantID:    grant.TenantID,
	})
}

var errMultipleAuthMethods = errors.New("client credentials must be sent with one method only")

// clientCredentials reads client_secret_basic or client_secret_post
// credentials. Basic credentials are form-urlencoded per RFC 6749 2.3.1.
func clientCredentials(r *http.Request) (id, secret string, err error) {
	formID := strings.TrimSpace(r.PostForm.Get("client_id"))
	formSecret := r.PostForm.Get("client_secret")

	basicID, basicSecret, ok := r.BasicAuth()
	if !ok {
		return formID, formSecret, nil
	}
	if formSecret != "" || (formID != "" && formID != basicID) {
		return "", "", errMultipleAuthMethods
	}

	return formUnescape(basicID), formUnescape(basicSecret), nil
}

// formUnescape decodes s, keeping it verbatim when it is not valid encoding.
func formUnescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}
