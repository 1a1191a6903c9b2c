package http

import (
	"net/http"

	"github.com/aussiebroadwan/tenantauth/internal/auth/service"
	"github.com/aussiebroadwan/tenantauth/pkg/authsdk"
	"github.com/aussiebroadwan/tenantauth/pkg/httpx"
)

// IntrospectHandler serves POST /oauth2/introspect. It always answers 200;
// anything wrong with the request or the token reads as inactive.
type IntrospectHandler struct {
	IntrospectionService *service.IntrospectionService
}

// ServeHTTP godoc
//
//	@Summary		OAuth2 Token Introspection Endpoint
//	@Description	Reports whether a token is active and, if so, its claims (RFC 7662).
//	@Description	Invalid, expired or foreign tokens yield {"active": false}.
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			token	formData	string							true	"The token to introspect"
//	@Success		200		{object}	authsdk.IntrospectionResponse	"Token introspection result"
//	@Header			200		{string}	Cache-Control					"no-store"
//	@Router			/oauth2/introspect [post].
func (h *IntrospectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !httpx.IsFormContentType(r) || r.ParseForm() != nil {
		writeInactiveResponse(w)
		return
	}

	res := h.IntrospectionService.Introspect(r.Context(), r.PostForm.Get("token"))
	if !res.Active {
		writeInactiveResponse(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.IntrospectionResponse{
		Active:    true,
		ClientID:  res.ClientID,
		TenantID:  res.TenantID,
		Scope:     res.Scope,
		TokenType: res.TokenType,
		Exp:       res.Exp,
		Iat:       res.Iat,
		Iss:       res.Iss,
		Sub:       res.Sub,
	})
}

// writeInactiveResponse writes the minimal RFC 7662 body for inactive tokens.
func writeInactiveResponse(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"active":false}`))
}
