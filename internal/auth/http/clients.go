package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenantauth/internal/auth/domain"
	"github.com/aussiebroadwan/tenantauth/internal/auth/service"
	"github.com/aussiebroadwan/tenantauth/pkg/authsdk"
	"github.com/aussiebroadwan/tenantauth/pkg/httpx"
	"github.com/aussiebroadwan/tenantauth/pkg/slogx"
)

// ClientsHandler handles the client registration API.
type ClientsHandler struct {
	ClientService *service.ClientService
}

// HandleRegister handles POST /api/clients
//
//	@Summary		Register Client
//	@Description	Registers a machine client. client_id and client_secret are generated when omitted.
//	@Description	The plaintext secret is only ever returned by this call.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		authsdk.RegisterClientRequest	true	"Client registration request"
//	@Success		201		{object}	authsdk.ClientInfo				"The registered client including its secret"
//	@Failure		400		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		409		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Router			/api/clients [post].
func (h *ClientsHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterClientRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WithDescription("invalid JSON in request body").WriteError(w)
		return
	}

	reg, err := h.ClientService.Register(r.Context(), service.RegisterRequest{
		ClientID:             req.ClientID,
		ClientSecret:         req.ClientSecret,
		Name:                 req.Name,
		TenantID:             req.TenantID,
		Scopes:               req.Scopes,
		TokenValiditySeconds: req.TokenValiditySeconds,
	})
	if err != nil {
		writeClientError(w, r, "register client", err)
		return
	}

	info := toClientInfo(reg.Client)
	info.ClientSecret = reg.Secret
	httpx.WriteJSON(w, http.StatusCreated, info)
}

// HandleList handles GET /api/clients
//
//	@Summary		List Clients
//	@Description	Lists registered clients, newest first. Secrets are masked.
//	@Tags			Clients
//	@Produce		json
//	@Security		BearerAuth
//	@Param			tenant_id	query		string						false	"Only clients of this tenant"
//	@Param			status		query		string						false	"Only clients with this status"	Enums(ACTIVE, SUSPENDED, DEPRECATED)
//	@Success		200			{object}	authsdk.ListClientsResponse	"List of clients"
//	@Failure		400			{object}	authsdk.ErrorResponse		"error, error_description"
//	@Failure		401			{object}	authsdk.ErrorResponse		"error, error_description"
//	@Failure		403			{object}	authsdk.ErrorResponse		"error, error_description"
//	@Failure		500			{object}	authsdk.ErrorResponse		"error, error_description"
//	@Router			/api/clients [get].
func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.ListFilter{TenantID: strings.TrimSpace(q.Get("tenant_id"))}

	if raw := q.Get("status"); raw != "" {
		st, err := domain.ParseClientStatus(raw)
		if err != nil {
			authsdk.ErrInvalidRequest.WithDescription("unknown status filter").WriteError(w)
			return
		}
		filter.Status = st
	}

	clients, err := h.ClientService.List(r.Context(), filter)
	if err != nil {
		writeClientError(w, r, "list clients", err)
		return
	}

	resp := authsdk.ListClientsResponse{
		Clients:    make([]authsdk.ClientInfo, len(clients)),
		TotalCount: len(clients),
	}
	for i, c := range clients {
		resp.Clients[i] = toClientInfo(c)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /api/clients/{clientId}
//
//	@Summary		Get Client
//	@Tags			Clients
//	@Produce		json
//	@Security		BearerAuth
//	@Param			clientId	path		string					true	"Client ID"
//	@Success		200			{object}	authsdk.ClientInfo		"The client, secret masked"
//	@Failure		401			{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		403			{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		404			{object}	authsdk.ErrorResponse	"error, error_description"
//	@Router			/api/clients/{clientId} [get].
func (h *ClientsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.ClientService.Get(r.Context(), r.PathValue("clientId"))
	if err != nil {
		writeClientError(w, r, "get client", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toClientInfo(c))
}

// HandleUpdate handles PUT /api/clients/{clientId}
//
//	@Summary		Update Client
//	@Description	Changes name, scopes, status or token validity. Omitted fields are unchanged.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			clientId	path		string						true	"Client ID"
//	@Param			request		body		authsdk.UpdateClientRequest	true	"Fields to change"
//	@Success		200			{object}	authsdk.ClientInfo			"The updated client, secret masked"
//	@Failure		400			{object}	authsdk.ErrorResponse		"error, error_description"
//	@Failure		401			{object}	authsdk.ErrorResponse		"error, error_description"
//	@Failure		403			{object}	authsdk.ErrorResponse		"error, error_description"
//	@Failure		404			{object}	authsdk.ErrorResponse		"error, error_description"
//	@Router			/api/clients/{clientId} [put].
func (h *ClientsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req authsdk.UpdateClientRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WithDescription("invalid JSON in request body").WriteError(w)
		return
	}

	upd := service.UpdateRequest{
		Name:                 req.Name,
		Scopes:               req.Scopes,
		TokenValiditySeconds: req.TokenValiditySeconds,
	}
	if req.Status != nil {
		st, err := domain.ParseClientStatus(*req.Status)
		if err != nil {
			authsdk.ErrInvalidRequest.WithDescription("unknown status").WriteError(w)
			return
		}
		upd.Status = &st
	}

	c, err := h.ClientService.Update(r.Context(), r.PathValue("clientId"), upd)
	if err != nil {
		writeClientError(w, r, "update client", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toClientInfo(c))
}

// HandleDeactivate handles DELETE /api/clients/{clientId}
//
//	@Summary		Deactivate Client
//	@Description	Marks the client DEPRECATED. It is never physically deleted and can no longer obtain tokens.
//	@Tags			Clients
//	@Security		BearerAuth
//	@Param			clientId	path	string	true	"Client ID"
//	@Success		204			"Client deactivated"
//	@Failure		401			{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		403			{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		404			{object}	authsdk.ErrorResponse	"error, error_description"
//	@Router			/api/clients/{clientId} [delete].
func (h *ClientsHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.ClientService.Deactivate(r.Context(), r.PathValue("clientId")); err != nil {
		writeClientError(w, r, "deactivate client", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeClientError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrClientNotFound):
		authsdk.ErrClientNotFound.WriteError(w)
	case errors.Is(err, service.ErrClientExists):
		authsdk.ErrClientExists.WriteError(w)
	case errors.Is(err, service.ErrInvalidInput):
		authsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("failed to "+op, "client_id", r.PathValue("clientId"), "error", err)
		authsdk.ErrServerError.WriteError(w)
	}
}

func toClientInfo(c domain.Client) authsdk.ClientInfo {
	info := authsdk.ClientInfo{
		ClientID:             c.ClientID,
		ClientSecret:         domain.MaskedSecret,
		Name:                 c.Name,
		TenantID:             c.TenantID,
		Scopes:               c.Scopes,
		Status:               c.Status.String(),
		TokenValiditySeconds: c.TokenValiditySeconds,
		CreatedAt:            c.CreatedAt.UTC().Format(time.RFC3339),
	}
	if info.Scopes == nil {
		info.Scopes = []string{}
	}
	if c.LastUsedAt != nil {
		s := c.LastUsedAt.UTC().Format(time.RFC3339)
		info.LastUsedAt = &s
	}
	return info
}
