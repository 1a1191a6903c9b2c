package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Scopes guarding the registration API.
const (
	ScopeClientsRead  = "clients:read"
	ScopeClientsWrite = "clients:write"
)

func clientPath(clientID string) string {
	return "/api/clients/" + url.PathEscape(clientID)
}

// RegisterClient registers a new client. The returned ClientSecret is the
// plaintext secret and is not retrievable again.
// Requires: clients:write
func (s *Session) RegisterClient(ctx context.Context, req RegisterClientRequest) (*ClientInfo, error) {
	var info ClientInfo
	err := s.send(ctx, apiCall{
		method: http.MethodPost,
		path:   "/api/clients",
		body:   req,
		status: http.StatusCreated,
		out:    &info,
	}, ScopeClientsWrite)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// ListClientsFilter narrows ListClients. Empty fields are ignored.
type ListClientsFilter struct {
	TenantID string
	Status   string
}

func (f ListClientsFilter) values() url.Values {
	q := url.Values{}
	if f.TenantID != "" {
		q.Set("tenant_id", f.TenantID)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	return q
}

// ListClients returns registered clients with masked secrets.
// Requires: clients:read or clients:write
func (s *Session) ListClients(ctx context.Context, filter ListClientsFilter) (*ListClientsResponse, error) {
	var out ListClientsResponse
	err := s.send(ctx, apiCall{
		method: http.MethodGet,
		path:   "/api/clients",
		query:  filter.values(),
		out:    &out,
	}, ScopeClientsRead, ScopeClientsWrite)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetClient returns one client by client id.
// Requires: clients:read or clients:write
func (s *Session) GetClient(ctx context.Context, clientID string) (*ClientInfo, error) {
	var info ClientInfo
	err := s.send(ctx, apiCall{method: http.MethodGet, path: clientPath(clientID), out: &info},
		ScopeClientsRead, ScopeClientsWrite)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// UpdateClient changes the mutable fields of a client.
// Requires: clients:write
func (s *Session) UpdateClient(ctx context.Context, clientID string, req UpdateClientRequest) (*ClientInfo, error) {
	var info ClientInfo
	err := s.send(ctx, apiCall{method: http.MethodPut, path: clientPath(clientID), body: req, out: &info},
		ScopeClientsWrite)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// DeactivateClient marks a client DEPRECATED. It can no longer obtain tokens.
// Requires: clients:write
func (s *Session) DeactivateClient(ctx context.Context, clientID string) error {
	return s.send(ctx, apiCall{method: http.MethodDelete, path: clientPath(clientID), status: http.StatusNoContent},
		ScopeClientsWrite)
}
