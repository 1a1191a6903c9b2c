package authsdk

import (
	"context"
	"net/http"
)

func (c *SDKClient) getJSON(ctx context.Context, path string, target any) error {
	return c.send(ctx, apiCall{method: http.MethodGet, path: path, out: target})
}

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.getJSON(ctx, "/livez", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks if the service is ready.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.getJSON(ctx, "/readyz", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetHealth returns the service health report including the client count.
func (c *SDKClient) GetHealth(ctx context.Context) (*ServiceHealthResponse, error) {
	var health ServiceHealthResponse
	if err := c.getJSON(ctx, "/api/health", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetInfo returns the service name, version, issuer and endpoint map.
func (c *SDKClient) GetInfo(ctx context.Context) (*InfoResponse, error) {
	var info InfoResponse
	if err := c.getJSON(ctx, "/api/info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}
