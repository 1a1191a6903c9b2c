package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenantauth/internal/auth/service"
	"github.com/aussiebroadwan/tenantauth/pkg/authsdk"
	"github.com/aussiebroadwan/tenantauth/pkg/httpx"
	"github.com/aussiebroadwan/tenantauth/pkg/slogx"
)

const applicationName = "tenantauth"

// HealthHandler godoc
//
//	@Summary		Service Health
//	@Description	Reports the service and database state and the number of registered clients.
//	@Description	Always 200; a database failure shows up as database DOWN.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.ServiceHealthResponse	"status, database, total_clients"
//	@Router			/api/health [get].
func HealthHandler(version string, clients *service.ClientService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := authsdk.ServiceHealthResponse{
			Status:      "UP",
			Application: applicationName,
			Version:     version,
			Timestamp:   time.Now().UnixMilli(),
			Database:    "UP",
		}

		n, err := clients.Count(r.Context())
		if err != nil {
			slogx.FromContext(r.Context()).Warn("health: count clients failed", "error", err)
			resp.Database = "DOWN"
			resp.DatabaseError = "database unavailable"
		} else {
			resp.TotalClients = &n
		}

		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}

// InfoHandler godoc
//
//	@Summary		Service Info
//	@Description	Returns the service name, version, issuer and endpoint map.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.InfoResponse	"application, version, issuer, endpoints"
//	@Router			/api/info [get].
func InfoHandler(version, issuer string) http.HandlerFunc {
	base := strings.TrimRight(issuer, "/")
	resp := authsdk.InfoResponse{
		Application: applicationName,
		Version:     version,
		Issuer:      issuer,
		Endpoints: map[string]string{
			"token":      base + tokenPath,
			"introspect": base + introspectPath,
			"jwks":       base + jwksPath,
			"metadata":   base + metadataPath,
			"clients":    base + "/api/clients",
			"health":     base + "/api/health",
		},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}
