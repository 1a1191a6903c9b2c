package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenantauth/internal/auth/domain"
	"github.com/aussiebroadwan/tenantauth/internal/auth/store"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type clientsRepo struct {
	q *Queries
}

func (r *clientsRepo) LookupByClientID(ctx context.Context, clientID string) (domain.Client, error) {
	row, err := r.q.GetClientByClientID(ctx, clientID)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return mapClient(row), nil
}

func (r *clientsRepo) ExistsByClientID(ctx context.Context, clientID string) (bool, error) {
	return r.q.ClientExists(ctx, clientID)
}

func (r *clientsRepo) Save(ctx context.Context, c domain.Client) (domain.Client, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.Status == "" {
		c.Status = domain.ClientStatusActive
	}

	if err := r.q.CreateClient(ctx, toRow(c)); err != nil {
		if isUniqueViolation(err) {
			return domain.Client{}, store.ErrAlreadyExists
		}
		return domain.Client{}, fmt.Errorf("insert client: %w", err)
	}
	return c, nil
}

func (r *clientsRepo) UpdateLastUsedAt(ctx context.Context, clientID string, at time.Time) error {
	n, err := r.q.UpdateClientLastUsedAt(ctx, at.UTC(), clientID)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *clientsRepo) Update(ctx context.Context, c domain.Client) (domain.Client, error) {
	n, err := r.q.UpdateClient(ctx, toRow(c))
	if err != nil {
		return domain.Client{}, err
	}
	if n == 0 {
		return domain.Client{}, store.ErrNotFound
	}
	return r.LookupByClientID(ctx, c.ClientID)
}

func (r *clientsRepo) List(ctx context.Context) ([]domain.Client, error) {
	return mapClients(r.q.ListClients(ctx))
}

func (r *clientsRepo) ListByTenant(ctx context.Context, tenantID string) ([]domain.Client, error) {
	return mapClients(r.q.ListClientsByTenant(ctx, tenantID))
}

func (r *clientsRepo) ListByStatus(ctx context.Context, status domain.ClientStatus) ([]domain.Client, error) {
	return mapClients(r.q.ListClientsByStatus(ctx, string(status)))
}

func (r *clientsRepo) Count(ctx context.Context) (int, error) {
	n, err := r.q.CountClients(ctx)
	return int(n), err
}

func (r *clientsRepo) CountByStatus(ctx context.Context) (map[domain.ClientStatus]int, error) {
	raw, err := r.q.CountClientsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[domain.ClientStatus]int, len(raw))
	for status, n := range raw {
		out[domain.ClientStatus(status)] = int(n)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

func mapClients(rows []clientRow, err error) ([]domain.Client, error) {
	if err != nil {
		return nil, err
	}
	clients := make([]domain.Client, len(rows))
	for i, row := range rows {
		clients[i] = mapClient(row)
	}
	return clients, nil
}

func mapClient(row clientRow) domain.Client {
	return domain.Client{
		ID:                   row.ID,
		ClientID:             row.ClientID,
		SecretHash:           row.SecretHash,
		Name:                 row.Name,
		TenantID:             row.TenantID,
		Scopes:               splitScopes(row.Scopes),
		Status:               domain.ClientStatus(row.Status),
		TokenValiditySeconds: int(row.TokenValiditySeconds),
		CreatedAt:            row.CreatedAt.UTC(),
		LastUsedAt:           mapNullTimePtr(row.LastUsedAt),
	}
}

func toRow(c domain.Client) clientRow {
	return clientRow{
		ID:                   c.ID,
		ClientID:             c.ClientID,
		SecretHash:           c.SecretHash,
		Name:                 c.Name,
		TenantID:             c.TenantID,
		Scopes:               strings.Join(c.Scopes, ","),
		Status:               string(c.Status),
		TokenValiditySeconds: int64(c.TokenValiditySeconds),
		CreatedAt:            c.CreatedAt.UTC(),
		LastUsedAt:           mapOptionalTime(c.LastUsedAt),
	}
}

// splitScopes keeps stored order and drops empty entries.
func splitScopes(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time.UTC()
		return &val
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
