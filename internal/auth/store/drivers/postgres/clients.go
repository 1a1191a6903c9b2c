package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenantauth/internal/auth/domain"
	"github.com/aussiebroadwan/tenantauth/internal/auth/store"
	"github.com/jackc/pgx/v5"
)

const clientColumns = `id, client_id, secret_hash, name, tenant_id, scopes, status,
	token_validity_seconds, created_at, last_used_at`

const listOrder = ` ORDER BY created_at DESC, id DESC`

type clientsRepo struct {
	q querier
}

func scanClient(row pgx.Row) (domain.Client, error) {
	var (
		c        domain.Client
		scopes   string
		status   string
		validity int32
	)
	err := row.Scan(
		&c.ID,
		&c.ClientID,
		&c.SecretHash,
		&c.Name,
		&c.TenantID,
		&scopes,
		&status,
		&validity,
		&c.CreatedAt,
		&c.LastUsedAt,
	)
	if err != nil {
		return domain.Client{}, err
	}

	c.Scopes = splitScopes(scopes)
	c.Status = domain.ClientStatus(status)
	c.TokenValiditySeconds = int(validity)
	c.CreatedAt = c.CreatedAt.UTC()
	if c.LastUsedAt != nil {
		t := c.LastUsedAt.UTC()
		c.LastUsedAt = &t
	}
	return c, nil
}

func (r *clientsRepo) LookupByClientID(ctx context.Context, clientID string) (domain.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE client_id = $1`, clientID))
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return c, nil
}

func (r *clientsRepo) ExistsByClientID(ctx context.Context, clientID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM clients WHERE client_id = $1)`, clientID).Scan(&exists)
	return exists, err
}

func (r *clientsRepo) Save(ctx context.Context, c domain.Client) (domain.Client, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.Status == "" {
		c.Status = domain.ClientStatusActive
	}

	_, err := r.q.Exec(ctx,
		`INSERT INTO clients (`+clientColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID,
		c.ClientID,
		c.SecretHash,
		c.Name,
		c.TenantID,
		strings.Join(c.Scopes, ","),
		string(c.Status),
		c.TokenValiditySeconds,
		c.CreatedAt.UTC(),
		c.LastUsedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Client{}, store.ErrAlreadyExists
		}
		return domain.Client{}, fmt.Errorf("insert client: %w", err)
	}
	return c, nil
}

func (r *clientsRepo) UpdateLastUsedAt(ctx context.Context, clientID string, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE clients SET last_used_at = $1 WHERE client_id = $2`, at.UTC(), clientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *clientsRepo) Update(ctx context.Context, c domain.Client) (domain.Client, error) {
	updated, err := scanClient(r.q.QueryRow(ctx,
		`UPDATE clients
		 SET name = $1, secret_hash = $2, scopes = $3, status = $4, token_validity_seconds = $5
		 WHERE client_id = $6
		 RETURNING `+clientColumns,
		c.Name,
		c.SecretHash,
		strings.Join(c.Scopes, ","),
		string(c.Status),
		c.TokenValiditySeconds,
		c.ClientID,
	))
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return updated, nil
}

func (r *clientsRepo) List(ctx context.Context) ([]domain.Client, error) {
	return r.list(ctx, `SELECT `+clientColumns+` FROM clients`+listOrder)
}

func (r *clientsRepo) ListByTenant(ctx context.Context, tenantID string) ([]domain.Client, error) {
	return r.list(ctx, `SELECT `+clientColumns+` FROM clients WHERE tenant_id = $1`+listOrder, tenantID)
}

func (r *clientsRepo) ListByStatus(ctx context.Context, status domain.ClientStatus) ([]domain.Client, error) {
	return r.list(ctx, `SELECT `+clientColumns+` FROM clients WHERE status = $1`+listOrder, string(status))
}

func (r *clientsRepo) list(ctx context.Context, query string, args ...any) ([]domain.Client, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *clientsRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n)
	return n, err
}

func (r *clientsRepo) CountByStatus(ctx context.Context) (map[domain.ClientStatus]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM clients GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[domain.ClientStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[domain.ClientStatus(status)] = n
	}
	return out, rows.Err()
}

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
