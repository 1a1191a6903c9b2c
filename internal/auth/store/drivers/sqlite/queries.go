package sqlite

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func newQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

// clientRow mirrors a row of the clients table.
type clientRow struct {
	ID                   string
	ClientID             string
	SecretHash           string
	Name                 string
	TenantID             string
	Scopes               string
	Status               string
	TokenValiditySeconds int64
	CreatedAt            time.Time
	LastUsedAt           sql.NullTime
}

const clientColumns = `id, client_id, secret_hash, name, tenant_id, scopes, status,
	token_validity_seconds, created_at, last_used_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(s rowScanner) (clientRow, error) {
	var r clientRow
	err := s.Scan(
		&r.ID,
		&r.ClientID,
		&r.SecretHash,
		&r.Name,
		&r.TenantID,
		&r.Scopes,
		&r.Status,
		&r.TokenValiditySeconds,
		&r.CreatedAt,
		&r.LastUsedAt,
	)
	return r, err
}

const getClientByClientID = `SELECT ` + clientColumns + ` FROM clients WHERE client_id = ?`

func (q *Queries) GetClientByClientID(ctx context.Context, clientID string) (clientRow, error) {
	return scanClient(q.db.QueryRowContext(ctx, getClientByClientID, clientID))
}

const clientExists = `SELECT EXISTS (SELECT 1 FROM clients WHERE client_id = ?)`

func (q *Queries) ClientExists(ctx context.Context, clientID string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, clientExists, clientID).Scan(&exists)
	return exists, err
}

const createClient = `INSERT INTO clients (` + clientColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateClient(ctx context.Context, r clientRow) error {
	_, err := q.db.ExecContext(ctx, createClient,
		r.ID,
		r.ClientID,
		r.SecretHash,
		r.Name,
		r.TenantID,
		r.Scopes,
		r.Status,
		r.TokenValiditySeconds,
		r.CreatedAt,
		r.LastUsedAt,
	)
	return err
}

const updateClientLastUsedAt = `UPDATE clients SET last_used_at = ? WHERE client_id = ?`

func (q *Queries) UpdateClientLastUsedAt(ctx context.Context, at time.Time, clientID string) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateClientLastUsedAt, at, clientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const updateClient = `UPDATE clients
SET name = ?, secret_hash = ?, scopes = ?, status = ?, token_validity_seconds = ?
WHERE client_id = ?`

func (q *Queries) UpdateClient(ctx context.Context, r clientRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateClient,
		r.Name,
		r.SecretHash,
		r.Scopes,
		r.Status,
		r.TokenValiditySeconds,
		r.ClientID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listClientsOrder = ` ORDER BY created_at DESC, id DESC`

const listClients = `SELECT ` + clientColumns + ` FROM clients` + listClientsOrder

const listClientsByTenant = `SELECT ` + clientColumns + ` FROM clients WHERE tenant_id = ?` + listClientsOrder

const listClientsByStatus = `SELECT ` + clientColumns + ` FROM clients WHERE status = ?` + listClientsOrder

func (q *Queries) ListClients(ctx context.Context) ([]clientRow, error) {
	return q.listClients(ctx, listClients)
}

func (q *Queries) ListClientsByTenant(ctx context.Context, tenantID string) ([]clientRow, error) {
	return q.listClients(ctx, listClientsByTenant, tenantID)
}

func (q *Queries) ListClientsByStatus(ctx context.Context, status string) ([]clientRow, error) {
	return q.listClients(ctx, listClientsByStatus, status)
}

func (q *Queries) listClients(ctx context.Context, query string, args ...any) ([]clientRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []clientRow
	for rows.Next() {
		r, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countClients = `SELECT COUNT(*) FROM clients`

func (q *Queries) CountClients(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countClients).Scan(&n)
	return n, err
}

const countClientsByStatus = `SELECT status, COUNT(*) FROM clients GROUP BY status`

func (q *Queries) CountClientsByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := q.db.QueryContext(ctx, countClientsByStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}
