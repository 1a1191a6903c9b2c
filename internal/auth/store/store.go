package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/tenantauth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement it and hand out sub-repositories, so a repository obtained from a
// Tx cannot accidentally start a nested transaction.
type Store interface {
	Clients() Clients

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Clients is the durable record of registered clients. Lookups are by the
// public client id, which the store keeps unique.
type Clients interface {
	// LookupByClientID returns ErrNotFound when no client has that id.
	LookupByClientID(ctx context.Context, clientID string) (domain.Client, error)

	ExistsByClientID(ctx context.Context, clientID string) (bool, error)

	// Save inserts a new client and returns it as stored. A taken client id
	// yields ErrAlreadyExists.
	Save(ctx context.Context, c domain.Client) (domain.Client, error)

	// UpdateLastUsedAt records a successful grant. Callers treat failures as
	// non-fatal.
	UpdateLastUsedAt(ctx context.Context, clientID string, at time.Time) error

	// Update writes the mutable fields (name, scopes, status, token validity,
	// secret hash) of an existing client. ErrNotFound if it does not exist.
	Update(ctx context.Context, c domain.Client) (domain.Client, error)

	// List returns all clients, newest first.
	List(ctx context.Context) ([]domain.Client, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Client, error)
	ListByStatus(ctx context.Context, status domain.ClientStatus) ([]domain.Client, error)

	Count(ctx context.Context) (int, error)

	// CountByStatus returns the number of clients per status. Statuses with no
	// clients are absent.
	CountByStatus(ctx context.Context) (map[domain.ClientStatus]int, error)
}
