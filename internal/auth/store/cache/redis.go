// Package cache decorates a store.Store with a redis read-through cache for
// client lookups, the hot path of every token grant.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aussiebroadwan/tenantauth/internal/auth/domain"
	"github.com/aussiebroadwan/tenantauth/internal/auth/store"
	"github.com/aussiebroadwan/tenantauth/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

// Default timeouts for Redis operations.
const (
	DefaultDialTimeout  = 5 * time.Second
	DefaultReadTimeout  = 3 * time.Second
	DefaultWriteTimeout = 3 * time.Second

	DefaultTTL       = 30 * time.Second
	DefaultKeyPrefix = "tenantauth:client:"
)

// Connect parses a redis:// URL, applies the default timeouts and verifies the
// connection.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = DefaultDialTimeout
	opts.ReadTimeout = DefaultReadTimeout
	opts.WriteTimeout = DefaultWriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Store wraps another store and caches LookupByClientID results. Writes through
// Save and Update evict the entry. A lastUsedAt write does not, so a cached
// LastUsedAt may lag by up to the TTL. Redis failures fall back to the wrapped
// store and are only logged.
type Store struct {
	store.Store

	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

// New wraps inner. A non-positive ttl uses DefaultTTL.
func New(inner store.Store, client redis.UniversalClient, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		Store:  inner,
		client: client,
		ttl:    ttl,
		prefix: DefaultKeyPrefix,
	}
}

func (s *Store) Clients() store.Clients {
	return &clients{Clients: s.Store.Clients(), s: s}
}

// PingCache checks redis. Ping is left to the wrapped store since lookups
// fall back to it whenever redis is unavailable.
func (s *Store) PingCache(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	inner, err := s.Store.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &cachedTx{inner: inner, s: s, ctx: context.WithoutCancel(ctx)}, nil
}

// WithTx evicts every client written inside fn again once the transaction
// has committed, so a lookup racing the commit cannot leave the old row cached.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx := &cachedTx{s: s, ctx: context.WithoutCancel(ctx)}
	err := s.Store.WithTx(ctx, func(inner store.Tx) error {
		tx.inner = inner
		return fn(tx)
	})
	if err == nil {
		tx.evictWritten()
	}
	return err
}

// Close closes the wrapped store and the redis client.
func (s *Store) Close() error {
	return errors.Join(s.Store.Close(), s.client.Close())
}

// cachedTx forwards to the driver transaction and remembers which clients it
// wrote so their cache entries can be dropped after commit.
type cachedTx struct {
	inner store.Tx
	s     *Store
	ctx   context.Context

	mu      sync.Mutex
	written []string
}

func (t *cachedTx) Clients() store.Clients {
	return &clients{Clients: t.inner.Clients(), s: t.s, tx: t}
}

func (t *cachedTx) ApplyMigrations() error         { return t.inner.ApplyMigrations() }
func (t *cachedTx) Close() error                   { return t.inner.Close() }
func (t *cachedTx) Ping(ctx context.Context) error { return t.inner.Ping(ctx) }

func (t *cachedTx) Tx(ctx context.Context) (store.Tx, error) { return t.inner.Tx(ctx) }

func (t *cachedTx) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return t.inner.WithTx(ctx, fn)
}

func (t *cachedTx) Commit() error {
	if err := t.inner.Commit(); err != nil {
		return err
	}
	t.evictWritten()
	return nil
}

func (t *cachedTx) Rollback() error {
	t.mu.Lock()
	t.written = nil
	t.mu.Unlock()
	return t.inner.Rollback()
}

func (t *cachedTx) markWritten(clientID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.written = append(t.written, clientID)
}

func (t *cachedTx) evictWritten() {
	t.mu.Lock()
	written := t.written
	t.written = nil
	t.mu.Unlock()

	for _, id := range written {
		t.s.evict(t.ctx, id)
	}
}

type clients struct {
	store.Clients
	s  *Store
	tx *cachedTx // nil outside a transaction
}

// storedClient is the JSON shape kept in redis.
type storedClient struct {
	ID                   string     `json:"id"`
	ClientID             string     `json:"client_id"`
	SecretHash           string     `json:"secret_hash"`
	Name                 string     `json:"name"`
	TenantID             string     `json:"tenant_id"`
	Scopes               []string   `json:"scopes"`
	Status               string     `json:"status"`
	TokenValiditySeconds int        `json:"token_validity_seconds"`
	CreatedAt            time.Time  `json:"created_at"`
	LastUsedAt           *time.Time `json:"last_used_at,omitempty"`
}

func (c *clients) key(clientID string) string { return c.s.prefix + clientID }

func (c *clients) LookupByClientID(ctx context.Context, clientID string) (domain.Client, error) {
	log := slogx.FromContext(ctx)
	key := c.key(clientID)

	data, err := c.s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var sc storedClient
		if err := json.Unmarshal(data, &sc); err == nil {
			return fromStored(sc), nil
		}
		log.Warn("client cache entry unreadable, evicting", "client_id", clientID)
		c.s.evict(ctx, clientID)
	case !errors.Is(err, redis.Nil):
		log.Warn("client cache read failed", "client_id", clientID, "error", err)
	}

	client, err := c.Clients.LookupByClientID(ctx, clientID)
	if err != nil {
		return domain.Client{}, err
	}

	if data, err := json.Marshal(toStored(client)); err == nil {
		if err := c.s.client.Set(ctx, key, data, c.s.ttl).Err(); err != nil {
			log.Warn("client cache write failed", "client_id", clientID, "error", err)
		}
	}
	return client, nil
}

func (c *clients) Save(ctx context.Context, cl domain.Client) (domain.Client, error) {
	saved, err := c.Clients.Save(ctx, cl)
	if err != nil {
		return saved, err
	}
	c.invalidate(ctx, cl.ClientID)
	return saved, nil
}

func (c *clients) Update(ctx context.Context, cl domain.Client) (domain.Client, error) {
	updated, err := c.Clients.Update(ctx, cl)
	c.invalidate(ctx, cl.ClientID)
	return updated, err
}

// invalidate drops the entry now and, inside a transaction, again after commit.
func (c *clients) invalidate(ctx context.Context, clientID string) {
	c.s.evict(ctx, clientID)
	if c.tx != nil {
		c.tx.markWritten(clientID)
	}
}

func (s *Store) evict(ctx context.Context, clientID string) {
	if err := s.client.Del(ctx, s.prefix+clientID).Err(); err != nil {
		slogx.FromContext(ctx).Warn("client cache evict failed", "client_id", clientID, "error", err)
	}
}

func toStored(c domain.Client) storedClient {
	return storedClient{
		ID:                   c.ID,
		ClientID:             c.ClientID,
		SecretHash:           c.SecretHash,
		Name:                 c.Name,
		TenantID:             c.TenantID,
		Scopes:               c.Scopes,
		Status:               string(c.Status),
		TokenValiditySeconds: c.TokenValiditySeconds,
		CreatedAt:            c.CreatedAt,
		LastUsedAt:           c.LastUsedAt,
	}
}

func fromStored(sc storedClient) domain.Client {
	return domain.Client{
		ID:                   sc.ID,
		ClientID:             sc.ClientID,
		SecretHash:           sc.SecretHash,
		Name:                 sc.Name,
		TenantID:             sc.TenantID,
		Scopes:               sc.Scopes,
		Status:               domain.ClientStatus(sc.Status),
		TokenValiditySeconds: sc.TokenValiditySeconds,
		CreatedAt:            sc.CreatedAt,
		LastUsedAt:           sc.LastUsedAt,
	}
}
