package routecache

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/waypoint/pkg/db"
)

const (
	DefaultPostgresTable = "route_cache"
	DefaultPostgresKey   = "default"
)

// PostgresStore keeps the table as one row of a key/payload table.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
	key   string
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithPostgresTable overrides DefaultPostgresTable.
func WithPostgresTable(name string) PostgresOption {
	return func(s *PostgresStore) {
		if name != "" {
			s.table = name
		}
	}
}

// WithPostgresKey selects the row key, letting several applications share
// one table.
func WithPostgresKey(key string) PostgresOption {
	return func(s *PostgresStore) {
		if key != "" {
			s.key = key
		}
	}
}

// NewPostgresStore creates a store backed by pool.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{pool: pool, table: DefaultPostgresTable, key: DefaultPostgresKey}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PostgresStore) ident() string {
	return pgx.Identifier{s.table}.Sanitize()
}

// EnsureSchema creates the cache table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key        TEXT PRIMARY KEY,
		version    INTEGER NOT NULL,
		payload    BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, s.ident())
	if _, err := s.pool.Exec(ctx, q); err != nil {
		return fmt.Errorf("routecache: create table %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (*Table, error) {
	q := fmt.Sprintf(`SELECT payload FROM %s WHERE key = $1`, s.ident())

	var payload []byte
	if err := s.pool.QueryRow(ctx, q, s.key).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || undefinedTable(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("routecache: select %s: %w", s.table, err)
	}
	return Decode(payload)
}

// Save creates the table when needed and upserts the row in one transaction.
func (s *PostgresStore) Save(ctx context.Context, t *Table) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}

	q := fmt.Sprintf(`INSERT INTO %s (key, version, payload, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (key) DO UPDATE
		SET version = EXCLUDED.version, payload = EXCLUDED.payload, updated_at = now()`, s.ident())

	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, q, s.key, t.Version, data); err != nil {
			return fmt.Errorf("routecache: upsert %s: %w", s.table, err)
		}
		return nil
	})
}

func (s *PostgresStore) Delete(ctx context.Context) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.ident())
	if _, err := s.pool.Exec(ctx, q, s.key); err != nil {
		if undefinedTable(err) {
			return nil
		}
		return fmt.Errorf("routecache: delete from %s: %w", s.table, err)
	}
	return nil
}

// undefinedTable reports whether err means the cache table was never created.
func undefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}
