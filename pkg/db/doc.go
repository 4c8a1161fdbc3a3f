// Package db provides PostgreSQL connection helpers built on
// [github.com/jackc/pgx/v5/pgxpool].
//
// It backs the Postgres route cache store: [Connect] opens a pool with
// retry, [Healthcheck] exposes it to readiness probes, [WithTx] wraps
// writes in a transaction and [Shutdown] closes the pool on exit.
//
// # Configuration
//
// [Config] is loaded from environment variables:
//
//	DATABASE_CONN_URL            - PostgreSQL connection URL (required)
//	DATABASE_ROUTE_CACHE_TABLE   - Route cache table (default: route_cache)
//	DATABASE_MAX_OPEN_CONNS      - Maximum open connections (default: 4)
//	DATABASE_MIN_CONNS           - Minimum idle connections (default: 1)
//	DATABASE_HEALTHCHECK_PERIOD  - Health check interval (default: 1m)
//	DATABASE_MAX_CONN_IDLE_TIME  - Maximum connection idle time (default: 10m)
//	DATABASE_MAX_CONN_LIFETIME   - Maximum connection lifetime (default: 30m)
//	DATABASE_RETRY_ATTEMPTS      - Connection retry attempts (default: 3)
//	DATABASE_RETRY_INTERVAL      - Base retry interval (default: 5s)
//
// # Usage
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store := routecache.NewPostgresStore(pool, routecache.WithPostgresTable(cfg.RouteCacheTable))
//
// # Transactions
//
//	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//		_, err := tx.Exec(ctx, "DELETE FROM route_cache")
//		return err
//	})
//
// Errors are wrapped using [errors.Join] so [ErrFailedToParseDBConfig],
// [ErrFailedToOpenDBConnection] and [ErrHealthcheckFailed] can be matched
// with [errors.Is].
package db
