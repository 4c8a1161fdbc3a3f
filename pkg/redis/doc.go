// Package redis opens go-redis clients for the Redis route cache store.
//
// [Open] validates the URL, applies pool settings and pings the server,
// retrying with a growing delay. [Connect] does the same from an
// environment-loaded [Config]:
//
//	REDIS_URL              - redis:// or rediss:// URL (required)
//	REDIS_ROUTE_CACHE_KEY  - key holding the route table (default: waypoint:routes)
//	REDIS_ROUTE_CACHE_TTL  - table expiry, 0 keeps it (default: 0s)
//	REDIS_POOL_SIZE        - maximum connections (default: 4)
//	REDIS_RETRY_ATTEMPTS   - connection attempts (default: 3)
//	REDIS_RETRY_INTERVAL   - base retry interval (default: 2s)
//
// Usage:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store := routecache.NewRedisStore(client, routecache.WithRedisKey(cfg.Key))
//
// [Healthcheck] and [Shutdown] plug the client into readiness probes and
// shutdown hooks.
package redis
