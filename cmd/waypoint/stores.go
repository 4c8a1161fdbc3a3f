package main

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/waypoint"
	"github.com/dmitrymomot/waypoint/pkg/db"
	"github.com/dmitrymomot/waypoint/pkg/redis"
	"github.com/dmitrymomot/waypoint/pkg/routecache"
)

// cacheStore is the route cache selected by ROUTE_CACHE_DRIVER, plus its
// readiness check and cleanup.
type cacheStore struct {
	store    routecache.Store
	check    func(context.Context) error
	shutdown func(context.Context) error
}

func openCacheStore(ctx context.Context, cfg config) (*cacheStore, error) {
	switch cfg.CacheDriver {
	case cacheNone, "":
		return &cacheStore{}, nil

	case cacheFile:
		return &cacheStore{store: routecache.NewFileStore(cfg.CacheFile)}, nil

	case cacheRedis:
		rcfg, err := env.ParseAs[redis.Config]()
		if err != nil {
			return nil, fmt.Errorf("redis config: %w", err)
		}
		client, err := redis.Connect(ctx, rcfg)
		if err != nil {
			return nil, err
		}
		return &cacheStore{
			store: routecache.NewRedisStore(client,
				routecache.WithRedisKey(rcfg.Key),
				routecache.WithRedisTTL(rcfg.TTL),
			),
			check:    redis.Healthcheck(client),
			shutdown: redis.Shutdown(client),
		}, nil

	case cachePostgres:
		pcfg, err := env.ParseAs[db.Config]()
		if err != nil {
			return nil, fmt.Errorf("database config: %w", err)
		}
		pool, err := db.Connect(ctx, pcfg)
		if err != nil {
			return nil, err
		}
		return &cacheStore{
			store:    routecache.NewPostgresStore(pool, routecache.WithPostgresTable(pcfg.RouteCacheTable)),
			check:    db.Healthcheck(pool),
			shutdown: db.Shutdown(pool),
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown route cache driver %q", waypoint.ErrInvalidConfiguration, cfg.CacheDriver)
	}
}

func (s *cacheStore) options() []waypoint.Option {
	if s.store == nil {
		return nil
	}
	return []waypoint.Option{waypoint.WithRouteCache(s.store)}
}

func (s *cacheStore) healthChecks() []waypoint.HealthOption {
	if s.check == nil {
		return nil
	}
	return []waypoint.HealthOption{waypoint.WithReadinessCheck("route_cache", s.check)}
}

func (s *cacheStore) close(ctx context.Context) error {
	if s.shutdown == nil {
		return nil
	}
	return s.shutdown(ctx)
}
