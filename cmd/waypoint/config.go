package main

import (
	"time"

	"github.com/dmitrymomot/waypoint/pkg/logger"
)

// Route cache drivers.
const (
	cacheNone     = "none"
	cacheFile     = "file"
	cacheRedis    = "redis"
	cachePostgres = "postgres"
)

type config struct {
	Name            string        `env:"APP_NAME" envDefault:"waypoint"`
	Address         string        `env:"APP_ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	APIToken        string        `env:"APP_API_TOKEN"`

	// RoutesDir overrides the embedded route files.
	RoutesDir  string `env:"ROUTES_DIR"`
	RoutesGlob string `env:"ROUTES_GLOB" envDefault:"**/*.yaml"`

	CacheDriver string `env:"ROUTE_CACHE_DRIVER" envDefault:"file"`
	CacheFile   string `env:"ROUTE_CACHE_FILE" envDefault:"bootstrap/cache/routes.yaml"`

	Log logger.Config
}
