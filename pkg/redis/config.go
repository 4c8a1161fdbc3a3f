package redis

import "time"

// Config holds Redis settings for the route cache, populated from the environment.
type Config struct {
	URL           string        `env:"REDIS_URL,required"`
	Key           string        `env:"REDIS_ROUTE_CACHE_KEY" envDefault:"waypoint:routes"`
	TTL           time.Duration `env:"REDIS_ROUTE_CACHE_TTL" envDefault:"0s"`
	PoolSize      int           `env:"REDIS_POOL_SIZE" envDefault:"4"`
	RetryAttempts int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
}

// Options converts the config into Open options.
func (c Config) Options() []Option {
	opts := []Option{WithRetry(c.RetryAttempts, c.RetryInterval)}
	if c.PoolSize > 0 {
		opts = append(opts, WithPoolSize(c.PoolSize), WithMinIdleConns(min(c.PoolSize, 1)))
	}
	return opts
}
