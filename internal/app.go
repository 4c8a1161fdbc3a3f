package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/waypoint/pkg/health"
	"github.com/dmitrymomot/waypoint/pkg/logger"
	"github.com/dmitrymomot/waypoint/pkg/routecache"
	"github.com/dmitrymomot/waypoint/pkg/routefile"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
	defaultBootTimeout       = 10 * time.Second
)

// Route table sources reported by App.Source.
const (
	SourceCache       = "cache"
	SourceDefinitions = "definitions"
)

// App wires the route table, the dispatcher and the HTTP shell together.
// App is immutable after creation; all configuration is done via New().
type App struct {
	mux         chi.Router
	router      *Router
	dispatcher  *Dispatcher
	container   *Container
	controllers *Controllers
	aliases     map[string]MiddlewareFactory
	global      []string
	handlers    []Handler
	routeFiles  []routeFiles
	cache       routecache.Store
	bypassCache bool
	namespace   string
	source      string

	errorHandler    ErrorHandler
	notFoundHandler HandlerFunc
	httpMiddlewares []func(http.Handler) http.Handler
	healthConfig    *healthConfig
	mounts          []mount
	logger          *slog.Logger
	bootTimeout     time.Duration
	errs            []error
}

// routeFiles is a glob of YAML route definitions.
type routeFiles struct {
	fsys    fs.FS
	pattern string
}

// mount is a plain http.Handler served by the chi shell next to the dispatcher.
type mount struct {
	handler http.Handler
	pattern string
}

// New creates an application and builds its route table.
//
// With a route cache store configured, the table is loaded from the store.
// A missing cache falls back to the route definitions; any other cache
// error, including a schema version mismatch, fails.
//
// Example:
//
//	app, err := waypoint.New(
//	    waypoint.WithRouteFiles(os.DirFS("."), "routes/**/*.yaml"),
//	    waypoint.WithController("controllers/PostController", NewPostController),
//	    waypoint.WithMiddlewareAlias("auth", NewAuth),
//	)
func New(opts ...Option) (*App, error) {
	a := &App{
		mux:         chi.NewRouter(),
		container:   NewContainer(),
		controllers: NewControllers(),
		aliases:     make(map[string]MiddlewareFactory),
		logger:      logger.NewNope(),
		bootTimeout: defaultBootTimeout,
	}

	for _, opt := range opts {
		opt(a)
	}
	if len(a.errs) > 0 {
		return nil, errors.Join(a.errs...)
	}

	a.router = a.newRouter()

	ctx, cancel := context.WithTimeout(context.Background(), a.bootTimeout)
	defer cancel()
	if err := a.boot(ctx); err != nil {
		return nil, err
	}
	a.router.Freeze()

	a.dispatcher = NewDispatcher(a.router,
		WithControllers(a.controllers),
		WithAliases(a.aliases),
		WithResolver(a.container),
		WithDispatchLogger(a.logger),
		WithDispatchErrorHandler(a.errorHandler),
		WithDispatchNotFound(a.notFoundHandler),
	)
	a.setupRoutes()

	a.logger.Info("route table loaded",
		slog.String("source", a.source),
		slog.Int("routes", a.routeCount()),
	)
	return a, nil
}

// Router returns the frozen route table served by the app.
func (a *App) Router() *Router {
	return a.router
}

// Source reports where the route table came from: SourceCache or SourceDefinitions.
func (a *App) Source() string {
	return a.source
}

// Cache returns the configured route cache store, or nil.
func (a *App) Cache() routecache.Store {
	return a.cache
}

// Container returns the dependency container.
func (a *App) Container() *Container {
	return a.container
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Handler returns the HTTP handler serving the app.
func (a *App) Handler() http.Handler {
	return a.mux
}

// Definitions builds a fresh, unfrozen router from route files and Go
// definitions, ignoring the route cache.
func (a *App) Definitions() (*Router, error) {
	r := a.newRouter()
	if err := a.define(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Run starts the HTTP server and blocks until shutdown.
//
// Example:
//
//	err := app.Run(":8080", waypoint.ShutdownHook(db.Shutdown(pool)))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.address != "" {
		addr = cfg.address
	}
	log := cfg.logger
	if log == nil {
		log = a.logger
	}

	return newServer(a.mux, addr, cfg, log).run()
}

func (a *App) newRouter() *Router {
	opts := []RouterOption{WithRouterLogger(a.logger)}
	if a.namespace != "" {
		opts = append(opts, WithDefaultNamespace(a.namespace))
	}
	return NewRouter(opts...)
}

// boot fills a.router from the cache when possible, otherwise from definitions.
func (a *App) boot(ctx context.Context) error {
	if a.cache != nil && !a.bypassCache {
		t, err := a.cache.Load(ctx)
		switch {
		case err == nil:
			if err := a.router.Import(t); err != nil {
				return fmt.Errorf("waypoint: import route cache: %w", err)
			}
			a.source = SourceCache
			return nil
		case !errors.Is(err, routecache.ErrNotFound):
			return fmt.Errorf("waypoint: load route cache: %w", err)
		}
		a.logger.Debug("route cache is empty, using definitions")
	}

	if err := a.define(a.router); err != nil {
		return err
	}
	a.source = SourceDefinitions
	return nil
}

// define registers route files, then Go handlers, then global middleware.
func (a *App) define(r *Router) (err error) {
	defer func() {
		if p := recover(); p != nil {
			perr, ok := p.(error)
			if !ok {
				perr = fmt.Errorf("%v", p)
			}
			err = fmt.Errorf("waypoint: define routes: %w", perr)
		}
	}()

	for _, src := range a.routeFiles {
		files, err := routefile.Load(src.fsys, src.pattern)
		if err != nil {
			return fmt.Errorf("waypoint: load route files: %w", err)
		}
		if err := r.ImportFiles(files...); err != nil {
			return err
		}
	}
	for _, h := range a.handlers {
		h.Routes(r)
	}
	r.Use(a.global...)
	return nil
}

// setupRoutes configures the chi shell: HTTP middleware, mounts,
// health endpoints, then the dispatcher for everything else.
func (a *App) setupRoutes() {
	for _, mw := range a.httpMiddlewares {
		a.mux.Use(mw)
	}

	for _, m := range a.mounts {
		a.mux.Mount(m.pattern, m.handler)
	}

	if a.healthConfig != nil {
		a.mux.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		checks := health.Checks{"routes": a.routesReady}
		maps.Copy(checks, a.healthConfig.checks)
		a.mux.Get(a.healthConfig.readinessPath, health.ReadinessHandler(checks,
			health.WithLogger(a.logger),
		))
	}

	a.mux.NotFound(a.dispatcher.ServeHTTP)
	a.mux.MethodNotAllowed(a.dispatcher.ServeHTTP)
	a.mux.Handle("/*", a.dispatcher)
}

// routesReady is the built-in readiness check: an app without routes
// answers every request with 404 and should not receive traffic.
func (a *App) routesReady(context.Context) error {
	if a.routeCount() == 0 {
		return ErrEmptyRouteTable
	}
	return nil
}

func (a *App) routeCount() int {
	n := 0
	for _, m := range a.router.methods() {
		n += len(a.router.routes[m])
	}
	return n
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
//
// Example:
//
//	waypoint.WithReadinessCheck("redis", redis.Healthcheck(client))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
