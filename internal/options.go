package internal

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/waypoint/pkg/logger"
	"github.com/dmitrymomot/waypoint/pkg/routecache"
)

// Option configures the application.
type Option func(*App)

// RoutesFunc declares routes as a plain function.
type RoutesFunc func(r *Router)

// Routes implements Handler.
func (f RoutesFunc) Routes(r *Router) {
	f(r)
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called while the route table is built.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithRoutes registers route definition functions.
//
// Example:
//
//	waypoint.WithRoutes(func(r *waypoint.Router) {
//	    r.Get("/", "HomeController@index").Name("home")
//	})
func WithRoutes(fns ...RoutesFunc) Option {
	return func(a *App) {
		for _, fn := range fns {
			if fn != nil {
				a.handlers = append(a.handlers, fn)
			}
		}
	}
}

// WithRouteFiles loads YAML route definitions matching a doublestar glob.
// Files are registered before Go handlers.
//
// Example:
//
//	waypoint.WithRouteFiles(os.DirFS("."), "routes/**/*.yaml")
func WithRouteFiles(fsys fs.FS, pattern string) Option {
	return func(a *App) {
		if fsys == nil {
			a.errs = append(a.errs, fmt.Errorf("%w: nil route file system", ErrInvalidConfiguration))
			return
		}
		a.routeFiles = append(a.routeFiles, routeFiles{fsys: fsys, pattern: pattern})
	}
}

// WithRouteCache boots the route table from store when it holds a table.
func WithRouteCache(store routecache.Store) Option {
	return func(a *App) {
		a.cache = store
	}
}

// WithCacheBypass builds the route table from definitions even when a route
// cache store is configured. App.Cache still returns the store.
func WithCacheBypass() Option {
	return func(a *App) {
		a.bypassCache = true
	}
}

// WithController registers a controller factory under a type id such as
// "controllers/PostController".
func WithController(id string, f ControllerFactory) Option {
	return func(a *App) {
		a.controllers.Register(id, f)
	}
}

// WithMiddlewareAlias makes a middleware factory available to directives by name.
//
// Example:
//
//	waypoint.WithMiddlewareAlias("auth", func(r waypoint.Resolver) (waypoint.Middleware, error) {
//	    return NewAuth(r)
//	})
func WithMiddlewareAlias(name string, f MiddlewareFactory) Option {
	return func(a *App) {
		if name = strings.TrimSpace(name); name != "" && f != nil {
			a.aliases[name] = f
		}
	}
}

// WithMiddlewareAliases registers several aliases at once.
func WithMiddlewareAliases(aliases map[string]MiddlewareFactory) Option {
	return func(a *App) {
		for name, f := range aliases {
			WithMiddlewareAlias(name, f)(a)
		}
	}
}

// WithGlobalMiddleware adds directives run before route middleware on
// every matched route.
func WithGlobalMiddleware(directives ...string) Option {
	return func(a *App) {
		a.global = append(a.global, directives...)
	}
}

// WithHTTPMiddleware adds net/http middleware applied before dispatching,
// including to health endpoints and static files.
func WithHTTPMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(a *App) {
		a.httpMiddlewares = append(a.httpMiddlewares, mw...)
	}
}

// WithContainer replaces the default dependency container.
func WithContainer(c *Container) Option {
	return func(a *App) {
		if c != nil {
			a.container = c
		}
	}
}

// WithNamespace replaces DefaultNamespace for top-level routes.
func WithNamespace(ns string) Option {
	return func(a *App) {
		a.namespace = ns
	}
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled. Files are served with default cache headers.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	waypoint.New(
//	    waypoint.WithStaticFiles("/static/", assets, "public"),
//	)
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		subFS, err := fs.Sub(fsys, subDir)
		if err != nil {
			a.errs = append(a.errs, fmt.Errorf("waypoint: static files %s: %w", pattern, err))
			return
		}

		fileServer := http.StripPrefix(strings.TrimSuffix(pattern, "/"), http.FileServerFS(subFS))

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}

			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("X-Content-Type-Options", "nosniff")

			fileServer.ServeHTTP(w, r)
		})

		a.mounts = append(a.mounts, mount{handler: handler, pattern: pattern})
	}
}

// WithMount serves h under pattern outside the route table, for handlers
// such as a metrics endpoint or a pprof index.
//
// Example:
//
//	waypoint.WithMount("/metrics", promhttp.Handler())
func WithMount(pattern string, h http.Handler) Option {
	return func(a *App) {
		if pattern == "" || h == nil {
			a.errs = append(a.errs, fmt.Errorf("%w: mount %q", ErrInvalidConfiguration, pattern))
			return
		}
		a.mounts = append(a.mounts, mount{handler: h, pattern: pattern})
	}
}

// WithErrorHandler sets a custom error handler for dispatch errors.
// Returning nil sends the response the handler prepared.
//
// Example:
//
//	waypoint.WithErrorHandler(func(c waypoint.Context, err error) error {
//	    _, jerr := c.JSON(waypoint.ToHTTPError(err).Code, map[string]string{"error": err.Error()})
//	    return jerr
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets the handler used when no route matches.
//
// Example:
//
//	waypoint.WithNotFoundHandler(func(c waypoint.Context) (any, error) {
//	    return c.String(http.StatusNotFound, "Page not found")
//	})
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	waypoint.WithHealthChecks(
//	    waypoint.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger creates a logger with a component name and optional extractors.
// Extractors pull values from context (e.g., request_id).
//
// Example:
//
//	waypoint.New(
//	    waypoint.WithLogger("web", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithBootTimeout bounds loading the route table from the cache store.
// Defaults to 10 seconds.
func WithBootTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.bootTimeout = d
		}
	}
}
