package waypoint

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/waypoint/internal"
	"github.com/dmitrymomot/waypoint/pkg/health"
	"github.com/dmitrymomot/waypoint/pkg/logger"
	"github.com/dmitrymomot/waypoint/pkg/routecache"
)

// Type aliases - public API
type (
	// App boots the route table and serves it.
	App = internal.App

	// Router holds the route table, group scopes and the name index.
	Router = internal.Router

	// Route is a routing entry and its fluent builder.
	Route = internal.Route

	// RouteMatch is a successful lookup: the route and its arguments.
	RouteMatch = internal.RouteMatch

	// GroupAttributes are applied to every route registered inside a group.
	GroupAttributes = internal.GroupAttributes

	// Pattern is a compiled path template.
	Pattern = internal.Pattern

	// Params are matched route arguments in template order.
	Params = internal.Params

	// Directive is a parsed middleware directive such as "throttle:60,1|index".
	Directive = internal.Directive

	// Context provides request access, route arguments and response helpers.
	Context = internal.Context

	// Response is the buffered response shared by middleware and handlers.
	Response = internal.Response

	// Handler declares routes on a router.
	Handler = internal.Handler

	// RoutesFunc declares routes as a plain function.
	RoutesFunc = internal.RoutesFunc

	// HandlerFunc is the closure form of a route handler.
	HandlerFunc = internal.HandlerFunc

	// Callable is anything a route or controller action can invoke.
	Callable = internal.Callable

	// Descriptor is the long form of a controller route handler.
	Descriptor = internal.Descriptor

	// Next runs the rest of the middleware pipeline.
	Next = internal.Next

	// Middleware is a pipeline stage referenced by directive.
	Middleware = internal.Middleware

	// MiddlewareFunc adapts a function to Middleware.
	MiddlewareFunc = internal.MiddlewareFunc

	// MiddlewareFactory builds a middleware from the container.
	MiddlewareFactory = internal.MiddlewareFactory

	// Controller groups actions addressed by "Controller@method" handlers.
	Controller = internal.Controller

	// BaseController implements Controller; embed it.
	BaseController = internal.BaseController

	// ControllerFactory builds a controller per request.
	ControllerFactory = internal.ControllerFactory

	// Container is the dependency container used for injection.
	Container = internal.Container

	// Resolver looks up dependencies by key.
	Resolver = internal.Resolver

	// Factory builds a container binding.
	Factory = internal.Factory

	// Parameter describes one parameter of an Injected handler.
	Parameter = internal.Parameter

	// Injected is a handler with container-resolved parameters.
	Injected = internal.Injected

	// ErrorHandler renders dispatch errors.
	ErrorHandler = internal.ErrorHandler

	// HTTPError is an error with an HTTP status code.
	HTTPError = internal.HTTPError

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// RouteCache persists route table snapshots.
	RouteCache = routecache.Store

	// ParamType lists the kinds Param can convert a route argument to.
	ParamType = internal.ParamType
)

// Error sentinels and typed errors.
var (
	ErrRouteNotFound        = internal.ErrRouteNotFound
	ErrRouteNameNotFound    = internal.ErrRouteNameNotFound
	ErrMissingParameter     = internal.ErrMissingParameter
	ErrMiddlewareNotFound   = internal.ErrMiddlewareNotFound
	ErrConfiguration        = internal.ErrConfiguration
	ErrInvalidConfiguration = internal.ErrInvalidConfiguration
	ErrNotController        = internal.ErrNotController
	ErrDependencyNotBound   = internal.ErrDependencyNotBound
	ErrRouterFrozen         = internal.ErrRouterFrozen
	ErrEmptyRouteTable      = internal.ErrEmptyRouteTable
)

type (
	RouteNotFoundError      = internal.RouteNotFoundError
	ConfigurationError      = internal.ConfigurationError
	MissingParameterError   = internal.MissingParameterError
	MiddlewareNotFoundError = internal.MiddlewareNotFoundError
)

// DefaultNamespace is the controller namespace of top-level routes.
const DefaultNamespace = internal.DefaultNamespace

// Constructors

// New creates an application and builds its route table, from the route
// cache when one is configured and populated, otherwise from definitions.
//
// Example:
//
//	app, err := waypoint.New(
//	    waypoint.WithRouteFiles(os.DirFS("."), "routes/**/*.yaml"),
//	    waypoint.WithController("controllers/PostController", NewPostController),
//	    waypoint.WithMiddlewareAlias("request_id", waypoint.Static(middlewares.RequestID())),
//	)
//	if err != nil { ... }
//	err = app.Run(":8080")
func New(opts ...Option) (*App, error) {
	return internal.New(opts...)
}

// NewRouter creates an empty route table.
func NewRouter() *Router {
	return internal.NewRouter()
}

// NewContainer creates an empty dependency container.
func NewContainer() *Container {
	return internal.NewContainer()
}

// CompilePattern compiles a path template with optional per-placeholder constraints.
func CompilePattern(template string, constraints map[string]string) (*Pattern, error) {
	return internal.CompilePattern(template, constraints)
}

// ParseDirective parses a middleware directive.
func ParseDirective(raw string) Directive {
	return internal.ParseDirective(raw)
}

// Static wraps a ready middleware as a factory.
func Static(mw Middleware) MiddlewareFactory {
	return internal.Static(mw)
}

// Arg declares a route-argument parameter of an Injected handler.
func Arg(name string) Parameter {
	return internal.Arg(name)
}

// Dep declares a container-resolved parameter of an Injected handler.
func Dep(name, key string) Parameter {
	return internal.Dep(name, key)
}

// TypeKey returns the container key used for T.
func TypeKey[T any]() string {
	return internal.TypeKey[T]()
}

// Provide registers a typed singleton under TypeKey[T].
func Provide[T any](c *Container, f func(r Resolver) (T, error)) {
	internal.Provide(c, f)
}

// ResolveAs resolves the dependency registered under TypeKey[T].
func ResolveAs[T any](r Resolver) (T, error) {
	return internal.ResolveAs[T](r)
}

// IsResponse reports whether v is a non-nil *Response.
func IsResponse(v any) bool {
	return internal.IsResponse(v)
}

// App options

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithRoutes registers route definition functions.
//
// Example:
//
//	waypoint.WithRoutes(func(r *waypoint.Router) {
//	    r.Get("/", "HomeController@index").Name("home")
//	})
func WithRoutes(fns ...RoutesFunc) Option {
	return internal.WithRoutes(fns...)
}

// WithRouteFiles loads YAML route definitions matching a doublestar glob.
func WithRouteFiles(fsys fs.FS, pattern string) Option {
	return internal.WithRouteFiles(fsys, pattern)
}

// WithRouteCache boots the route table from store when it holds a snapshot.
func WithRouteCache(store RouteCache) Option {
	return internal.WithRouteCache(store)
}

// WithCacheBypass builds the table from definitions even with a cache store.
func WithCacheBypass() Option {
	return internal.WithCacheBypass()
}

// WithController registers a controller factory under a type id such as
// "controllers/PostController".
func WithController(id string, f ControllerFactory) Option {
	return internal.WithController(id, f)
}

// WithMiddlewareAlias makes a middleware factory available to directives by name.
func WithMiddlewareAlias(name string, f MiddlewareFactory) Option {
	return internal.WithMiddlewareAlias(name, f)
}

// WithMiddlewareAliases registers several aliases at once.
func WithMiddlewareAliases(aliases map[string]MiddlewareFactory) Option {
	return internal.WithMiddlewareAliases(aliases)
}

// WithGlobalMiddleware adds directives run on every matched route.
func WithGlobalMiddleware(directives ...string) Option {
	return internal.WithGlobalMiddleware(directives...)
}

// WithHTTPMiddleware adds net/http middleware applied before dispatching.
func WithHTTPMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return internal.WithHTTPMiddleware(mw...)
}

// WithContainer replaces the default dependency container.
func WithContainer(c *Container) Option {
	return internal.WithContainer(c)
}

// WithNamespace replaces DefaultNamespace for top-level routes.
func WithNamespace(ns string) Option {
	return internal.WithNamespace(ns)
}

// WithStaticFiles mounts a static file handler at the given pattern.
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
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithMount serves h under pattern outside the route table.
func WithMount(pattern string, h http.Handler) Option {
	return internal.WithMount(pattern, h)
}

// WithErrorHandler sets a custom error handler for dispatch errors.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets the handler used when no route matches.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithHealthChecks enables health check endpoints with optional configuration.
//
// Example:
//
//	waypoint.WithHealthChecks(
//	    waypoint.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a logger with a component name and optional extractors.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithBootTimeout bounds loading the route table from the cache store.
func WithBootTimeout(d time.Duration) Option {
	return internal.WithBootTimeout(d)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Address overrides the address passed to Run.
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the server logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function run after the port is bound.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run during shutdown.
//
// Example:
//
//	waypoint.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets a custom base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Context helpers

// ContextValue retrieves a typed value stored with Context.Set.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Param returns a typed route argument, or the zero value.
func Param[T ParamType](c Context, name string) T {
	return internal.Param[T](c, name)
}

// ParamDefault returns a typed route argument or defaultValue.
func ParamDefault[T ParamType](c Context, name string, defaultValue T) T {
	return internal.ParamDefault(c, name, defaultValue)
}

// HTTP errors

// NewHTTPError creates an error carrying an HTTP status code.
func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}

// ErrNotFound creates a 404 error.
func ErrNotFound(message string) *HTTPError {
	return internal.ErrNotFound(message)
}

// ErrBadRequest creates a 400 error.
func ErrBadRequest(message string) *HTTPError {
	return internal.ErrBadRequest(message)
}

// ErrUnauthorized creates a 401 error.
func ErrUnauthorized(message string) *HTTPError {
	return internal.ErrUnauthorized(message)
}

// ErrForbidden creates a 403 error.
func ErrForbidden(message string) *HTTPError {
	return internal.ErrForbidden(message)
}

// ToHTTPError maps any error to an HTTPError; unknown errors become 500.
func ToHTTPError(err error) *HTTPError {
	return internal.ToHTTPError(err)
}
