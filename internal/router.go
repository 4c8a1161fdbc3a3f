package internal

import (
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/dmitrymomot/waypoint/pkg/logger"
)

// Supported HTTP methods. HEAD requests are served by GET routes.
const (
	MethodGet     = http.MethodGet
	MethodPost    = http.MethodPost
	MethodPut     = http.MethodPut
	MethodDelete  = http.MethodDelete
	MethodOptions = http.MethodOptions
	MethodPatch   = http.MethodPatch
)

// DefaultNamespace is the controller namespace of routes registered outside any group.
const DefaultNamespace = "controllers"

// Methods returns the methods registered by Any, in table order.
func Methods() []string {
	return []string{MethodGet, MethodPost, MethodPut, MethodDelete, MethodOptions, MethodPatch}
}

type namedRoute struct {
	path  string
	route *Route
}

// Router holds the route table and the name index.
// Registration is not safe for concurrent use; it is expected to finish
// before the router starts serving. Matching is safe for concurrent use.
type Router struct {
	routes map[string][]*Route
	names  map[string]namedRoute
	scopes []scope
	global []string
	logger *slog.Logger
	frozen bool
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithRouterLogger sets the logger used for registration warnings.
func WithRouterLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDefaultNamespace replaces DefaultNamespace for top-level routes.
func WithDefaultNamespace(ns string) RouterOption {
	return func(r *Router) {
		r.scopes[0].namespace = joinNamespace(ns)
	}
}

// NewRouter creates an empty router.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		routes: make(map[string][]*Route),
		names:  make(map[string]namedRoute),
		scopes: []scope{{prefix: "/", namespace: DefaultNamespace}},
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get registers a GET route.
func (r *Router) Get(path string, h any) *Route {
	return r.add(nil, []string{MethodGet}, path, h)
}

// Post registers a POST route.
func (r *Router) Post(path string, h any) *Route {
	return r.add(nil, []string{MethodPost}, path, h)
}

// Put registers a PUT route.
func (r *Router) Put(path string, h any) *Route {
	return r.add(nil, []string{MethodPut}, path, h)
}

// Patch registers a PATCH route.
func (r *Router) Patch(path string, h any) *Route {
	return r.add(nil, []string{MethodPatch}, path, h)
}

// Delete registers a DELETE route.
func (r *Router) Delete(path string, h any) *Route {
	return r.add(nil, []string{MethodDelete}, path, h)
}

// Options registers an OPTIONS route.
func (r *Router) Options(path string, h any) *Route {
	return r.add(nil, []string{MethodOptions}, path, h)
}

// Any registers a route for every supported method.
func (r *Router) Any(path string, h any) *Route {
	return r.add(nil, Methods(), path, h)
}

// Form registers a route for GET and POST.
func (r *Router) Form(path string, h any) *Route {
	return r.add(nil, []string{MethodGet, MethodPost}, path, h)
}

// Match registers a route for the given methods.
func (r *Router) Match(methods []string, path string, h any) *Route {
	return r.add(nil, methods, path, h)
}

// Define starts a detached builder:
//
//	r.Define().Prefix("/admin").Middleware("auth").Name("admin.").Group(func(r *waypoint.Router) {
//	    r.Get("/users", "UserController@index").Name("users")
//	})
func (r *Router) Define() *Route {
	return newRoute(r)
}

// Use appends global middleware directives. They run before route middleware
// for every matched route.
func (r *Router) Use(directives ...string) {
	for _, d := range directives {
		if d = strings.TrimSpace(d); d != "" {
			r.global = append(r.global, d)
		}
	}
}

// GlobalMiddleware returns the global middleware directives.
func (r *Router) GlobalMiddleware() []string {
	return slices.Clone(r.global)
}

// Freeze rejects further registration.
func (r *Router) Freeze() {
	r.frozen = true
}

// Flush removes all routes and names.
func (r *Router) Flush() {
	clear(r.routes)
	clear(r.names)
}

// add merges the builder, the current group scope and the arguments into a
// new route and stores it under each method. A route with the same domain
// and path replaces the existing entry in place.
func (r *Router) add(b *Route, methods []string, path string, h any) *Route {
	if r.frozen {
		panic(fmt.Errorf("%w: cannot register %s", ErrRouterFrozen, path))
	}

	sc := r.current()
	rt := newRoute(r)
	if b != nil {
		rt.path = b.path
		rt.middleware = slices.Clone(b.middleware)
		rt.name = b.name
		rt.namespace = b.namespace
		rt.domain = b.domain
		rt.constraints = maps.Clone(b.constraints)
	}

	rt.path = joinPath(sc.prefix, rt.path, path)
	rt.middleware = slices.Concat(sc.middleware, rt.middleware)
	if rt.domain == "" {
		rt.domain = sc.domain
	}
	rt.namespace = joinNamespace(sc.namespace, rt.namespace)

	explicit := rt.name != ""
	rt.name = sc.name + rt.name
	for _, m := range methods {
		if m = strings.ToUpper(strings.TrimSpace(m)); m != "" && !slices.Contains(rt.methods, m) {
			rt.methods = append(rt.methods, m)
		}
	}

	rt.attached = true
	if explicit {
		r.registerName(rt.name, rt)
	}
	rt.setHandler(h)

	for _, m := range rt.methods {
		r.insert(m, rt)
	}
	return rt
}

func (r *Router) insert(method string, rt *Route) {
	list := r.routes[method]
	for i, existing := range list {
		if existing.path == rt.path && existing.domain == rt.domain {
			list[i] = rt
			return
		}
	}
	r.routes[method] = append(list, rt)
}

// registerName indexes a route name. The last registration of a name wins.
func (r *Router) registerName(name string, rt *Route) {
	if prev, ok := r.names[name]; ok && prev.route != rt && prev.path != rt.path {
		r.logger.Warn("duplicate route name",
			slog.String("name", name),
			slog.String("previous", prev.path),
			slog.String("path", rt.path),
		)
	}
	r.names[name] = namedRoute{path: rt.path, route: rt}
	rt.named = true
}

func (r *Router) unregisterName(name string, rt *Route) {
	if entry, ok := r.names[name]; ok && entry.route == rt {
		delete(r.names, name)
	}
	rt.named = false
}

// Routes returns the routes registered for method in match order.
func (r *Router) Routes(method string) []*Route {
	return slices.Clone(r.routes[strings.ToUpper(method)])
}

// RegisteredMethods returns the methods that have routes, supported methods
// first in table order.
func (r *Router) RegisteredMethods() []string {
	return r.methods()
}

// Names returns a copy of the name index: route name to path template.
func (r *Router) Names() map[string]string {
	out := make(map[string]string, len(r.names))
	for name, entry := range r.names {
		out[name] = entry.path
	}
	return out
}

// RouteMatch is the result of a successful lookup.
type RouteMatch struct {
	Route  *Route
	Params Params
}

// Args returns the positional route arguments.
func (m *RouteMatch) Args() []string {
	return m.Params.Values()
}

// Lookup finds the first route registered for method whose template matches
// the host and path. HEAD is looked up as GET.
func (r *Router) Lookup(method, host, path string) (*RouteMatch, error) {
	method = strings.ToUpper(method)
	if method == http.MethodHead {
		method = MethodGet
	}
	path = normalizePath(path)
	host = normalizeHost(host)

	for _, rt := range r.routes[method] {
		params, ok, err := rt.match(host, path)
		if err != nil {
			return nil, &ConfigurationError{Path: rt.template(), Handler: rt.handler.String(), Err: err}
		}
		if ok {
			return &RouteMatch{Route: rt, Params: params}, nil
		}
	}
	return nil, &RouteNotFoundError{Method: method, Path: path}
}

// URL substitutes params into the template of a named route. Optional
// placeholders without a value are dropped; a required one fails with
// MissingParameterError.
func (r *Router) URL(name string, params map[string]any) (string, error) {
	entry, ok := r.names[name]
	if !ok {
		return "", fmt.Errorf("%w: [%s]", ErrRouteNameNotFound, name)
	}
	out, missing := buildPath(entry.path, params)
	if missing != "" {
		return "", &MissingParameterError{Name: name, Parameter: missing}
	}
	return out, nil
}
