package internal

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Route is a single routing entry. Routes returned by the router's
// registration methods double as fluent builders:
//
//	r.Get("/users/{id}", "UserController@show").
//	    Name("users.show").
//	    Where("id", `\d+`).
//	    Middleware("auth")
//
// Routes created by Router.Define are detached builders that collect
// attributes until a registration method or Group is called on them.
type Route struct {
	router      *Router
	methods     []string
	path        string
	handler     handlerRef
	middleware  []string
	name        string
	namespace   string
	domain      string
	constraints map[string]string
	attached    bool
	named       bool

	once       sync.Once
	pattern    *Pattern
	patternErr error
}

// Attributes is a snapshot of a route's configuration.
type Attributes struct {
	Methods     []string
	Path        string
	Handler     string
	Name        string
	Namespace   string
	Domain      string
	Middleware  []string
	Constraints map[string]string
}

func newRoute(r *Router) *Route {
	return &Route{router: r}
}

// Methods returns the HTTP methods the route was registered for.
func (rt *Route) Methods() []string {
	return rt.methods
}

// Path returns the normalized path template.
func (rt *Route) Path() string {
	return rt.path
}

// Attributes returns a copy of the route configuration.
func (rt *Route) Attributes() Attributes {
	return Attributes{
		Methods:     slices.Clone(rt.methods),
		Path:        rt.path,
		Handler:     rt.handler.String(),
		Name:        rt.registeredName(),
		Namespace:   rt.namespace,
		Domain:      rt.domain,
		Middleware:  slices.Clone(rt.middleware),
		Constraints: maps.Clone(rt.constraints),
	}
}

// Name appends name to the route's name. On an attached route the full name
// is registered in the router's name index.
func (rt *Route) Name(name string) *Route {
	if name = strings.TrimSpace(name); name == "" {
		return rt
	}
	rt.name += name
	if rt.attached {
		rt.router.registerName(rt.name, rt)
	}
	return rt
}

// PrependName puts prefix in front of the current name.
func (rt *Route) PrependName(prefix string) *Route {
	rt.name = prefix + rt.name
	if rt.attached && rt.name != "" {
		rt.router.registerName(rt.name, rt)
	}
	return rt
}

// AppendName puts suffix after the current name.
func (rt *Route) AppendName(suffix string) *Route {
	rt.name += suffix
	if rt.attached && rt.name != "" {
		rt.router.registerName(rt.name, rt)
	}
	return rt
}

// Middleware appends middleware directives.
func (rt *Route) Middleware(directives ...string) *Route {
	for _, d := range directives {
		if d = strings.TrimSpace(d); d != "" {
			rt.middleware = append(rt.middleware, d)
		}
	}
	return rt
}

// Where constrains a placeholder to a regular expression.
func (rt *Route) Where(name, expr string) *Route {
	if rt.constraints == nil {
		rt.constraints = make(map[string]string)
	}
	rt.constraints[name] = expr
	return rt
}

// WhereAll merges several constraints.
func (rt *Route) WhereAll(constraints map[string]string) *Route {
	for name, expr := range constraints {
		rt.Where(name, expr)
	}
	return rt
}

// Domain restricts the route to a host template such as "{account}.example.com".
func (rt *Route) Domain(domain string) *Route {
	rt.domain = normalizeDomain(domain)
	return rt
}

// Namespace sets the controller namespace used to resolve "Controller@method" handlers.
func (rt *Route) Namespace(namespace string) *Route {
	rt.namespace = strings.Trim(strings.ReplaceAll(namespace, `\`, "/"), "/")
	return rt
}

// PrependNamespace puts ns in front of the current namespace.
func (rt *Route) PrependNamespace(ns string) *Route {
	rt.namespace = joinNamespace(ns, rt.namespace)
	return rt
}

// AppendNamespace puts ns after the current namespace.
func (rt *Route) AppendNamespace(ns string) *Route {
	rt.namespace = joinNamespace(rt.namespace, ns)
	return rt
}

// Prefix sets the path prefix of a detached builder.
func (rt *Route) Prefix(prefix string) *Route {
	rt.path = joinPath(prefix)
	return rt
}

// PrependPrefix puts prefix in front of the path.
func (rt *Route) PrependPrefix(prefix string) *Route {
	rt.path = joinPath(prefix, rt.path)
	return rt
}

// AppendPrefix puts suffix after the path.
func (rt *Route) AppendPrefix(suffix string) *Route {
	rt.path = joinPath(rt.path, suffix)
	return rt
}

// Get registers the builder's attributes as a GET route.
func (rt *Route) Get(path string, h any) *Route {
	return rt.router.add(rt, []string{MethodGet}, path, h)
}

// Post registers the builder's attributes as a POST route.
func (rt *Route) Post(path string, h any) *Route {
	return rt.router.add(rt, []string{MethodPost}, path, h)
}

// Put registers the builder's attributes as a PUT route.
func (rt *Route) Put(path string, h any) *Route {
	return rt.router.add(rt, []string{MethodPut}, path, h)
}

// Patch registers the builder's attributes as a PATCH route.
func (rt *Route) Patch(path string, h any) *Route {
	return rt.router.add(rt, []string{MethodPatch}, path, h)
}

// Delete registers the builder's attributes as a DELETE route.
func (rt *Route) Delete(path string, h any) *Route {
	return rt.router.add(rt, []string{MethodDelete}, path, h)
}

// Options registers the builder's attributes as an OPTIONS route.
func (rt *Route) Options(path string, h any) *Route {
	return rt.router.add(rt, []string{MethodOptions}, path, h)
}

// Any registers the builder's attributes for every supported method.
func (rt *Route) Any(path string, h any) *Route {
	return rt.router.add(rt, Methods(), path, h)
}

// Form registers the builder's attributes for GET and POST.
func (rt *Route) Form(path string, h any) *Route {
	return rt.router.add(rt, []string{MethodGet, MethodPost}, path, h)
}

// Match registers the builder's attributes for the given methods.
func (rt *Route) Match(methods []string, path string, h any) *Route {
	return rt.router.add(rt, methods, path, h)
}

// Group turns the builder's attributes into a group scope for fn.
// The builder's own name is only a prefix and is not kept as a route name.
func (rt *Route) Group(fn func(r *Router)) {
	if rt.attached {
		rt.router.unregisterName(rt.name, rt)
	}
	rt.router.Group(GroupAttributes{
		Prefix:     rt.path,
		Namespace:  rt.namespace,
		Domain:     rt.domain,
		Name:       rt.name,
		Middleware: slices.Clone(rt.middleware),
	}, fn)
}

// setHandler stores the handler. A Descriptor without Uses panics since
// the route table is built at startup.
func (rt *Route) setHandler(h any) {
	if d, ok := h.(Descriptor); ok {
		if strings.TrimSpace(d.Uses) == "" {
			panic(fmt.Errorf("%w: route %s: descriptor requires Uses", ErrInvalidConfiguration, rt.path))
		}
		rt.handler = toHandlerRef(d.Uses)
		rt.Middleware(d.Middleware...)
		rt.Name(d.As)
		return
	}
	rt.handler = toHandlerRef(h)
}

func (rt *Route) registeredName() string {
	if !rt.named {
		return ""
	}
	return rt.name
}

// template returns the string matched against requests.
func (rt *Route) template() string {
	if rt.domain == "" {
		return rt.path
	}
	return rt.domain + rt.path
}

// Pattern returns the compiled route template, domain included.
func (rt *Route) Pattern() (*Pattern, error) {
	return rt.compiled()
}

// compiled returns the route pattern, compiling it on first use.
func (rt *Route) compiled() (*Pattern, error) {
	rt.once.Do(func() {
		rt.pattern, rt.patternErr = CompilePattern(rt.template(), rt.constraints)
	})
	return rt.pattern, rt.patternErr
}

func (rt *Route) match(host, path string) (Params, bool, error) {
	target := path
	if rt.domain != "" {
		target = host + path
	}
	tpl := rt.template()
	if !HasPlaceholder(tpl) {
		return nil, tpl == target, nil
	}
	p, err := rt.compiled()
	if err != nil {
		return nil, false, err
	}
	params, ok := p.Match(target)
	return params, ok, nil
}

func joinNamespace(parts ...string) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.ReplaceAll(p, `\`, "/"), "/")
		if p != "" {
			segs = append(segs, p)
		}
	}
	return strings.Join(segs, "/")
}
