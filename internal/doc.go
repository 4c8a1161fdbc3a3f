// Package internal provides the core types and implementation for the Waypoint router.
//
// This package is internal and should not be used directly. Import "github.com/dmitrymomot/waypoint"
// instead, which re-exports the public API.
//
// # Core Types
//
//   - Pattern: A compiled path template such as "/posts/{slug}/{page?}"
//   - Route: A routing entry and the fluent builder that configures it
//   - Router: The route table, group scopes, name index and matching
//   - Dispatcher: Matches a request and runs it through its middleware pipeline
//   - Pipeline: Onion-style middleware chain with short-circuit support
//   - Context: Request access, route parameters and response helpers
//   - Response: The buffered response shared by middleware and handlers
//   - Container: String-keyed dependency container used for injection
//   - Controllers: Registry of controller factories keyed by namespaced type id
//   - App: Boots the route table from a cache or definitions and serves it over chi
//
// # Route templates
//
// Placeholders are written in braces. A trailing "?" makes a placeholder
// optional; an absent optional segment is dropped together with its
// leading slash. Placeholders match [DefaultParamPattern] unless a Where
// constraint replaces it:
//
//	r.Get("/posts/{slug}/{page?}", "PostController@show").
//	    Where("page", `\d+`).
//	    Name("posts.show")
//
// Routes are matched per HTTP method in registration order; the first
// match wins. A route with a Domain is matched against host+path, so host
// placeholders become route arguments in front of the path arguments.
//
// # Groups
//
// Groups apply a prefix, name prefix, namespace, domain and middleware to
// every route registered inside the callback. The previous scope is
// restored when the callback returns:
//
//	r.Define().Prefix("/admin").Middleware("auth:admin").Name("admin.").Group(func(r *Router) {
//	    r.Get("/users", "UserController@index").Name("users")
//	})
//
// # Handlers
//
// A handler is a closure (HandlerFunc, func(Context) error, a Callable) or
// a "Controller@method" reference resolved through the Controllers registry
// under the route's namespace. Only controller references can be written
// to a route cache.
//
// # Middleware directives
//
// Middleware is referenced by directive strings:
//
//	"throttle:60,1"     alias "throttle" with arguments "60" and "1"
//	"auth|index,show"   alias "auth", skipped for the index and show actions
//
// Global directives run first, then route directives, then directives
// declared by the controller. A middleware that returns a value other than
// a *Response ends the request with that value as the body.
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to any function
// that expects a standard library context:
//
//	func (h *Posts) Show(c waypoint.Context) (any, error) {
//	    return h.repo.Find(c, c.Param("slug"))
//	}
//
// # Errors
//
// Routing failures are typed: RouteNotFoundError (404),
// ConfigurationError, MiddlewareNotFoundError and MissingParameterError.
// All unwrap to sentinel errors for errors.Is checks. Handler errors of
// type *HTTPError keep their status code; everything else becomes a 500.
package internal
