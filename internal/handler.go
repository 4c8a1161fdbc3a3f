package internal

import (
	"fmt"
	"strings"
)

// Handler declares routes on a router.
//
// Example:
//
//	type BlogRoutes struct{}
//
//	func (BlogRoutes) Routes(r *waypoint.Router) {
//	    r.Get("/blog/{year}/{slug?}", "BlogController@show").Name("blog.show")
//	}
type Handler interface {
	Routes(r *Router)
}

// Callable is anything a matched route can invoke.
// args holds the matched route arguments in template order.
type Callable interface {
	Call(c Context, args []string) (any, error)
}

// HandlerFunc is the signature for route handlers.
// The returned value becomes the response: a *Response is used as is,
// any other value is appended to the shared response content.
// Returning a non-nil error triggers the error handler.
type HandlerFunc func(c Context) (any, error)

func (f HandlerFunc) Call(c Context, _ []string) (any, error) {
	return f(c)
}

// Next continues the pipeline with the next middleware or the final handler.
type Next func(c Context) (*Response, error)

// Middleware wraps the rest of the pipeline. Args carry the directive
// arguments ("auth:admin" passes "admin").
//
// Returning the *Response produced by next continues normally.
// Returning any other value short-circuits: it replaces the response
// content, the response is sent and nothing after this middleware runs.
//
// Example:
//
//	func Auth() waypoint.Middleware {
//	    return waypoint.MiddlewareFunc(func(c waypoint.Context, next waypoint.Next, args ...string) (any, error) {
//	        if c.Header("Authorization") == "" {
//	            return c.Redirect(http.StatusFound, "/login")
//	        }
//	        return next(c)
//	    })
//	}
type Middleware interface {
	Handle(c Context, next Next, args ...string) (any, error)
}

// MiddlewareFunc adapts a function to the Middleware interface.
type MiddlewareFunc func(c Context, next Next, args ...string) (any, error)

func (f MiddlewareFunc) Handle(c Context, next Next, args ...string) (any, error) {
	return f(c, next, args...)
}

// MiddlewareFactory builds a middleware instance for one request.
type MiddlewareFactory func(r Resolver) (Middleware, error)

// Static returns a factory that always yields mw.
func Static(mw Middleware) MiddlewareFactory {
	return func(Resolver) (Middleware, error) {
		return mw, nil
	}
}

// ErrorHandler handles errors returned from the dispatch pipeline.
type ErrorHandler func(Context, error) error

// Action references a controller method by name, as in "UserController@show".
type Action struct {
	Controller string
	Method     string
}

// ParseAction parses "Controller@method". Backslash namespace separators
// are accepted and normalized to "/".
func ParseAction(s string) (Action, bool) {
	controller, method, ok := strings.Cut(strings.TrimSpace(s), "@")
	if !ok || controller == "" || method == "" || strings.Contains(method, "@") {
		return Action{}, false
	}
	controller = strings.Trim(strings.ReplaceAll(controller, `\`, "/"), "/")
	return Action{Controller: controller, Method: method}, true
}

func (a Action) String() string {
	return a.Controller + "@" + a.Method
}

// Descriptor is the long form of a route handler.
// Uses is required and holds a "Controller@method" reference.
type Descriptor struct {
	Uses       string
	As         string
	Middleware []string
}

// handlerRef is the tagged handler stored on a route.
type handlerRef struct {
	call   Callable
	action *Action
	raw    string
}

func (h handlerRef) String() string {
	switch {
	case h.action != nil:
		return h.action.String()
	case h.call != nil:
		return "Closure"
	default:
		return h.raw
	}
}

func (h handlerRef) cacheable() bool {
	return h.action != nil
}

// toHandlerRef classifies a handler value. Values that are neither callable
// nor a valid action reference are kept and rejected at dispatch.
func toHandlerRef(h any) handlerRef {
	switch v := h.(type) {
	case Callable:
		return handlerRef{call: v}
	case func(Context) (any, error):
		return handlerRef{call: HandlerFunc(v)}
	case func(Context) error:
		return handlerRef{call: HandlerFunc(func(c Context) (any, error) {
			return nil, v(c)
		})}
	case Action:
		return handlerRef{action: &v}
	case string:
		if a, ok := ParseAction(v); ok {
			return handlerRef{action: &a}
		}
		return handlerRef{raw: v}
	case nil:
		return handlerRef{raw: "<nil>"}
	default:
		return handlerRef{raw: fmt.Sprintf("%T", h)}
	}
}
