package internal

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/waypoint/pkg/logger"
)

// Dispatcher matches requests against a Router and runs the matched route
// through its middleware pipeline.
type Dispatcher struct {
	router       *Router
	controllers  *Controllers
	aliases      map[string]MiddlewareFactory
	resolver     Resolver
	logger       *slog.Logger
	errorHandler ErrorHandler
	notFound     HandlerFunc
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithControllers sets the controller registry.
func WithControllers(cs *Controllers) DispatcherOption {
	return func(d *Dispatcher) {
		if cs != nil {
			d.controllers = cs
		}
	}
}

// WithAliases sets the middleware alias table.
func WithAliases(aliases map[string]MiddlewareFactory) DispatcherOption {
	return func(d *Dispatcher) {
		for name, f := range aliases {
			d.aliases[name] = f
		}
	}
}

// WithResolver sets the dependency resolver.
func WithResolver(r Resolver) DispatcherOption {
	return func(d *Dispatcher) {
		if r != nil {
			d.resolver = r
		}
	}
}

// WithDispatchLogger sets the logger.
func WithDispatchLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithDispatchErrorHandler sets the error handler.
func WithDispatchErrorHandler(h ErrorHandler) DispatcherOption {
	return func(d *Dispatcher) {
		d.errorHandler = h
	}
}

// WithDispatchNotFound sets the handler used when no route matches.
func WithDispatchNotFound(h HandlerFunc) DispatcherOption {
	return func(d *Dispatcher) {
		d.notFound = h
	}
}

// NewDispatcher creates a dispatcher for router.
func NewDispatcher(router *Router, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		router:      router,
		controllers: NewControllers(),
		aliases:     make(map[string]MiddlewareFactory),
		resolver:    NewContainer(),
		logger:      logger.NewNope(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ServeHTTP implements http.Handler.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := newContext(w, r, d)
	res, err := d.dispatch(c)
	if err != nil {
		d.handleError(c, err)
		return
	}
	if err := res.Send(); err != nil {
		c.LogError("failed to send response", slog.Any("error", err))
	}
}

func (d *Dispatcher) dispatch(c *requestContext) (*Response, error) {
	m, err := d.router.Lookup(c.Method(), c.request.Host, c.Path())
	if err != nil {
		if d.notFound != nil && errors.Is(err, ErrRouteNotFound) {
			return d.invoke(d.notFound, nil)(c)
		}
		return nil, err
	}
	c.bind(m)
	return d.call(c, m)
}

// call runs global middleware, route middleware, controller middleware and
// finally the handler. For controller actions the controller is constructed
// and the action name recorded first, so except lists can see it.
func (d *Dispatcher) call(c *requestContext, m *RouteMatch) (*Response, error) {
	rt := m.Route
	p := NewPipeline(d.aliases, d.resolver).Send(c).Through(d.router.global...)

	switch {
	case rt.handler.action != nil:
		h, controllerMiddleware, err := d.resolveAction(c, rt)
		if err != nil {
			return nil, err
		}
		p.Through(rt.middleware...).Through(controllerMiddleware...)
		return p.Then(d.invoke(h, m.Args()))
	case rt.handler.call != nil:
		p.Through(rt.middleware...)
		return p.Then(d.invoke(rt.handler.call, m.Args()))
	default:
		return nil, &ConfigurationError{Path: rt.path, Handler: rt.handler.String()}
	}
}

func (d *Dispatcher) resolveAction(c *requestContext, rt *Route) (Callable, []string, error) {
	action := rt.handler.action
	id := ControllerID(rt.namespace, action.Controller)

	factory, ok := d.controllers.Lookup(id)
	if !ok {
		c.LogDebug("controller not registered", slog.String("controller", id))
		return nil, nil, &RouteNotFoundError{Method: c.Method(), Path: c.Path()}
	}
	instance, err := factory(d.resolver)
	if err != nil {
		return nil, nil, &ConfigurationError{Path: rt.path, Handler: action.String(), Err: err}
	}
	ctrl, ok := instance.(Controller)
	if !ok {
		return nil, nil, &ConfigurationError{Path: rt.path, Handler: action.String(), Err: ErrNotController}
	}
	h, ok := ctrl.Action(action.Method)
	if !ok {
		c.LogDebug("controller action not found", slog.String("action", action.String()))
		return nil, nil, &RouteNotFoundError{Method: c.Method(), Path: c.Path()}
	}

	c.setAction(action.Controller, strings.ToLower(action.Method))
	return h, ctrl.Middleware(), nil
}

// invoke adapts a callable to the final pipeline step. Non-response values
// are appended to the shared response.
func (d *Dispatcher) invoke(h Callable, args []string) Next {
	return func(c Context) (*Response, error) {
		out, err := h.Call(c, args)
		if err != nil {
			return nil, err
		}
		if res, ok := out.(*Response); ok && res != nil {
			return res, nil
		}
		res := c.Response()
		if err := res.AppendContent(out); err != nil {
			return nil, err
		}
		return res, nil
	}
}

func (d *Dispatcher) handleError(c *requestContext, err error) {
	if c.response.Sent() {
		c.LogError("error after response was sent", slog.Any("error", err))
		return
	}

	if d.errorHandler != nil {
		herr := d.errorHandler(c, err)
		if herr == nil {
			if serr := c.response.Send(); serr != nil {
				c.LogError("failed to send error response", slog.Any("error", serr))
			}
			return
		}
		err = herr
	}

	httpErr := ToHTTPError(err)
	if httpErr.Code >= http.StatusInternalServerError {
		c.LogError("request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
	}

	message := httpErr.Message
	if message == "" {
		message = httpErr.StatusText()
	}
	res := c.response
	res.Header().Set("Content-Type", contentTypeText)
	_ = res.WithStatus(httpErr.Code).SetContent(message)
	if serr := res.Send(); serr != nil {
		c.LogError("failed to send error response", slog.Any("error", serr))
	}
}
