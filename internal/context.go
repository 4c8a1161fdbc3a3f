package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/waypoint/pkg/logger"
)

// Context provides request/response access to middleware and handlers.
// It also implements context.Context by delegating to the request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the shared buffered response.
	Response() *Response

	// Method returns the request method.
	Method() string

	// IsMethod reports whether the request method equals method (case-insensitive).
	IsMethod(method string) bool

	// Path returns the request path.
	Path() string

	// Host returns the normalized request host.
	Host() string

	// Param returns the matched route argument by name.
	// Returns empty string if the argument was not captured.
	Param(name string) string

	// Params returns all matched route arguments in template order.
	Params() Params

	// Route returns the matched route, or nil before matching.
	Route() *Route

	// Controller returns the controller name of the matched action.
	Controller() string

	// Action returns the lowercased method name of the matched action.
	Action() string

	// Resolver returns the dependency resolver.
	Resolver() Resolver

	// URL builds the path of a named route.
	URL(name string, params map[string]any) (string, error)

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// String sets a plain text body and status.
	String(code int, s string) (*Response, error)

	// JSON sets a JSON body and status.
	JSON(code int, v any) (*Response, error)

	// NoContent sets the status and clears the body.
	NoContent(code int) (*Response, error)

	// Redirect sets a Location header and status.
	Redirect(code int, url string) (*Response, error)

	// Error creates an HTTPError without touching the response.
	// Return it from a handler to trigger the error handler.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Set stores a value in the request context.
	Set(key any, value any)

	// Get retrieves a value from the request context.
	Get(key any) any

	// SetContext replaces the request context, e.g. with one carrying a trace span.
	// ctx must derive from Request().Context(), not from the Context itself.
	SetContext(ctx context.Context)

	// Logger returns the logger for advanced usage.
	Logger() *slog.Logger

	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)
}

// requestContext implements the Context interface.
type requestContext struct {
	request    *http.Request
	response   *Response
	logger     *slog.Logger
	resolver   Resolver
	router     *Router
	route      *Route
	params     Params
	controller string
	action     string
}

// NewContext creates a standalone context. The dispatcher builds its own;
// this is meant for tests and for calling middleware outside a router.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return &requestContext{
		request:  r,
		response: NewResponse(w, r),
		logger:   logger.NewNope(),
		resolver: NewContainer(),
	}
}

func newContext(w http.ResponseWriter, r *http.Request, d *Dispatcher) *requestContext {
	return &requestContext{
		request:  r,
		response: NewResponse(w, r),
		logger:   d.logger,
		resolver: d.resolver,
		router:   d.router,
	}
}

func (c *requestContext) bind(m *RouteMatch) {
	c.route = m.Route
	c.params = m.Params
}

func (c *requestContext) setAction(controller, action string) {
	c.controller = controller
	c.action = action
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() *Response {
	return c.response
}

func (c *requestContext) Method() string {
	return c.request.Method
}

func (c *requestContext) IsMethod(method string) bool {
	return equalFold(c.request.Method, method)
}

func (c *requestContext) Path() string {
	return c.request.URL.Path
}

func (c *requestContext) Host() string {
	return normalizeHost(c.request.Host)
}

func (c *requestContext) Param(name string) string {
	v, _ := c.params.Get(name)
	return v
}

func (c *requestContext) Params() Params {
	return c.params
}

func (c *requestContext) Route() *Route {
	return c.route
}

func (c *requestContext) Controller() string {
	return c.controller
}

func (c *requestContext) Action() string {
	return c.action
}

func (c *requestContext) Resolver() Resolver {
	return c.resolver
}

func (c *requestContext) URL(name string, params map[string]any) (string, error) {
	if c.router == nil {
		return "", ErrRouteNameNotFound
	}
	return c.router.URL(name, params)
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) String(code int, s string) (*Response, error) {
	c.response.Header().Set("Content-Type", contentTypeText)
	if err := c.response.WithStatus(code).SetContent(s); err != nil {
		return nil, err
	}
	return c.response, nil
}

func (c *requestContext) JSON(code int, v any) (*Response, error) {
	c.response.Header().Set("Content-Type", contentTypeJSON)
	if err := c.response.WithStatus(code).SetContent(v); err != nil {
		return nil, err
	}
	return c.response, nil
}

func (c *requestContext) NoContent(code int) (*Response, error) {
	if err := c.response.WithStatus(code).SetContent(nil); err != nil {
		return nil, err
	}
	return c.response, nil
}

func (c *requestContext) Redirect(code int, url string) (*Response, error) {
	c.response.Header().Set("Location", url)
	return c.NoContent(code)
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) SetContext(ctx context.Context) {
	if ctx != nil {
		c.request = c.request.WithContext(ctx)
	}
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}
