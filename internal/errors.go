package internal

import (
	"errors"
	"fmt"
	"net/http"
)

// Routing errors.
var (
	ErrRouteNotFound        = errors.New("waypoint: route not found")
	ErrRouteNameNotFound    = errors.New("waypoint: route name not found")
	ErrMissingParameter     = errors.New("waypoint: route url parameters required")
	ErrMiddlewareNotFound   = errors.New("waypoint: middleware not found")
	ErrConfiguration        = errors.New("waypoint: route configuration error")
	ErrInvalidConfiguration = errors.New("waypoint: invalid route configuration")
	ErrNotController        = errors.New("waypoint: resolved value is not a controller")
	ErrDependencyNotBound   = errors.New("waypoint: dependency not bound")
	ErrRouterFrozen         = errors.New("waypoint: router is frozen")
	ErrEmptyRouteTable      = errors.New("waypoint: route table is empty")
)

// RouteNotFoundError is returned when no route matches a request,
// or when a matched controller action cannot be found.
type RouteNotFoundError struct {
	Method string
	Path   string
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("waypoint: no route for %s %s", e.Method, e.Path)
}

func (e *RouteNotFoundError) Unwrap() error {
	return ErrRouteNotFound
}

// ConfigurationError reports a route whose handler cannot be invoked.
type ConfigurationError struct {
	Path    string
	Handler string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("waypoint: route %s: invalid handler %q", e.Path, e.Handler)
	}
	return fmt.Sprintf("waypoint: route %s: handler %q: %v", e.Path, e.Handler, e.Err)
}

func (e *ConfigurationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfiguration}
	}
	return []error{ErrConfiguration, e.Err}
}

// MissingParameterError is returned when URL generation leaves
// a required placeholder without a value.
type MissingParameterError struct {
	Name      string
	Parameter string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("waypoint: route [%s] requires parameter %q", e.Name, e.Parameter)
}

func (e *MissingParameterError) Unwrap() error {
	return ErrMissingParameter
}

// MiddlewareNotFoundError is returned when a directive names an alias
// that was never registered.
type MiddlewareNotFoundError struct {
	Name string
}

func (e *MiddlewareNotFoundError) Error() string {
	return fmt.Sprintf("waypoint: middleware [%s] not found", e.Name)
}

func (e *MiddlewareNotFoundError) Unwrap() error {
	return ErrMiddlewareNotFound
}

// HTTPError represents an HTTP error with all data needed for rendering.
// Handlers and middleware return it to control the status code of the
// error response.
type HTTPError struct {
	// Err is the underlying error (for logging, not exposed to users).
	Err error

	// Message is the user-facing error message.
	Message string

	// Title is an optional title for the error.
	Title string

	// Detail is an optional extended description.
	Detail string

	// ErrorCode is an application-specific error code.
	ErrorCode string

	// RequestID is the request tracking ID.
	RequestID string

	// Code is the HTTP status code.
	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{
		Code:    code,
		Message: message,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithTitle(title string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Title = title
	}
}

func WithDetail(detail string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Detail = detail
	}
}

func WithErrorCode(code string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.ErrorCode = code
	}
}

func WithRequestID(id string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.RequestID = id
	}
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

func IsHTTPError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}

// AsHTTPError extracts the HTTPError from an error chain.
// Returns nil if the chain holds no HTTPError.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// ToHTTPError maps any dispatch error onto an HTTPError.
// Unmatched routes become 404, everything else without an explicit
// HTTPError in its chain becomes 500.
func ToHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	if httpErr := AsHTTPError(err); httpErr != nil {
		return httpErr
	}
	if errors.Is(err, ErrRouteNotFound) {
		return ErrNotFound(http.StatusText(http.StatusNotFound), WithError(err))
	}
	return ErrInternal(http.StatusText(http.StatusInternalServerError), WithError(err))
}
