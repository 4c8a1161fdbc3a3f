package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/waypoint/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// Timeout returns middleware that puts a deadline on the request context.
// The directive argument overrides the default duration ("timeout:5s").
// Handlers observe the deadline through the Context; a handler that is
// still past it when it returns yields a 503 wrapping a TimeoutError.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return internal.MiddlewareFunc(func(c internal.Context, next internal.Next, args ...string) (any, error) {
		d := timeout
		if len(args) > 0 && args[0] != "" {
			parsed, err := time.ParseDuration(args[0])
			if err != nil || parsed <= 0 {
				return nil, fmt.Errorf("%w: timeout middleware: invalid duration %q",
					internal.ErrInvalidConfiguration, args[0])
			}
			d = parsed
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), d)
		defer cancel()
		c.SetContext(ctx)

		res, err := next(c)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.LogWarn("request timeout", "timeout", d.String())
			return nil, internal.NewHTTPError(http.StatusServiceUnavailable, "request timeout",
				internal.WithError(&TimeoutError{Duration: d}))
		}
		return res, err
	})
}
