package middlewares

import (
	"runtime"

	"github.com/dmitrymomot/waypoint/internal"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	StackSize         int  // Max stack trace size (default: 4096)
	DisablePrintStack bool // Disable stack trace in logs
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.StackSize = size
	}
}

// WithRecoverDisablePrintStack disables including stack trace in logs.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// Recover returns middleware that turns panics in later middleware and in
// the handler into a *PanicError for the error handler.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &RecoverConfig{
		StackSize: DefaultStackSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return internal.MiddlewareFunc(func(c internal.Context, next internal.Next, _ ...string) (out any, err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			var stack []byte
			if cfg.DisablePrintStack {
				c.LogError("panic recovered", "panic", r, "route", routePath(c))
			} else {
				stack = make([]byte, cfg.StackSize)
				stack = stack[:runtime.Stack(stack, false)]
				c.LogError("panic recovered", "panic", r, "route", routePath(c), "stack", string(stack))
			}

			out, err = nil, &PanicError{Value: r, Stack: stack}
		}()

		return next(c)
	})
}

// routePath returns the matched route template, or "" outside a route.
func routePath(c internal.Context) string {
	if rt := c.Route(); rt != nil {
		return rt.Path()
	}
	return ""
}
