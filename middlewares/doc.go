// Package middlewares provides pipeline middleware for Waypoint applications.
//
// Each middleware implements waypoint.Middleware and is made available to
// route directives through an alias:
//
//	app, err := waypoint.New(
//	    waypoint.WithMiddlewareAliases(map[string]waypoint.MiddlewareFactory{
//	        "request_id": waypoint.Static(middlewares.RequestID()),
//	        "recover":    waypoint.Static(middlewares.Recover()),
//	        "tracing":    waypoint.Static(middlewares.Tracing()),
//	        "metrics":    waypoint.Static(metrics),
//	    }),
//	    waypoint.WithGlobalMiddleware("request_id", "recover", "tracing", "metrics"),
//	)
//
// # Request ID
//
// RequestID keeps an upstream X-Request-ID or X-Correlation-ID header, or
// generates a UUID. Use RequestIDExtractor() with WithLogger to add
// request_id to every log entry:
//
//	waypoint.WithLogger("web", middlewares.RequestIDExtractor())
//
// # Recover
//
// Recover turns panics in later middleware and handlers into *PanicError,
// which the error handler renders as a 500:
//
//	waypoint.WithErrorHandler(func(c waypoint.Context, err error) error {
//	    if pe, ok := middlewares.AsPanicError(err); ok {
//	        c.LogError("panic", "value", pe.Value)
//	    }
//	    _, err = c.String(http.StatusInternalServerError, "Internal Server Error")
//	    return err
//	})
//
// # Metrics
//
// Metrics records waypoint_http_requests_total and
// waypoint_http_request_duration_seconds labelled by method, route template
// and status.
//
// # Token
//
// Token checks a bearer token against named guards. The directive argument
// picks the guard:
//
//	"token":     waypoint.Static(middlewares.Token(map[string]string{"api": apiKey})),
//	r.Define().Prefix("/api").Middleware("token:api").Group(...)
//
// # Timeout
//
// Timeout puts a deadline on the request context. "timeout:5s" overrides
// the default per route. Handlers must watch the Context to stop early.
//
// # Tracing
//
// Tracing starts an OpenTelemetry server span per request using the global
// tracer provider unless WithTracerProvider is given.
package middlewares
