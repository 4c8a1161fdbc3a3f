package middlewares

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/waypoint/internal"
)

// Default tracer name for waypoint applications.
const defaultTracerName = "github.com/dmitrymomot/waypoint"

// TracingConfig configures the OpenTelemetry middleware.
type TracingConfig struct {
	// TracerName is the instrumentation scope name.
	TracerName string

	// Provider supplies the tracer. Defaults to the global provider.
	Provider trace.TracerProvider
}

// TracingOption configures the OpenTelemetry middleware.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		if name != "" {
			c.TracerName = name
		}
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		if tp != nil {
			c.Provider = tp
		}
	}
}

// Tracing returns middleware that wraps the rest of the pipeline in a
// server span named after the method and route template. The span context
// replaces the request context, so handlers passing Context to downstream
// calls propagate the trace.
func Tracing(opts ...TracingOption) internal.Middleware {
	cfg := TracingConfig{
		TracerName: defaultTracerName,
		Provider:   otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	tracer := cfg.Provider.Tracer(cfg.TracerName)

	return internal.MiddlewareFunc(func(c internal.Context, next internal.Next, _ ...string) (any, error) {
		route := c.Path()
		attrs := []attribute.KeyValue{
			attribute.String("http.request.method", c.Method()),
			attribute.String("url.path", c.Path()),
		}
		if rt := c.Route(); rt != nil {
			route = rt.Path()
			attrs = append(attrs, attribute.String("http.route", route))
			if name := rt.Attributes().Name; name != "" {
				attrs = append(attrs, attribute.String("waypoint.route.name", name))
			}
		}

		ctx, span := tracer.Start(c.Request().Context(), c.Method()+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		defer span.End()
		c.SetContext(ctx)

		res, err := next(c)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.Int("http.response.status_code", internal.ToHTTPError(err).Code))
			return res, err
		}

		status := c.Response().Status()
		if res != nil {
			status = res.Status()
		}
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, "")
		}
		return res, nil
	})
}
