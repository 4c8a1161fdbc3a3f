package middlewares

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/waypoint/internal"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "waypoint").
	Namespace string

	// Subsystem is the metrics subsystem (default: "http").
	Subsystem string

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithMetricsNamespace sets the metrics namespace.
func WithMetricsNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithMetricsSubsystem sets the metrics subsystem.
func WithMetricsSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithMetricsBuckets sets the histogram buckets.
func WithMetricsBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		if len(buckets) > 0 {
			c.Buckets = buckets
		}
	}
}

// WithMetricsRegistry sets the Prometheus registry.
func WithMetricsRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		if registry != nil {
			c.Registry = registry
		}
	}
}

// unmatchedRoute labels requests that reached the middleware without a route.
const unmatchedRoute = "unmatched"

// Metrics counts requests and observes their duration per method, route
// template and status code. The route label is the template, never the raw
// path, so label cardinality stays bounded.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the collectors and returns the middleware.
// Collectors already registered with the same options are reused.
//
// Example:
//
//	m, err := middlewares.NewMetrics(middlewares.WithMetricsRegistry(reg))
//	app, err := waypoint.New(
//	    waypoint.WithMiddlewareAlias("metrics", waypoint.Static(m)),
//	    waypoint.WithGlobalMiddleware("metrics"),
//	)
func NewMetrics(opts ...MetricsOption) (*Metrics, error) {
	cfg := MetricsConfig{
		Namespace: "waypoint",
		Subsystem: "http",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	labels := []string{"method", "route", "status"}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "requests_total",
		Help:      "Total number of dispatched requests.",
	}, labels)
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "request_duration_seconds",
		Help:      "Time spent in the middleware pipeline and handler.",
		Buckets:   cfg.Buckets,
	}, labels)

	var err error
	if requests, err = register(cfg.Registry, requests); err != nil {
		return nil, err
	}
	if duration, err = register(cfg.Registry, duration); err != nil {
		return nil, err
	}
	return &Metrics{requests: requests, duration: duration}, nil
}

// Handle implements internal.Middleware.
func (m *Metrics) Handle(c internal.Context, next internal.Next, _ ...string) (any, error) {
	start := time.Now()
	res, err := next(c)

	status := c.Response().Status()
	if err != nil {
		status = internal.ToHTTPError(err).Code
	} else if res != nil {
		status = res.Status()
	}

	route := unmatchedRoute
	if rt := c.Route(); rt != nil {
		route = rt.Path()
	}

	values := []string{c.Method(), route, strconv.Itoa(status)}
	m.requests.WithLabelValues(values...).Inc()
	m.duration.WithLabelValues(values...).Observe(time.Since(start).Seconds())

	return res, err
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
