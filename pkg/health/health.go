package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultTimeout = 5 * time.Second

	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

var (
	// ErrCheckFailed wraps the errors of failed checks in Report.Err.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout is reported for checks still running when the timeout expires.
	ErrCheckTimeout = errors.New("health: check timeout")
)

// CheckFunc reports whether a dependency is usable. It matches
// db.Healthcheck and redis.Healthcheck.
type CheckFunc func(ctx context.Context) error

// Checks maps check names to functions.
type Checks map[string]CheckFunc

// Report is the aggregated result of a readiness run.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]Result `json:"checks,omitempty"`

	err error
}

// Result is the outcome of one check.
type Result struct {
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Healthy reports whether every check passed.
func (r *Report) Healthy() bool {
	return r.Status == StatusHealthy
}

// Err returns nil for a healthy report, otherwise ErrCheckFailed joined with
// each failing check's error, in name order.
func (r *Report) Err() error {
	return r.err
}

type config struct {
	logger      *slog.Logger
	timeout     time.Duration
	concurrency int
}

// Option configures check execution.
type Option func(*config)

// WithTimeout bounds the whole run. Default 5s.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger logs failing checks at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithConcurrency limits how many checks run at once. Zero means no limit.
func WithConcurrency(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.concurrency = n
		}
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		timeout: defaultTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Run executes checks in parallel and waits for all of them or the timeout.
// A check that ignores its context and outlives the timeout is reported
// with ErrCheckTimeout.
func Run(ctx context.Context, checks Checks, opts ...Option) *Report {
	return run(ctx, checks, newConfig(opts...))
}

func run(ctx context.Context, checks Checks, cfg *config) *Report {
	if len(checks) == 0 {
		return &Report{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]Result, len(checks))
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		g := new(errgroup.Group)
		if cfg.concurrency > 0 {
			g.SetLimit(cfg.concurrency)
		}
		for name, check := range checks {
			g.Go(func() error {
				res := runOne(ctx, check)
				mu.Lock()
				results[name] = res
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		// Give checks that honour ctx a moment to record their own errors.
		select {
		case <-done:
		case <-time.After(10 * time.Millisecond):
		}
	}

	mu.Lock()
	defer mu.Unlock()

	report := &Report{Status: StatusHealthy, Checks: make(map[string]Result, len(checks))}
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(checks)) {
		res, ok := results[name]
		if !ok {
			res = Result{Status: StatusUnhealthy, Error: ErrCheckTimeout.Error(), DurationMs: cfg.timeout.Milliseconds()}
		}
		if res.Status == StatusUnhealthy {
			report.Status = StatusUnhealthy
			errs = append(errs, fmt.Errorf("%s: %s", name, res.Error))
			cfg.logger.WarnContext(ctx, "health check failed",
				slog.String("check", name),
				slog.String("error", res.Error),
			)
		}
		report.Checks[name] = res
	}
	if len(errs) > 0 {
		report.err = errors.Join(append([]error{ErrCheckFailed}, errs...)...)
	}
	return report
}

func runOne(ctx context.Context, check CheckFunc) (res Result) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = Result{Status: StatusUnhealthy, Error: fmt.Sprintf("panic: %v", p)}
		}
		res.DurationMs = time.Since(start).Milliseconds()
	}()

	if err := check(ctx); err != nil {
		return Result{Status: StatusUnhealthy, Error: err.Error()}
	}
	return Result{Status: StatusHealthy}
}
