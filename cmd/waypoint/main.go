// Command waypoint runs a demo blog on the Waypoint router and exposes the
// route console: serve, route:list and route:cache.
package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/waypoint"
	"github.com/dmitrymomot/waypoint/console"
	"github.com/dmitrymomot/waypoint/middlewares"
	"github.com/dmitrymomot/waypoint/pkg/logger"
)

//go:embed routes
var routeFiles embed.FS

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[config]()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logger.NewFromConfig(cfg.Log, middlewares.RequestIDExtractor())
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openCacheStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("route cache: %w", err)
	}
	defer func() {
		if err := store.close(context.Background()); err != nil {
			log.Error("close route cache", slog.Any("error", err))
		}
	}()

	kernel, err := newKernel(cfg, log, store)
	if err != nil {
		return err
	}

	cmd := console.New(cfg.Name, kernel,
		console.WithAddress(cfg.Address),
		console.WithDescription("Demo blog served by the Waypoint router"),
		console.WithRunOptions(
			waypoint.Logger(log),
			waypoint.ShutdownTimeout(cfg.ShutdownTimeout),
		),
	)
	return cmd.ExecuteContext(ctx)
}

// newKernel returns the application constructor shared by every console command.
func newKernel(cfg config, log *slog.Logger, store *cacheStore) (console.Kernel, error) {
	fsys, pattern, err := routeSource(cfg)
	if err != nil {
		return nil, err
	}

	metrics, err := middlewares.NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	container := waypoint.NewContainer()
	waypoint.Provide(container, func(waypoint.Resolver) (*postStore, error) {
		return newPostStore(), nil
	})

	return func(extra ...waypoint.Option) (*waypoint.App, error) {
		opts := []waypoint.Option{
			waypoint.WithCustomLogger(log),
			waypoint.WithContainer(container),
			waypoint.WithRouteFiles(fsys, pattern),
			waypoint.WithController("controllers/HomeController", newHomeController),
			waypoint.WithController("controllers/PostController", newPostController),
			waypoint.WithMiddlewareAliases(map[string]waypoint.MiddlewareFactory{
				"request_id": waypoint.Static(middlewares.RequestID()),
				"recover":    waypoint.Static(middlewares.Recover()),
				"metrics":    waypoint.Static(metrics),
				"trace":      waypoint.Static(middlewares.Tracing()),
				"timeout":    waypoint.Static(middlewares.Timeout(middlewares.DefaultTimeout)),
				"token":      waypoint.Static(middlewares.Token(map[string]string{"api": cfg.APIToken})),
			}),
			waypoint.WithHTTPMiddleware(middleware.RealIP, middleware.CleanPath),
			waypoint.WithMount("/metrics", promhttp.Handler()),
			waypoint.WithHealthChecks(store.healthChecks()...),
		}
		opts = append(opts, store.options()...)
		return waypoint.New(append(opts, extra...)...)
	}, nil
}

// routeSource returns the file system and doublestar pattern of the route
// files: ROUTES_DIR when set, the embedded routes otherwise.
func routeSource(cfg config) (fs.FS, string, error) {
	if cfg.RoutesDir != "" {
		if _, err := os.Stat(cfg.RoutesDir); err != nil {
			return nil, "", fmt.Errorf("routes dir: %w", err)
		}
		return os.DirFS(cfg.RoutesDir), cfg.RoutesGlob, nil
	}
	if cfg.RoutesGlob == "" {
		return nil, "", errors.New("routes glob is empty")
	}
	return routeFiles, path.Join("routes", cfg.RoutesGlob), nil
}
