package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// server owns one listen/serve/shutdown cycle of an App.
type server struct {
	http *http.Server
	cfg  *runConfig
	log  *slog.Logger
}

func newServer(h http.Handler, addr string, cfg *runConfig, log *slog.Logger) *server {
	if addr == "" {
		addr = ":8080"
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &server{
		http: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadTimeout:       defaultReadTimeout,
			WriteTimeout:      defaultWriteTimeout,
			IdleTimeout:       defaultIdleTimeout,
			ReadHeaderTimeout: defaultReadHeaderTimeout,
			MaxHeaderBytes:    defaultMaxHeaderBytes,
		},
		cfg: cfg,
		log: log,
	}
}

// run serves until the base context is cancelled, SIGINT or SIGTERM
// arrives, or the listener fails; then it shuts down.
func (s *server) run() error {
	base := s.cfg.baseCtx
	if base == nil {
		base = context.Background()
	}
	ctx, stop := signal.NotifyContext(base, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("waypoint: listen %s: %w", s.http.Addr, err)
	}

	for _, hook := range s.cfg.startupHooks {
		if err := hook(ctx); err != nil {
			_ = ln.Close()
			return fmt.Errorf("waypoint: startup hook: %w", err)
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		s.log.Info("server starting", slog.String("address", ln.Addr().String()))
		err := s.http.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	return s.shutdown()
}

// shutdown stops accepting requests, waits for in-flight ones, then runs
// the shutdown hooks in reverse registration order. All of it shares one
// shutdown timeout.
func (s *server) shutdown() error {
	s.log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("waypoint: http shutdown: %w", err))
	}

	for i := len(s.cfg.shutdownHooks) - 1; i >= 0; i-- {
		if err := s.cfg.shutdownHooks[i](ctx); err != nil {
			s.log.Error("shutdown hook failed", slog.Int("hook", i), slog.Any("error", err))
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		s.log.Error("shutdown completed with errors")
		return err
	}
	s.log.Info("shutdown completed")
	return nil
}
