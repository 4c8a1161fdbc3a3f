package console

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/waypoint/internal"
)

// ErrNoCacheStore is returned by route:cache when the app has no cache store.
var ErrNoCacheStore = errors.New("console: no route cache store configured")

// Kernel builds the application. Commands pass extra options, such as
// internal.WithCacheBypass for route:cache.
type Kernel func(opts ...internal.Option) (*internal.App, error)

type settings struct {
	address string
	run     []internal.RunOption
	short   string
}

// Option configures the root command.
type Option func(*settings)

// WithAddress sets the default listen address of serve. Default ":8080".
func WithAddress(addr string) Option {
	return func(s *settings) {
		if addr != "" {
			s.address = addr
		}
	}
}

// WithRunOptions passes run options, such as shutdown hooks, to serve.
func WithRunOptions(opts ...internal.RunOption) Option {
	return func(s *settings) {
		s.run = append(s.run, opts...)
	}
}

// WithDescription sets the root command's short description.
func WithDescription(short string) Option {
	return func(s *settings) {
		s.short = short
	}
}

// New returns the root command with every console command attached.
func New(name string, k Kernel, opts ...Option) *cobra.Command {
	s := &settings{address: ":8080", short: "Waypoint application console"}
	for _, opt := range opts {
		opt(s)
	}

	root := &cobra.Command{
		Use:           name,
		Short:         s.short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		RouteListCommand(k),
		RouteCacheCommand(k),
		ServeCommand(k, s.address, s.run...),
	)
	return root
}
