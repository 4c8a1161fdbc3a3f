package console

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/waypoint/internal"
)

// ServeCommand boots the app and serves it until the command context is
// cancelled or the process is interrupted.
func ServeCommand(k Kernel, address string, runOpts ...internal.RunOption) *cobra.Command {
	addr := address

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := k()
			if err != nil {
				return err
			}
			opts := append([]internal.RunOption{internal.WithContext(cmd.Context())}, runOpts...)
			return app.Run(addr, opts...)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", address, "Listen address")

	return cmd
}
