package console

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/waypoint/internal"
)

// RouteCacheCommand writes or clears the route cache. With --create the
// table is rebuilt from definitions, so a stale cache never blocks it.
func RouteCacheCommand(k Kernel) *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:   "route:cache",
		Short: "Create or clear the route cache",
		Long: `Create or clear the route cache.

With --create the route definitions are compiled into a snapshot and saved
to the configured store; every route must use a "Controller@method" handler.
Without flags the cached snapshot is deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := k(internal.WithCacheBypass())
			if err != nil {
				return err
			}
			store := app.Cache()
			if store == nil {
				return ErrNoCacheStore
			}

			out := cmd.OutOrStdout()
			if !create {
				if err := store.Delete(cmd.Context()); err != nil {
					return fmt.Errorf("console: clear route cache: %w", err)
				}
				fmt.Fprintln(out, "Route cache cleared")
				return nil
			}

			table, err := app.Router().Export()
			if err != nil {
				return fmt.Errorf("console: export routes: %w", err)
			}
			if err := store.Save(cmd.Context(), table); err != nil {
				return fmt.Errorf("console: save route cache: %w", err)
			}
			fmt.Fprintf(out, "Route cache created (%d routes)\n", table.Len())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&create, "create", "c", false, "Create the cache instead of clearing it")

	return cmd
}
