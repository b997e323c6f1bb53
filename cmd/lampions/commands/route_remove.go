package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func removeRouteCmd() *cobra.Command {
	var alias string
	cmd := &cobra.Command{
		Use:   "remove-route",
		Short: "Delete an alias route",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wired(cmd.Context())
			if err != nil {
				return err
			}
			if err := w.RouteSvc.Remove(cmd.Context(), alias); err != nil {
				return err
			}
			fmt.Printf("Route for alias '%s' removed\n", alias)
			return nil
		},
	}
	cmd.Flags().StringVar(&alias, "alias", "", "alias of the route to remove")
	_ = cmd.MarkFlagRequired("alias")
	return cmd
}
