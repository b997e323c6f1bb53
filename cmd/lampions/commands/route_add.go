package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addRouteCmd() *cobra.Command {
	var (
		alias    string
		forward  string
		inactive bool
		meta     string
	)
	cmd := &cobra.Command{
		Use:   "add-route",
		Short: "Create an alias route",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wired(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := w.RouteSvc.Add(cmd.Context(), alias, forward, !inactive, meta); err != nil {
				return err
			}
			fmt.Printf("Route for alias '%s' added\n", alias)
			return nil
		},
	}
	cmd.Flags().StringVar(&alias, "alias", "", "alias to receive mail for")
	cmd.Flags().StringVar(&forward, "forward", "", "verified address to forward mail to")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the route in inactive state")
	cmd.Flags().StringVar(&meta, "meta", "", "freeform note attached to the route")
	_ = cmd.MarkFlagRequired("alias")
	_ = cmd.MarkFlagRequired("forward")
	return cmd
}
