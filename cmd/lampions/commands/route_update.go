package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lampions/internal/domain"
	"lampions/internal/services/routes"
)

func updateRouteCmd() *cobra.Command {
	var (
		alias    string
		forward  string
		active   bool
		inactive bool
		meta     string
	)
	cmd := &cobra.Command{
		Use:   "update-route",
		Short: "Change a route's forward address, state or meta",
		RunE: func(cmd *cobra.Command, args []string) error {
			upd := routes.Update{Forward: forward, Meta: meta}
			if active {
				v := true
				upd.Active = &v
			}
			if inactive {
				v := false
				upd.Active = &v
			}

			w, err := wired(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := w.RouteSvc.Modify(cmd.Context(), alias, upd); err != nil {
				if errors.Is(err, domain.ErrNothingToDo) {
					fmt.Println("Nothing to do")
					return nil
				}
				return err
			}
			fmt.Printf("Route for alias '%s' updated\n", alias)
			return nil
		},
	}
	cmd.Flags().StringVar(&alias, "alias", "", "alias of the route to update")
	cmd.Flags().StringVar(&forward, "forward", "", "new forward address (must be verified)")
	cmd.Flags().BoolVar(&active, "active", false, "activate the route")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "deactivate the route")
	cmd.Flags().StringVar(&meta, "meta", "", "new meta note")
	cmd.MarkFlagsMutuallyExclusive("active", "inactive")
	_ = cmd.MarkFlagRequired("alias")
	return cmd
}
