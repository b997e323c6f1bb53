package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"lampions/internal/presentation"
	"lampions/internal/services/routes"
)

func listRoutesCmd() *cobra.Command {
	var (
		activeOnly   bool
		inactiveOnly bool
	)
	cmd := &cobra.Command{
		Use:   "list-routes",
		Short: "Print the routing table",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wired(cmd.Context())
			if err != nil {
				return err
			}

			filter := routes.All
			switch {
			case activeOnly:
				filter = routes.ActiveOnly
			case inactiveOnly:
				filter = routes.InactiveOnly
			}
			rts, err := w.RouteSvc.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(rts) == 0 {
				fmt.Println("No routes defined yet")
				return nil
			}
			return presentation.Page(presentation.RoutesTable(rts, w.Config.Domain))
		},
	}
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only show active routes")
	cmd.Flags().BoolVar(&inactiveOnly, "inactive", false, "only show inactive routes")
	cmd.MarkFlagsMutuallyExclusive("active", "inactive")
	return cmd
}
