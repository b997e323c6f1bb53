package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lampions/internal/domain"
	"lampions/internal/presentation"
)

func listRecipientsCmd() *cobra.Command {
	var (
		alias string
		addr  string
	)
	cmd := &cobra.Command{
		Use:   "list-recipients",
		Short: "Inspect recorded reply addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wired(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if addr != "" {
				recipient, err := w.RecipientSvc.Resolve(ctx, addr)
				if err != nil {
					if errors.Is(err, domain.ErrUnknownRecipient) {
						return fmt.Errorf("failed to resolve recipient for address '%s'", addr)
					}
					return err
				}
				return presentation.Page(fmt.Sprintf("%s  →  %s\n", addr, recipient))
			}

			var rel domain.RecipientRelations
			if alias != "" {
				forAlias, err := w.RecipientSvc.ForAlias(ctx, alias)
				if err != nil {
					if errors.Is(err, domain.ErrNoRecipients) {
						fmt.Printf("No recipients for alias '%s' defined yet\n", alias)
						return nil
					}
					return err
				}
				rel = domain.RecipientRelations{alias: forAlias}
			} else if rel, err = w.RecipientSvc.All(ctx); err != nil {
				return err
			}
			if len(rel) == 0 {
				fmt.Println("No recipient mapping defined yet")
				return nil
			}

			rendered := w.RecipientSvc.Rendered(rel)
			out, err := json.MarshalIndent(rendered, "", "  ")
			if err != nil {
				return err
			}
			return presentation.Page(string(out) + "\n")
		},
	}
	cmd.Flags().StringVar(&alias, "alias", "", "only show recipients recorded for this alias")
	cmd.Flags().StringVar(&addr, "address", "", "resolve a single reply address of the form '<alias>+<hash>@<domain>'")
	cmd.MarkFlagsMutuallyExclusive("alias", "address")
	return cmd
}
