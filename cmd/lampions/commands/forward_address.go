package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"lampions/internal/address"
)

func forwardAddressCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "add-forward-address",
		Short: "Trigger SES verification for a forward address",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !address.Valid(addr) {
				return fmt.Errorf("invalid email address '%s'", addr)
			}
			w, err := wired(cmd.Context())
			if err != nil {
				return err
			}
			if err := w.Mailer.VerifyEmailIdentity(cmd.Context(), addr); err != nil {
				return err
			}
			fmt.Printf("Verification mail sent to '%s'\n", addr)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "address", "", "email address to forward mail to")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}
