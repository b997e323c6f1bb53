package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func showConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-config",
		Short: "Print the current config",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := configStore().Load()
			if err != nil {
				return err
			}
			if err := c.Verify(); err != nil {
				return err
			}
			fmt.Println(c.String())
			return nil
		},
	}
}
