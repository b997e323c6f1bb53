package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lampions/internal/address"
	"lampions/internal/config"
)

func initCmd() *cobra.Command {
	var (
		region     string
		mailDomain string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the initial config for a region and domain",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !config.ValidRegion(region) {
				return fmt.Errorf("region must be one of: %s", strings.Join(config.Regions, ", "))
			}
			if !address.ValidDomain(mailDomain) {
				return fmt.Errorf("invalid domain '%s'", mailDomain)
			}

			store := configStore()
			c, err := store.Load()
			if err != nil {
				return err
			}
			c.Region = region
			c.Domain = mailDomain
			if err := store.Save(c); err != nil {
				return err
			}
			fmt.Printf("Config written to '%s'\n", store.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&region, "region", "", "AWS region to receive mail in ("+strings.Join(config.Regions, ", ")+")")
	cmd.Flags().StringVar(&mailDomain, "domain", "", "domain to receive mail for")
	_ = cmd.MarkFlagRequired("region")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}
