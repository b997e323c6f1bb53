package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"lampions/internal/app"
	"lampions/internal/config"
)

var (
	configPath string
	passphrase string
)

func Execute() error {
	root := &cobra.Command{
		Use:          "lampions",
		Short:        "Manage email aliases on your own domain",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				path, err := config.DefaultPath()
				if err != nil {
					return err
				}
				configPath = path
			}
			if passphrase == "" {
				passphrase = os.Getenv("LAMPIONS_PASSPHRASE")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/lampions/config.json)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase for sealed credentials (env LAMPIONS_PASSPHRASE)")

	root.AddCommand(
		initCmd(), showConfigCmd(), configureCmd(), forwardAddressCmd(),
		listRoutesCmd(), addRouteCmd(), updateRouteCmd(), removeRouteCmd(),
		listRecipientsCmd(),
	)
	return root.Execute()
}

// configStore returns the store for the active config path.
func configStore() *config.Store {
	return config.NewStore(configPath)
}

// wired builds the AWS-backed dependency graph for commands that talk to
// S3 or SES.
func wired(ctx context.Context) (*app.Wire, error) {
	return app.NewWire(ctx, app.Config{
		ConfigPath: configPath,
		Passphrase: passphrase,
	})
}
