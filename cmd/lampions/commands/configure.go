package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lampions/internal/terraform"
)

func configureCmd() *cobra.Command {
	var terraformDir string
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Provision the AWS infrastructure with terraform",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := configStore()
			c, err := store.Load()
			if err != nil {
				return err
			}
			if err := c.Verify(); err != nil {
				return err
			}

			ctx := cmd.Context()
			tf := terraform.NewRunner(terraformDir, os.Stderr)
			if err := tf.Init(ctx); err != nil {
				return err
			}
			if err := tf.Apply(ctx, map[string]string{
				"domain": c.Domain,
				"region": c.Region,
			}); err != nil {
				return err
			}
			outputs, err := tf.Outputs(ctx)
			if err != nil {
				return err
			}
			accessKeyID, err := terraform.StringOutput(outputs, "AccessKeyId")
			if err != nil {
				return err
			}
			secretAccessKey, err := terraform.StringOutput(outputs, "SecretAccessKey")
			if err != nil {
				return err
			}
			tokens, err := terraform.StringSliceOutput(outputs, "DkimTokens")
			if err != nil {
				return err
			}

			if err := c.SetCredentials(accessKeyID, secretAccessKey, passphrase); err != nil {
				return err
			}
			c.DkimTokens = tokens
			if err := store.Save(c); err != nil {
				return err
			}

			printDNSInstructions(c.Domain, c.Region, tokens)
			return nil
		},
	}
	cmd.Flags().StringVar(&terraformDir, "terraform-dir", "terraform", "directory holding the terraform module")
	return cmd
}

func printDNSInstructions(domain, region string, tokens []string) {
	fmt.Printf("DKIM tokens for the domain '%s' are:\n\n", domain)
	for _, token := range tokens {
		fmt.Printf("  %s\n", token)
	}
	fmt.Println()
	fmt.Print(
		"For each token, add a CNAME record of the form\n\n" +
			"  Name                         Value\n" +
			"  <token>._domainkey.<domain>  <token>.dkim.amazonses.com\n\n" +
			"to the DNS settings of the domain. Note that the '.<domain>' part\n" +
			"needs to be omitted with some DNS providers.\n\n")
	fmt.Printf(
		"To configure the domain for receiving, also make sure to add an MX record with\n\n"+
			"  inbound-smtp.%s.amazonaws.com\n\n"+
			"to the DNS settings.\n", region)
}
