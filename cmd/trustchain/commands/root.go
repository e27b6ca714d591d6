// Package commands wires the trustchain CLI: a server mode plus direct
// issue/verify/listing subcommands that talk to the ledger without going
// through a running server.
package commands

import (
	"github.com/spf13/cobra"
)

const defaultConfigPath = "./config/trustchain.defaults.yml"

// Execute runs the root command.
func Execute() error {
	root := &cobra.Command{
		Use:           "trustchain",
		Short:         "Anchor file fingerprints on Algorand and verify them later",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", defaultConfigPath, "path to configuration file")

	root.AddCommand(
		NewServeCommand(),
		NewIssueCommand(),
		NewVerifyCommand(),
		NewProofsCommand(),
		NewStatusCommand(),
	)

	return root.Execute()
}
