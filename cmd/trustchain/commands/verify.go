package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewVerifyCommand checks a local file against an on-ledger proof.
func NewVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file> <tx-id>",
		Short: "Compare a file's fingerprint with the one anchored in a transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			service, err := newService(cfg, logger)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			result, err := service.Verify(cmd.Context(), data, args[1])
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}
