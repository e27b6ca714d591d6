package commands

import (
	"github.com/spf13/cobra"
)

// NewProofsCommand lists proofs reconstructed from the issuer's history.
func NewProofsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "proofs",
		Aliases: []string{"history"},
		Short:   "List proofs reconstructed from the issuer's transaction history",
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

			limit, _ := cmd.Flags().GetUint64("limit")
			raw, _ := cmd.Flags().GetBool("raw")

			if raw {
				view, err := service.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return printJSON(view)
			}

			records, err := service.ListProofs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printJSON(records)
		},
	}

	cmd.Flags().Uint64("limit", 0, "transaction window size (0 uses the configured default)")
	cmd.Flags().Bool("raw", false, "include the raw transaction activity next to the proofs")
	return cmd
}
