package commands

import (
	"github.com/spf13/cobra"
)

// NewStatusCommand reports whether the configured issuer can afford an
// issuance.
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the issuing account's address, balance and readiness",
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

			status, err := service.IssuerStatus(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(status)
		},
	}
}
