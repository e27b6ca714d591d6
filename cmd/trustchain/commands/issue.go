package commands

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/SagarGupta-30/TrustChain/notes"
)

// NewIssueCommand anchors a file on the ledger directly, without a running
// server.
func NewIssueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue <file>",
		Short: "Hash a file, anchor it in a marker transaction and mint its proof asset",
		Args:  cobra.ExactArgs(1),
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

			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			label, _ := cmd.Flags().GetString("label")
			meta := notes.Metadata{
				FileName: filepath.Base(path),
				MimeType: mime.TypeByExtension(filepath.Ext(path)),
				Size:     int64(len(data)),
				Label:    label,
			}

			record, err := service.Issue(cmd.Context(), data, meta)
			if err != nil {
				return err
			}
			return printJSON(record)
		},
	}

	cmd.Flags().String("label", "", "free-text label stored in the proof note")
	return cmd
}
