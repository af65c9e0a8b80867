package main

import (
	"github.com/spf13/cobra"

	"github.com/nao1215/fgscrap/internal/export"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the saved titles as a Markdown table",
		Long: `List prints every recorded title and its torrent file name to stdout
as a Markdown table. Use export for spreadsheet or JSON output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			records, err := listRecords(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			return writeRecords(export.FormatMarkdown, cmd.OutOrStdout(), records)
		},
	}
}
