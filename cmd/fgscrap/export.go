package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/fgscrap/internal/config"
	"github.com/nao1215/fgscrap/internal/database"
	"github.com/nao1215/fgscrap/internal/export"
	"github.com/nao1215/fgscrap/internal/model"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	names := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		names = append(names, string(f))
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the saved titles to a spreadsheet, Markdown or JSON file",
		Long: `Export writes every recorded title and its torrent file name to a file.

Examples:
  # Write games.xlsx in the current directory
  fgscrap export

  # Write a Markdown table to a chosen path
  fgscrap export --format markdown --output docs/games.md

  # Write JSON to stdout
  fgscrap export --format json --output -`,
		Args: cobra.NoArgs,
		RunE: runExportCmd,
	}

	cmd.Flags().StringP("format", "F", string(export.FormatXLSX),
		"Output format: "+strings.Join(names, ", "))
	cmd.Flags().StringP("output", "o", "",
		"Output file path, or - for stdout (default: games.<ext> in the current directory)")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	formatName, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if outputPath == "" {
		outputPath = format.DefaultFileName()
	}

	records, err := listRecords(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if outputPath == "-" {
		return writeRecords(format, cmd.OutOrStdout(), records)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(outputPath) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeRecords(format, f, records); err != nil {
		_ = f.Close() //nolint:errcheck // write error takes precedence
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d titles to %s\n", len(records), outputPath)
	return nil
}

// listRecords reads every record from an existing database.
func listRecords(ctx context.Context, cfg *config.Config) ([]model.Record, error) {
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false

	db, err := database.Open(cfg.DBDir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database (run scrape first): %w", err)
	}
	defer db.Close()

	return db.List(ctx)
}

// writeRecords writes records to w in the given format.
func writeRecords(format export.Format, w io.Writer, records []model.Record) error {
	writer, err := export.NewWriter(format, w)
	if err != nil {
		return err
	}
	if err := writer.Write(records); err != nil {
		return fmt.Errorf("failed to write %s export: %w", format, err)
	}
	return nil
}
