package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for fgscrap.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fgscrap",
		Short: "Crawl a repack listing and save its torrent files",
		Long: `fgscrap crawls a paginated repack listing page by page, decrypts the
paste behind every ".torrent file only" link, and saves the torrent files.

Every saved title is recorded in a local database. A title whose torrent
file still exists in the save directory is skipped on later runs, so an
interrupted crawl can simply be started again.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .fgscrap.yaml in current directory or config.yaml in the XDG config directory)")
	cmd.PersistentFlags().String("db-dir", "",
		"Directory of the dedup database (default: XDG data directory)")

	// Add subcommands
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
