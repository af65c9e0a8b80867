package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/fgscrap/internal/client"
	"github.com/nao1215/fgscrap/internal/config"
	"github.com/nao1215/fgscrap/internal/database"
	"github.com/nao1215/fgscrap/internal/extract"
	"github.com/nao1215/fgscrap/internal/log"
	"github.com/nao1215/fgscrap/internal/metrics"
	"github.com/nao1215/fgscrap/internal/model"
	"github.com/nao1215/fgscrap/internal/paste"
	"github.com/nao1215/fgscrap/internal/pipeline"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Crawl the listing and save torrent files",
		Long: `Scrape requests listing pages in ascending order, starting at --start-page,
until --end-page or until the site reports that there are no more pages.

For every listing item that passes --filter, the paste behind its
".torrent file only" link is decrypted and the attached torrent is written
to --save-dir. Titles already recorded with an existing file are skipped.

Press Ctrl+C once to stop after the work in progress; press it again to
exit immediately.

Examples:
  # Crawl everything into ./output
  fgscrap scrape

  # Crawl pages 10 to 20 without adult titles
  fgscrap scrape --start-page 10 --end-page 20 --filter no-adult

  # Crawl through a local Tor daemon and expose metrics
  fgscrap scrape --proxy 127.0.0.1:9050 --metrics-addr 127.0.0.1:9100`,
		Args: cobra.NoArgs,
		RunE: runScrapeCmd,
	}

	filter := model.FilterNone

	// Crawl range and selection
	cmd.Flags().Uint32P("start-page", "s", uint32(config.DefaultStartPage),
		"First listing page to request")
	cmd.Flags().Uint32P("end-page", "e", uint32(config.DefaultEndPage),
		"Last listing page to request (default: until the listing ends)")
	cmd.Flags().VarP(&filter, "filter", "f",
		"Listing items to download: none, adult-only or no-adult")
	cmd.Flags().StringP("save-dir", "o", config.DefaultSaveDir,
		"Directory to write torrent files to")

	// Pool sizes
	cmd.Flags().Int("fetch-workers", config.DefaultFetchWorkers,
		"Number of parallel page fetchers")
	cmd.Flags().Int("decrypt-workers", config.DefaultDecryptWorkers,
		"Number of parallel paste decoders")

	// Transport
	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"Listing site URL")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address (e.g., 127.0.0.1:9050)")

	// Observability
	cmd.Flags().String("metrics-addr", "",
		"Serve Prometheus metrics on this address (e.g., 127.0.0.1:9100)")
	cmd.Flags().String("log-file", "",
		"Also write JSON logs to this rotating file")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildScrapeConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, closer, err := log.NewLogger(log.Options{
		Writer:  cmd.ErrOrStderr(),
		Verbose: cfg.Verbose,
		File:    cfg.LogFile,
	})
	if err != nil {
		return err
	}
	defer closer.Close()
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// The first interrupt sets the flag, the second exits the process.
	flag := &pipeline.Flag{}
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go pipeline.WatchInterrupts(sigCh, flag, os.Exit, logger)
	defer func() {
		signal.Stop(sigCh)
		close(sigCh)
	}()

	return runScrape(ctx, cfg, flag, logger, cmd.OutOrStdout())
}

// buildScrapeConfig applies the scrape flags the user set on top of the
// shared configuration.
func buildScrapeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if changed(cmd, "start-page") {
		n, err := flags.GetUint32("start-page")
		if err != nil {
			return nil, err
		}
		cfg.StartPage = model.PageNumber(n)
	}
	if changed(cmd, "end-page") {
		n, err := flags.GetUint32("end-page")
		if err != nil {
			return nil, err
		}
		cfg.EndPage = model.PageNumber(n)
	}
	if changed(cmd, "filter") {
		filter, ok := flags.Lookup("filter").Value.(*model.Filter)
		if !ok {
			return nil, fmt.Errorf("unexpected filter flag type %T", flags.Lookup("filter").Value)
		}
		cfg.Filter = *filter
	}

	stringFlags := map[string]*string{
		"save-dir":     &cfg.SaveDir,
		"base-url":     &cfg.BaseURL,
		"user-agent":   &cfg.UserAgent,
		"proxy":        &cfg.ProxyAddress,
		"metrics-addr": &cfg.MetricsAddr,
		"log-file":     &cfg.LogFile,
	}
	for name, target := range stringFlags {
		if !changed(cmd, name) {
			continue
		}
		if *target, err = flags.GetString(name); err != nil {
			return nil, err
		}
	}

	if changed(cmd, "fetch-workers") {
		if cfg.FetchWorkers, err = flags.GetInt("fetch-workers"); err != nil {
			return nil, err
		}
	}
	if changed(cmd, "decrypt-workers") {
		if cfg.DecryptWorkers, err = flags.GetInt("decrypt-workers"); err != nil {
			return nil, err
		}
	}
	if changed(cmd, "timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// runScrape wires the collaborators and runs the pipeline to completion.
func runScrape(ctx context.Context, cfg *config.Config, flag *pipeline.Flag, logger *slog.Logger, out io.Writer) error {
	if err := os.MkdirAll(cfg.SaveDir, 0750); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Debug("database opened", "path", db.Path())

	opts := []client.Option{
		client.WithTimeout(cfg.Timeout),
		client.WithUserAgent(cfg.UserAgent),
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, client.WithProxy(cfg.ProxyAddress))
	}
	c, err := client.New(cfg.BaseURL, opts...)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	ex, err := extract.NewExtractor(cfg.Selectors, extract.WithFilter(cfg.Filter))
	if err != nil {
		return fmt.Errorf("failed to compile selectors: %w", err)
	}

	// Pastes go through the same transport so the proxy applies to them too.
	decoder := paste.NewDecoder(c.HTTPClient())

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, logger); err != nil {
				logger.Error("metrics server failed", "address", cfg.MetricsAddr, "error", err)
			}
		}()
	}

	p, err := pipeline.New(
		pipeline.Config{
			StartPage:      cfg.StartPage,
			EndPage:        cfg.EndPage,
			FetchWorkers:   cfg.FetchWorkers,
			DecryptWorkers: cfg.DecryptWorkers,
			SaveDir:        cfg.SaveDir,
		},
		c, ex, decoder, db,
		pipeline.WithLogger(logger),
		pipeline.WithFlag(flag),
	)
	if err != nil {
		return err
	}

	stats, err := p.Run(ctx)
	printSummary(out, stats)
	if err != nil {
		return fmt.Errorf("scrape stopped: %w", err)
	}
	return nil
}

// printSummary writes a short human readable summary of a run.
func printSummary(out io.Writer, stats pipeline.Stats) {
	fmt.Fprintf(out, "Pages fetched:      %d (dropped %d)\n", stats.PagesFetched, stats.PagesDropped)
	fmt.Fprintf(out, "Candidates:         %d (already saved %d)\n", stats.Candidates, stats.Skipped)
	fmt.Fprintf(out, "Torrents written:   %d\n", stats.Saved)
	fmt.Fprintf(out, "Missing attachment: %d\n", stats.MissingAttach)
	fmt.Fprintf(out, "Decode failures:    %d\n", stats.DecodeFailed)
	if stats.EndReached {
		fmt.Fprintln(out, "Reached the end of the listing.")
	}
}
