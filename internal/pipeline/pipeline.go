package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/fgscrap/internal/extract"
	"github.com/nao1215/fgscrap/internal/model"
)

// PageFetcher retrieves the content of one listing page.
type PageFetcher interface {
	Page(ctx context.Context, n model.PageNumber) (string, error)
}

// Extractor turns page content into candidates.
type Extractor interface {
	Extract(content string) (*extract.Result, error)
}

// Decoder retrieves and decrypts the payload a candidate points at.
type Decoder interface {
	Decode(ctx context.Context, ref string) (*model.Artifact, error)
}

// Store is the dedup store. Lookup and Save each run in one transaction.
type Store interface {
	Lookup(ctx context.Context, titles []string) (map[string]string, error)
	Save(ctx context.Context, records []model.Record) error
}

// Config holds the pipeline sizing and output settings.
type Config struct {
	// StartPage and EndPage bound the crawled range, both inclusive.
	StartPage model.PageNumber
	EndPage   model.PageNumber

	// FetchWorkers is the fetch pool size and the page queue capacity.
	FetchWorkers int

	// DecryptWorkers is the decrypt pool size and the content queue capacity.
	DecryptWorkers int

	// SaveDir receives the decoded artifact files. It must exist.
	SaveDir string
}

// Stats summarizes one Run.
type Stats struct {
	PagesFetched  int64
	PagesDropped  int64
	Candidates    int64
	Skipped       int64
	Saved         int64
	Recorded      int64
	MissingAttach int64
	DecodeFailed  int64
	EndReached    bool
}

// counters is the mutable form of Stats shared by the workers.
type counters struct {
	pagesFetched  atomic.Int64
	pagesDropped  atomic.Int64
	candidates    atomic.Int64
	skipped       atomic.Int64
	saved         atomic.Int64
	recorded      atomic.Int64
	missingAttach atomic.Int64
	decodeFailed  atomic.Int64
	endReached    atomic.Bool
}

func (c *counters) snapshot() Stats {
	return Stats{
		PagesFetched:  c.pagesFetched.Load(),
		PagesDropped:  c.pagesDropped.Load(),
		Candidates:    c.candidates.Load(),
		Skipped:       c.skipped.Load(),
		Saved:         c.saved.Load(),
		Recorded:      c.recorded.Load(),
		MissingAttach: c.missingAttach.Load(),
		DecodeFailed:  c.decodeFailed.Load(),
		EndReached:    c.endReached.Load(),
	}
}

// Pipeline wires the producer and the two worker pools to their
// collaborators.
//
// Design decision: Collaborators are interfaces owned by this package so
// tests can drive the pools with in-memory fakes, and pool sizes live in
// Config rather than constants so tests can build small deterministic
// pools.
type Pipeline struct {
	cfg       Config
	fetcher   PageFetcher
	extractor Extractor
	decoder   Decoder
	store     Store
	flag      *Flag
	logger    *slog.Logger
	stats     counters
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithFlag shares an existing termination flag, typically the one an
// interrupt watcher sets.
func WithFlag(flag *Flag) Option {
	return func(p *Pipeline) {
		p.flag = flag
	}
}

// New validates cfg and creates a Pipeline.
func New(cfg Config, fetcher PageFetcher, extractor Extractor, decoder Decoder, store Store, opts ...Option) (*Pipeline, error) {
	switch {
	case cfg.StartPage > cfg.EndPage:
		return nil, fmt.Errorf("%w: start page %d is after end page %d", ErrInvalidConfig, cfg.StartPage, cfg.EndPage)
	case cfg.FetchWorkers < 1:
		return nil, fmt.Errorf("%w: fetch workers must be at least 1", ErrInvalidConfig)
	case cfg.DecryptWorkers < 1:
		return nil, fmt.Errorf("%w: decrypt workers must be at least 1", ErrInvalidConfig)
	case cfg.SaveDir == "":
		return nil, fmt.Errorf("%w: save directory is empty", ErrInvalidConfig)
	case fetcher == nil || extractor == nil || decoder == nil || store == nil:
		return nil, fmt.Errorf("%w: missing collaborator", ErrInvalidConfig)
	}

	p := &Pipeline{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: extractor,
		decoder:   decoder,
		store:     store,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.flag == nil {
		p.flag = &Flag{}
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p, nil
}

// Flag returns the termination flag the pipeline polls.
func (p *Pipeline) Flag() *Flag {
	return p.flag
}

// Run crawls the configured page range until it is exhausted or the flag
// is set, and returns once every stage has finished.
//
// Cancelling ctx sets the flag; it does not abort in-flight batches, which
// still commit. The returned error is the first persistence or extraction
// failure that terminated a decrypt worker; per-page and per-candidate
// failures are only logged and counted.
//
// A Pipeline is meant to run once. Stats accumulate across calls.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	stopOnCancel := context.AfterFunc(ctx, func() {
		if p.flag.Stop() {
			p.logger.Warn("context cancelled, stopping after in-flight work")
		}
	})
	defer stopOnCancel()

	pages := newQueue[model.PageNumber](p.cfg.FetchWorkers)
	contents := newQueue[string](p.cfg.DecryptWorkers)

	p.logger.Info("starting crawl",
		"start_page", p.cfg.StartPage,
		"end_page", p.cfg.EndPage,
		"fetch_workers", p.cfg.FetchWorkers,
		"decrypt_workers", p.cfg.DecryptWorkers,
		"save_dir", p.cfg.SaveDir,
	)
	startTime := time.Now()

	var g errgroup.Group

	g.Go(func() error {
		p.produce(pages)
		return nil
	})

	g.Go(func() error {
		var fetchers errgroup.Group
		for id := range p.cfg.FetchWorkers {
			fetchers.Go(func() error {
				p.fetchLoop(ctx, id, pages, contents)
				return nil
			})
		}
		_ = fetchers.Wait() //nolint:errcheck // fetch workers never fail
		pages.abandon()
		contents.close()
		return nil
	})

	g.Go(func() error {
		var decrypters errgroup.Group
		for id := range p.cfg.DecryptWorkers {
			decrypters.Go(func() error {
				return p.decryptLoop(ctx, id, contents)
			})
		}
		err := decrypters.Wait()
		contents.abandon()
		return err
	})

	err := g.Wait()
	stats := p.stats.snapshot()

	p.logger.Info("crawl finished",
		"elapsed", time.Since(startTime),
		"pages_fetched", stats.PagesFetched,
		"pages_dropped", stats.PagesDropped,
		"candidates", stats.Candidates,
		"skipped", stats.Skipped,
		"saved", stats.Saved,
		"end_reached", stats.EndReached,
	)

	return stats, err
}
