package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/fgscrap/internal/extract"
	"github.com/nao1215/fgscrap/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "fgscrap"

	// DefaultBaseURL is the listing site crawled by default.
	DefaultBaseURL = "https://fitgirl-repacks.site"

	// DefaultStartPage is the first listing page requested.
	DefaultStartPage model.PageNumber = 1

	// DefaultEndPage means "until the listing reports its end".
	DefaultEndPage = model.MaxPageNumber

	// DefaultSaveDir is the directory decoded artifacts are written to.
	DefaultSaveDir = "./output"

	// DefaultFetchWorkers is the fetch pool size. Page fetches are cheap
	// compared with paste decoding, so this pool is the smaller one.
	DefaultFetchWorkers = 5

	// DefaultDecryptWorkers is the extract+decrypt pool size. Each worker
	// issues one paste request per candidate, so this pool is larger.
	DefaultDecryptWorkers = 10

	// DefaultTimeout bounds each HTTP request, listing page or paste.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
)

// Config holds all configuration options for a scrape run.
// It is populated from the config file and CLI flags and passed through the
// application rather than kept in global state.
type Config struct {
	// StartPage is the first page number emitted by the producer.
	StartPage model.PageNumber

	// EndPage is the last page number emitted by the producer (inclusive).
	EndPage model.PageNumber

	// Filter selects which listing items become candidates.
	Filter model.Filter

	// SaveDir is the output directory for decoded artifacts.
	SaveDir string

	// DBDir is the directory holding the dedup database file.
	// Defaults to the XDG data directory (~/.local/share/fgscrap on Linux).
	DBDir string

	// BaseURL is the listing site; pages are fetched from {BaseURL}/page/{n}/.
	BaseURL string

	// FetchWorkers is the number of parallel page fetchers. It is also the
	// capacity of the page queue.
	FetchWorkers int

	// DecryptWorkers is the number of parallel extract+decrypt workers. It is
	// also the capacity of the content queue.
	DecryptWorkers int

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	ProxyAddress string

	// MetricsAddr, when set, serves Prometheus metrics on this address.
	MetricsAddr string

	// LogFile, when set, additionally writes JSON logs to this rotating file.
	LogFile string

	// Verbose enables debug level logging.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// Selectors are the CSS selectors used by the extract stage.
	Selectors extract.Selectors
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor instead of relying on zero values
// because most defaults are non-zero. This also documents the defaults.
func NewConfig() *Config {
	return &Config{
		StartPage:      DefaultStartPage,
		EndPage:        DefaultEndPage,
		Filter:         model.FilterNone,
		SaveDir:        DefaultSaveDir,
		DBDir:          XDGDataDir(),
		BaseURL:        DefaultBaseURL,
		FetchWorkers:   DefaultFetchWorkers,
		DecryptWorkers: DefaultDecryptWorkers,
		Timeout:        DefaultTimeout,
		UserAgent:      DefaultUserAgent,
		Selectors:      extract.DefaultSelectors(),
	}
}

// XDGDataDir returns the XDG data directory for fgscrap.
// On Linux: ~/.local/share/fgscrap
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for fgscrap.
// On Linux: ~/.config/fgscrap
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
//
// Design decision: We validate once after flag parsing, before any network
// or storage work starts, so that mistakes fail fast with a clear message.
func (c *Config) Validate() error {
	if c.StartPage == 0 || c.StartPage > c.EndPage {
		return ErrInvalidPageRange
	}

	if c.FetchWorkers <= 0 {
		return ErrInvalidFetchWorkers
	}

	if c.DecryptWorkers <= 0 {
		return ErrInvalidDecryptWorkers
	}

	if c.SaveDir == "" {
		return ErrEmptySaveDir
	}

	if c.DBDir == "" {
		return ErrEmptyDBDir
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	return nil
}
