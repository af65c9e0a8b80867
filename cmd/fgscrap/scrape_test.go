package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/fgscrap/internal/config"
	"github.com/nao1215/fgscrap/internal/database"
	"github.com/nao1215/fgscrap/internal/model"
	"github.com/nao1215/fgscrap/internal/pipeline"
)

// scrapeCmdWithArgs returns the scrape subcommand of a fresh root command
// with args parsed, including the inherited global flags.
func scrapeCmdWithArgs(t *testing.T, args ...string) *config.Config {
	t.Helper()

	root := NewRootCmd()
	cmd, _, err := root.Find([]string{"scrape"})
	if err != nil {
		t.Fatalf("failed to find scrape command: %v", err)
	}
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	cfg, err := buildScrapeConfig(cmd)
	if err != nil {
		t.Fatalf("buildScrapeConfig() error = %v", err)
	}
	return cfg
}

// TestNewScrapeCmd tests the scrape command flags.
func TestNewScrapeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScrapeCmd()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"start-page", "s", "1"},
		{"end-page", "e", fmt.Sprint(uint32(config.DefaultEndPage))},
		{"filter", "f", "none"},
		{"save-dir", "o", config.DefaultSaveDir},
		{"fetch-workers", "", fmt.Sprint(config.DefaultFetchWorkers)},
		{"decrypt-workers", "", fmt.Sprint(config.DefaultDecryptWorkers)},
		{"base-url", "", config.DefaultBaseURL},
		{"timeout", "t", config.DefaultTimeout.String()},
		{"user-agent", "", config.DefaultUserAgent},
		{"proxy", "", ""},
		{"metrics-addr", "", ""},
		{"log-file", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected flag %q", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
		})
	}
}

// TestBuildScrapeConfig tests how flags and the configuration file combine.
func TestBuildScrapeConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cfg := scrapeCmdWithArgs(t, "--config", emptyConfig(t))

		if cfg.StartPage != config.DefaultStartPage || cfg.EndPage != config.DefaultEndPage {
			t.Errorf("unexpected page range %d..%d", cfg.StartPage, cfg.EndPage)
		}
		if cfg.Filter != model.FilterNone {
			t.Errorf("expected no filter, got %s", cfg.Filter)
		}
		if cfg.FetchWorkers != config.DefaultFetchWorkers || cfg.DecryptWorkers != config.DefaultDecryptWorkers {
			t.Errorf("unexpected pool sizes %d/%d", cfg.FetchWorkers, cfg.DecryptWorkers)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("default configuration must be valid: %v", err)
		}
	})

	t.Run("flags override", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		cfg := scrapeCmdWithArgs(t,
			"--config", emptyConfig(t),
			"-s", "3", "-e", "9",
			"-f", "no-adult",
			"-o", "/tmp/torrents",
			"--fetch-workers", "2",
			"--decrypt-workers", "4",
			"--base-url", "http://mirror.example",
			"-t", "5s",
			"--user-agent", "test-agent",
			"--proxy", "127.0.0.1:9050",
			"--metrics-addr", "127.0.0.1:9100",
			"--log-file", "scrape.log",
			"--db-dir", dbDir,
			"-v",
		)

		want := config.NewConfig()
		want.StartPage = 3
		want.EndPage = 9
		want.Filter = model.FilterNoAdult
		want.SaveDir = "/tmp/torrents"
		want.FetchWorkers = 2
		want.DecryptWorkers = 4
		want.BaseURL = "http://mirror.example"
		want.Timeout = 5 * time.Second
		want.UserAgent = "test-agent"
		want.ProxyAddress = "127.0.0.1:9050"
		want.MetricsAddr = "127.0.0.1:9100"
		want.LogFile = "scrape.log"
		want.DBDir = dbDir
		want.Verbose = true
		want.ConfigFilePath = cfg.ConfigFilePath

		if *cfg != *want {
			t.Errorf("buildScrapeConfig() =\n%+v\nwant\n%+v", *cfg, *want)
		}
	})

	t.Run("file values survive unset flags", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "save_dir: /srv/torrents\nfetch_workers: 7\nfilter: adult-only\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg := scrapeCmdWithArgs(t, "--config", path, "--decrypt-workers", "3")

		if cfg.SaveDir != "/srv/torrents" {
			t.Errorf("expected save dir from file, got %q", cfg.SaveDir)
		}
		if cfg.FetchWorkers != 7 {
			t.Errorf("expected fetch workers from file, got %d", cfg.FetchWorkers)
		}
		if cfg.Filter != model.FilterAdultOnly {
			t.Errorf("expected filter from file, got %s", cfg.Filter)
		}
		if cfg.DecryptWorkers != 3 {
			t.Errorf("expected decrypt workers from flag, got %d", cfg.DecryptWorkers)
		}
		if cfg.ConfigFilePath != path {
			t.Errorf("expected config path %q, got %q", path, cfg.ConfigFilePath)
		}
	})

	t.Run("flag beats file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("save_dir: /srv/torrents\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg := scrapeCmdWithArgs(t, "--config", path, "-o", "/tmp/elsewhere")
		if cfg.SaveDir != "/tmp/elsewhere" {
			t.Errorf("expected save dir from flag, got %q", cfg.SaveDir)
		}
	})
}

func TestRunScrapeCmdInvalidConfig(t *testing.T) {
	t.Parallel()

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"scrape", "--config", emptyConfig(t), "--fetch-workers", "0"})

	err := root.Execute()
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if !strings.Contains(err.Error(), "configuration error") {
		t.Errorf("unexpected error: %v", err)
	}
}

// newListingSite serves one listing page whose only item links to an
// expired paste, followed by the page that marks the end of the listing.
func newListingSite(t *testing.T) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/page/1/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<html><body>
<article>
  <h1 class="entry-title">Expired Game</h1>
  <a href="%s/paste/?f468a1e5c0ad1e2e#6Xk3pZ">.torrent file only</a>
</article>
</body></html>`, srv.URL)
	})
	mux.HandleFunc("/page/2/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `<html><body><h1 class="page-title">Nothing Found</h1></body></html>`)
	})
	mux.HandleFunc("/paste/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":1,"message":"Paste does not exist, has expired or has been deleted."}`)
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// TestRunScrape runs the whole pipeline against a local listing site.
func TestRunScrape(t *testing.T) {
	t.Parallel()

	srv := newListingSite(t)

	cfg := config.NewConfig()
	cfg.BaseURL = srv.URL
	cfg.SaveDir = filepath.Join(t.TempDir(), "output")
	cfg.DBDir = t.TempDir()
	cfg.FetchWorkers = 1
	cfg.DecryptWorkers = 1
	cfg.Timeout = 5 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := runScrape(ctx, cfg, &pipeline.Flag{}, logger, &out); err != nil {
		t.Fatalf("runScrape() error = %v", err)
	}

	for _, want := range []string{"Decode failures:    1", "Torrents written:   0", "Reached the end of the listing."} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in summary:\n%s", want, out.String())
		}
	}

	if info, err := os.Stat(cfg.SaveDir); err != nil || !info.IsDir() {
		t.Errorf("expected save directory to be created: %v", err)
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(cfg.DBDir, opts)
	if err != nil {
		t.Fatalf("expected database to be created: %v", err)
	}
	defer db.Close()

	count, err := db.Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected no records for an expired paste, got %d", count)
	}
}
