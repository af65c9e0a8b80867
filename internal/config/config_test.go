package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/fgscrap/internal/extract"
	"github.com/nao1215/fgscrap/internal/model"
)

// TestNewConfig tests the default configuration.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.StartPage != 1 {
		t.Errorf("StartPage = %d, want 1", cfg.StartPage)
	}
	if cfg.EndPage != model.MaxPageNumber {
		t.Errorf("EndPage = %d, want %d", cfg.EndPage, model.MaxPageNumber)
	}
	if cfg.Filter != model.FilterNone {
		t.Errorf("Filter = %s, want none", cfg.Filter)
	}
	if cfg.SaveDir != "./output" {
		t.Errorf("SaveDir = %q, want ./output", cfg.SaveDir)
	}
	if cfg.DBDir != XDGDataDir() {
		t.Errorf("DBDir = %q, want %q", cfg.DBDir, XDGDataDir())
	}
	if cfg.FetchWorkers != DefaultFetchWorkers || cfg.DecryptWorkers != DefaultDecryptWorkers {
		t.Errorf("workers = %d/%d", cfg.FetchWorkers, cfg.DecryptWorkers)
	}
	if cfg.Selectors != extract.DefaultSelectors() {
		t.Errorf("Selectors = %+v", cfg.Selectors)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must be valid: %v", err)
	}
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"zero start page", func(c *Config) { c.StartPage = 0 }, ErrInvalidPageRange},
		{"start after end", func(c *Config) { c.StartPage, c.EndPage = 5, 4 }, ErrInvalidPageRange},
		{"single page", func(c *Config) { c.StartPage, c.EndPage = 4, 4 }, nil},
		{"no fetch workers", func(c *Config) { c.FetchWorkers = 0 }, ErrInvalidFetchWorkers},
		{"no decrypt workers", func(c *Config) { c.DecryptWorkers = -2 }, ErrInvalidDecryptWorkers},
		{"empty save dir", func(c *Config) { c.SaveDir = "" }, ErrEmptySaveDir},
		{"empty db dir", func(c *Config) { c.DBDir = "" }, ErrEmptyDBDir},
		{"relative base url", func(c *Config) { c.BaseURL = "/page" }, ErrInvalidBaseURL},
		{"ftp base url", func(c *Config) { c.BaseURL = "ftp://site.example" }, ErrInvalidBaseURL},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadConfigFile tests configuration file loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads every field", func(t *testing.T) {
		t.Parallel()

		path := writeConfigFile(t, `
base_url: https://mirror.example
save_dir: /srv/torrents
db_dir: /var/lib/fgscrap
filter: no-adult
fetch_workers: 3
decrypt_workers: 7
timeout: 15s
user_agent: test-agent
proxy: 127.0.0.1:9050
metrics_addr: :9100
log_file: /var/log/fgscrap.log
selectors:
  end_marker: div.no-results
`)
		f, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}

		cfg := NewConfig()
		f.Apply(cfg)

		if cfg.BaseURL != "https://mirror.example" || cfg.SaveDir != "/srv/torrents" || cfg.DBDir != "/var/lib/fgscrap" {
			t.Errorf("paths not applied: %+v", cfg)
		}
		if cfg.Filter != model.FilterNoAdult {
			t.Errorf("Filter = %s, want no-adult", cfg.Filter)
		}
		if cfg.FetchWorkers != 3 || cfg.DecryptWorkers != 7 {
			t.Errorf("workers = %d/%d, want 3/7", cfg.FetchWorkers, cfg.DecryptWorkers)
		}
		if cfg.Timeout != 15*time.Second {
			t.Errorf("Timeout = %s, want 15s", cfg.Timeout)
		}
		if cfg.UserAgent != "test-agent" || cfg.ProxyAddress != "127.0.0.1:9050" {
			t.Errorf("transport settings not applied: %+v", cfg)
		}
		if cfg.MetricsAddr != ":9100" || cfg.LogFile != "/var/log/fgscrap.log" {
			t.Errorf("ambient settings not applied: %+v", cfg)
		}
		if cfg.Selectors.EndMarker != "div.no-results" {
			t.Errorf("EndMarker = %q", cfg.Selectors.EndMarker)
		}
		if cfg.Selectors.Item != extract.DefaultItem {
			t.Errorf("unset selectors must keep defaults, Item = %q", cfg.Selectors.Item)
		}
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()

		f, err := LoadConfigFile(writeConfigFile(t, ""))
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}
		cfg := NewConfig()
		f.Apply(cfg)
		if *cfg != *NewConfig() {
			t.Errorf("empty file changed the config: %+v", cfg)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown filter", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(writeConfigFile(t, "filter: sometimes\n"))
		if err == nil {
			t.Error("expected an error for an unknown filter")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfigFile(writeConfigFile(t, "fetch_workers: [1,\n")); err == nil {
			t.Error("expected a parse error")
		}
	})
}

// TestFindConfigFile tests the explicit path lookup.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, "")
	if got := FindConfigFile(path); got != path {
		t.Errorf("FindConfigFile(%q) = %q", path, got)
	}

	missing := filepath.Join(t.TempDir(), "nope.yaml")
	if got := FindConfigFile(missing); got != "" {
		t.Errorf("FindConfigFile(%q) = %q, want empty", missing, got)
	}
}
