package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/fgscrap/internal/extract"
	"github.com/nao1215/fgscrap/internal/model"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".fgscrap.yaml"

// File represents the structure of the configuration file.
// Every field is optional; zero values leave the built-in default in place.
type File struct {
	BaseURL        string            `yaml:"base_url,omitempty"`
	SaveDir        string            `yaml:"save_dir,omitempty"`
	DBDir          string            `yaml:"db_dir,omitempty"`
	Filter         *model.Filter     `yaml:"filter,omitempty"`
	FetchWorkers   int               `yaml:"fetch_workers,omitempty"`
	DecryptWorkers int               `yaml:"decrypt_workers,omitempty"`
	Timeout        time.Duration     `yaml:"timeout,omitempty"`
	UserAgent      string            `yaml:"user_agent,omitempty"`
	Proxy          string            `yaml:"proxy,omitempty"`
	MetricsAddr    string            `yaml:"metrics_addr,omitempty"`
	LogFile        string            `yaml:"log_file,omitempty"`
	Selectors      extract.Selectors `yaml:"selectors,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Apply copies every value set in the file onto cfg.
func (f *File) Apply(cfg *Config) {
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.SaveDir != "" {
		cfg.SaveDir = f.SaveDir
	}
	if f.DBDir != "" {
		cfg.DBDir = f.DBDir
	}
	if f.Filter != nil {
		cfg.Filter = *f.Filter
	}
	if f.FetchWorkers != 0 {
		cfg.FetchWorkers = f.FetchWorkers
	}
	if f.DecryptWorkers != 0 {
		cfg.DecryptWorkers = f.DecryptWorkers
	}
	if f.Timeout != 0 {
		cfg.Timeout = f.Timeout
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.Proxy != "" {
		cfg.ProxyAddress = f.Proxy
	}
	if f.MetricsAddr != "" {
		cfg.MetricsAddr = f.MetricsAddr
	}
	if f.LogFile != "" {
		cfg.LogFile = f.LogFile
	}
	cfg.Selectors = cfg.Selectors.Merge(f.Selectors)
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .fgscrap.yaml in the current directory
// 3. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
