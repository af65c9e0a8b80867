package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/fgscrap/internal/config"
)

// loadConfig builds the configuration shared by all commands: defaults,
// then the configuration file, then the global flags the user set.
//
// Design decision: Flags only override the file when they were set on the
// command line. Otherwise a flag's default would silently replace a value
// the user wrote into the file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	explicitPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named file must exist; the default locations are optional.
	if path := config.FindConfigFile(explicitPath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		file.Apply(cfg)
		cfg.ConfigFilePath = path
	} else if explicitPath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicitPath)
	}

	if changed(cmd, "db-dir") {
		if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
			return nil, err
		}
	}

	if cfg.Verbose, err = cmd.Flags().GetBool("verbose"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// changed reports whether the named flag exists and was set by the user.
func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}
