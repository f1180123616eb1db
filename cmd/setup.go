package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/sfx/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the default configuration to --config and validates that it loads.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		return fmt.Errorf("%w: --config must not be empty", shared.ErrMissingArgument)
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	r.logger.Info("creating config file from template", "path", configPath)
	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("created config does not load: %w", err)
	}
	r.config = config

	r.writePlain("✓ Config written to %s\n", configPath)
	r.writePlainln("Defaults:")
	r.writePlain("  api.base_url    = %s\n", config.API.BaseURL)
	r.writePlain("  api.timeout     = %s\n", config.API.Timeout())
	r.writePlain("  export.format   = %s\n", config.Export.Format)
	r.writePlain("  server          = %s\n", config.Server.Addr())
	r.writePlainln("Override the API base with %s or edit the file directly.", shared.EnvAPIBase)
	return nil
}
