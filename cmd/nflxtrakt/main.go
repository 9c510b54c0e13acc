package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/amaumene/nflxtrakt/internal/config"
	"github.com/amaumene/nflxtrakt/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "nflxtrakt",
		Short:         "Import a Netflix viewing history into Trakt",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newParseCommand(),
		newSyncCommand(),
		newServeCommand(),
		newAuthCommand(),
		newFixDatesCommand(),
	)

	return root
}

// setup loads the configuration and builds the logger shared by all commands
func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Debug("Configuration loaded")

	return cfg, logger, nil
}
