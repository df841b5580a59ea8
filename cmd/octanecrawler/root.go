package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"octane-crawler/pkg/config"
	"octane-crawler/pkg/log"
)

// NewRootCmd creates the root command for octanecrawler.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "octanecrawler",
		Short: "Single-page link crawler",
		Long: `octanecrawler fetches one seed page over plain HTTP, extracts the links it
references and records them in a flat link database for a later run to reload.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", config.DefaultConfigPath(), "Path to YAML config file (missing file means defaults)")
	cmd.PersistentFlags().String("loglevel", "info", "Log level (trace, debug, info, warn, error)")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewLinksCmd())
	cmd.AddCommand(NewLedgerCmd())
	cmd.AddCommand(NewValidateCmd())
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

// setup builds the logger and the validated configuration shared by every subcommand.
// Seed overrides are read from --host/--path when the command defines them.
func setup(cmd *cobra.Command) (*config.AppConfig, *logrus.Entry, error) {
	level, err := cmd.Flags().GetString("loglevel")
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(level, cmd.ErrOrStderr())

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Debugf("Configuration loaded from %s", configPath)

	if f := cmd.Flags().Lookup("host"); f != nil && f.Changed {
		cfg.Seed.Host = f.Value.String()
	}
	if f := cmd.Flags().Lookup("path"); f != nil && f.Changed {
		cfg.Seed.Path = f.Value.String()
	}

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		logger.Warn(w)
	}
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
