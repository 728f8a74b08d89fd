// Package cli implements the labelscan command-line tool.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/labelscan/backend/config"
	"github.com/labelscan/backend/internal/logger"
)

type app struct {
	version string
	cfg     *config.Config
	verbose bool
}

// NewRootCommand builds the labelscan command tree
func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version}

	rootCmd := &cobra.Command{
		Use:   "labelscan",
		Short: "Score nutrition labels from photos",
		Long: `labelscan reads a photo of a nutrition facts panel and ingredient list,
recognizes its text and prints tips plus a nutrition and ingredients score.

Configuration is read from .env, config.yaml and LABELSCAN_* environment
variables, the same way the HTTP server reads it.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newAnalyzeCommand(a))
	rootCmd.AddCommand(newVersionCommand(a))

	return rootCmd
}

// setup loads configuration and initializes logging before any subcommand runs
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg

	logConfig := cfg.LoggerConfig()
	// stdout carries the report
	if logConfig.Output == "stdout" {
		logConfig.Output = "stderr"
	}
	if a.verbose {
		logConfig.Level = "debug"
	}
	if err := logger.Setup(logConfig); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "labelscan %s\n", a.version)
			return err
		},
	}
}
