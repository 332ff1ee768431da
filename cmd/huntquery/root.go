package main

import (
	"fmt"
	"os"

	"mercator-hq/huntquery/pkg/cli"
	"mercator-hq/huntquery/pkg/config"
	"mercator-hq/huntquery/pkg/telemetry/logging"

	"github.com/spf13/cobra"
)

const defaultConfigFile = "huntquery.yaml"

var (
	// Global flags
	cfgFile string
	verbose bool

	// logger is set up by the root command before any subcommand runs
	logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "huntquery",
	Short: "huntquery - threat-hunting query builder",
	Long: `huntquery renders detection queries for a pipe-stage security query
language from typed parameters.

It provides:
  - Five threat-hunting patterns (beaconing, suspicious process trees, app egress)
  - Hunt packs: YAML files of hunts rendered together with triage metadata,
    read from disk or from a Git repository
  - Pack validation for CI
  - Render history that flags hunts whose query changed between runs
  - Watch mode with Prometheus metrics, health endpoints and tracing`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initCommand,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initCommand loads configuration and sets up logging. The default config
// file may be absent; an explicitly named one must exist.
func initCommand(cmd *cobra.Command, args []string) error {
	optional := !cmd.Flags().Changed("config")
	if err := config.Initialize(cfgFile, optional); err != nil {
		return cli.NewConfigError(cfgFile, err)
	}
	cfg := config.GetConfig()

	logCfg := logging.FromConfig(cfg.Telemetry.Logging)
	if verbose {
		logCfg.Level = "debug"
	}
	logCfg.Writer = cmd.ErrOrStderr()

	l, err := logging.New(logCfg)
	if err != nil {
		return cli.NewConfigError(cfgFile, err)
	}
	logger = l

	return nil
}
