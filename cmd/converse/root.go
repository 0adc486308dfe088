package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"mercator-hq/converse/pkg/cli"
	"mercator-hq/converse/pkg/config"
	"mercator-hq/converse/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	// Set by loadConfig before any subcommand runs.
	cfg    *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "converse",
	Short: "converse - chat with OpenAI-compatible completion APIs",
	Long: `converse is a terminal client for OpenAI-compatible chat completion APIs.

It keeps a bounded window of recent messages, sends them with your system
prompts on every turn and prints the reply. Transcripts can be recorded to
SQLite and resumed later.

The API key is read from OPENAI_API_KEY unless configured otherwise.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := cli.SetupSignalHandler(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "converse.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return cli.NewUsageError(err.Error())
	})
}

// loadConfig reads the configuration and installs the process logger.
// The default config path may be absent; an explicit --config must exist.
func loadConfig(cmd *cobra.Command, args []string) error {
	optional := !cmd.Flags().Changed("config")

	loaded, err := config.LoadConfigWithEnvOverrides(cfgFile, optional)
	if err != nil {
		return err
	}

	l, err := logging.New(logging.FromConfig(loaded.Telemetry.Logging))
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if verbose {
		l.SetLevel(slog.LevelDebug)
	}
	slog.SetDefault(l.Slog())

	cfg, logger = loaded, l
	return nil
}
