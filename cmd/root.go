// =============================================================================
// Event Sales Export - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'export', 'check') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (event-sales-export)
//   ├── exportCmd (event-sales-export export)
//   ├── checkCmd (event-sales-export check)
//   └── versionCmd (event-sales-export version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file
//   3. Setting up logging and storing the logger on the command context
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/event-sales-export/internal/config"
	"github.com/ginjaninja78/event-sales-export/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// appConfig is the configuration loaded by the root command.
var appConfig *config.Config

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "event-sales-export",
	Short: "Event Sales Export - Turn a sales ledger snapshot into an XLSX report",
	Long: `Event Sales Export reads a point-of-sale ledger snapshot (JSON or YAML)
and produces a four-sheet XLSX report workbook:

  Registry    one row per transaction, refunds next to their originals
  Currencies  takings per currency and payment method
  Products    sales per product, broken down by payment method
  Groups      sales per category and per subgroup

Example Usage:
  event-sales-export export --snapshot fair.yaml
  event-sales-export export --snapshot fair.json --day 2026-07-04
  event-sales-export check --snapshot fair.yaml`,

	SilenceUsage: true,

	// PersistentPreRunE loads the configuration and the logger before any
	// subcommand runs.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cfgFile, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		log, err := logger.New(level, cfg.LogFormat)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		appConfig = cfg
		cmd.SetContext(logger.WithContext(cmd.Context(), log))
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and runs it.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration file. A missing file at the default
// path falls back to the built-in defaults; an explicitly named file must
// exist.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, err
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// --config flag: Allows the user to specify a custom configuration file.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
