// =============================================================================
// Event Sales Export - Export Command
// =============================================================================
//
// This file defines the 'export' command, which turns one snapshot file into
// one XLSX report workbook.
//
// COMMAND USAGE:
//   event-sales-export export --snapshot <file> [flags]
//
// FLAGS:
//   --snapshot : Path to the snapshot file (.json, .yaml or .yml)
//   --operator : Name recorded as the workbook author
//   --day      : Export only one calendar day (YYYY-MM-DD, configured timezone)
//   --out      : Write to this path instead of a generated name in output_dir
//   --dry-run  : Build the workbook without writing it
//
// EXPORT PIPELINE:
//   1. Load the snapshot
//   2. Build the workbook
//   3. Write the file atomically
//   4. Print a summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/event-sales-export/internal/ledger"
	"github.com/ginjaninja78/event-sales-export/internal/logger"
	"github.com/ginjaninja78/event-sales-export/internal/report"
	"github.com/ginjaninja78/event-sales-export/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// snapshotPath is the snapshot file to read. Shared with the check command.
var snapshotPath string

// operator is the name recorded as the workbook author.
var operator string

// day restricts the export to a single calendar day.
var day string

// outPath overrides the generated output path.
var outPath string

// dryRun builds the workbook without writing output files.
var dryRun bool

// dayLayout is the format of the --day flag.
const dayLayout = "2006-01-02"

// =============================================================================
// EXPORT COMMAND DEFINITION
// =============================================================================

// exportCmd represents the 'export' command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a snapshot to an XLSX report workbook",
	Long: `The export command reads a ledger snapshot and writes the report workbook.

Snapshot anomalies (unknown currencies, orphaned products, mismatched splits)
are logged as warnings and never stop the export.

The output file is named after file_name_format in the configuration unless
--out is given, and is written atomically: a failed export never leaves a
partial file behind.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the export command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Path to the snapshot file (required)")
	exportCmd.Flags().StringVar(&operator, "operator", "", "Name recorded as the workbook author")
	exportCmd.Flags().StringVar(&day, "day", "", "Export only this day (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&outPath, "out", "", "Output file path")
	exportCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build the workbook without writing it")
	exportCmd.MarkFlagRequired("snapshot")
}

// =============================================================================
// MAIN EXPORT FUNCTION
// =============================================================================

// runExport runs the export pipeline for the parsed flags.
func runExport(cmd *cobra.Command) error {
	log := logger.FromContext(cmd.Context())
	out := cmd.OutOrStdout()
	cfg := appConfig
	loc := cfg.Location()

	// =========================================================================
	// STEP 1: LOAD SNAPSHOT
	// =========================================================================

	ev, err := ledger.LoadFile(snapshotPath)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	log.Debug().
		Str("snapshot", snapshotPath).
		Int("transactions", len(ev.Transactions)).
		Int("products", len(ev.Products)).
		Msg("snapshot loaded")

	opts := report.Options{
		Operator:         cfg.Operator,
		Location:         loc,
		TempDir:          cfg.TempDir,
		CompressionLevel: cfg.CompressionLevel,
		Logger:           &log,
	}

	dayLabel := "all"
	if day != "" {
		d, err := time.ParseInLocation(dayLayout, day, loc)
		if err != nil {
			return fmt.Errorf("invalid --day %q: want YYYY-MM-DD", day)
		}
		opts.Day = &d
		dayLabel = day
	}

	// =========================================================================
	// STEP 2: BUILD WORKBOOK
	// =========================================================================

	exporter, err := report.New(opts)
	if err != nil {
		return err
	}
	if cfg.TempDir != "" {
		if err := cfg.EnsureDirs(); err != nil {
			return err
		}
	}

	result, err := exporter.Export(ev, operator)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	// =========================================================================
	// STEP 3: WRITE OUTPUT
	// =========================================================================

	target := "(dry run)"
	if !dryRun {
		if outPath != "" {
			if err := utils.WriteFileAtomic(outPath, result.Data, 0644); err != nil {
				return err
			}
			target = outPath
		} else {
			fm := utils.NewFileManager(cfg.OutputDir)
			if err := fm.EnsureDirectories(); err != nil {
				return err
			}
			name := utils.GenerateOutputFileName(cfg.FileNameFormat, map[string]string{
				"event": ev.Name,
				"day":   dayLabel,
			}, time.Now().In(loc))
			if target, err = fm.WriteExport(name, result.Data); err != nil {
				return err
			}
		}
		log.Info().Str("path", target).Int("bytes", result.Stats.Bytes).Msg("workbook written")
	}

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	stats := result.Stats
	fmt.Fprintln(out, "=== Export Complete ===")
	fmt.Fprintf(out, "Snapshot:        %s\n", filepath.Base(snapshotPath))
	fmt.Fprintf(out, "Output:          %s\n", target)
	fmt.Fprintf(out, "Day:             %s\n", dayLabel)
	fmt.Fprintf(out, "Transactions:    %d\n", stats.Transactions)
	fmt.Fprintf(out, "Currencies:      %d\n", stats.Currencies)
	fmt.Fprintf(out, "Products:        %d\n", stats.Products)
	fmt.Fprintf(out, "Categories:      %d\n", stats.Categories)
	fmt.Fprintf(out, "Subgroups:       %d\n", stats.Subgroups)
	fmt.Fprintf(out, "Issues:          %d\n", stats.Issues)
	fmt.Fprintf(out, "Size:            %d bytes\n", stats.Bytes)
	fmt.Fprintf(out, "Time elapsed:    %s\n", stats.ProcessingTime)

	return nil
}
