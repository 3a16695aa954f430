// =============================================================================
// Event Sales Export - Check Command
// =============================================================================
//
// This file defines the 'check' command, which loads a snapshot and reports
// the anomalies the export would paper over.
//
// COMMAND USAGE:
//   event-sales-export check --snapshot <file>
//
// EXIT STATUS:
//   Non-zero when the snapshot cannot be loaded or an error-severity issue
//   is found. Warnings alone exit zero.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/event-sales-export/internal/ledger"
)

// checkCmd represents the 'check' command.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report anomalies in a snapshot without exporting",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Path to the snapshot file (required)")
	checkCmd.MarkFlagRequired("snapshot")
}

// runCheck loads the snapshot and prints every issue found.
func runCheck(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	ev, err := ledger.LoadFile(snapshotPath)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	result := ledger.Check(ev)
	if len(result.Issues) == 0 {
		fmt.Fprintf(out, "Snapshot OK: %d transaction(s) checked\n", result.TransactionsChecked)
		return nil
	}

	fmt.Fprint(out, ledger.FormatIssues(result.Issues))
	fmt.Fprintf(out, "\n%d error(s), %d warning(s) in %d transaction(s)\n",
		result.ErrorCount, result.WarningCount, result.TransactionsChecked)

	if !result.OK() {
		return fmt.Errorf("snapshot has %d error(s)", result.ErrorCount)
	}
	return nil
}
