// =============================================================================
// Event Sales Export - Version Command
// =============================================================================
//
// Prints which build of the exporter produced a workbook. The workbook's
// app.xml names the application but not its version, so operators quote
// this output when reporting a report discrepancy.
//
// OUTPUT:
//   Event Sales Export 0.1.0
//   Built:      2026-07-01
//   Runtime:    go1.24.11 linux/amd64
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version and BuildDate are stamped by the release build:
//
//   go build -ldflags "-X github.com/ginjaninja78/event-sales-export/cmd.Version=0.2.0 \
//     -X github.com/ginjaninja78/event-sales-export/cmd.BuildDate=$(date +%F)"
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the exporter build",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Event Sales Export %s\n", Version)
		fmt.Fprintf(out, "Built:      %s\n", BuildDate)
		fmt.Fprintf(out, "Runtime:    %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
