// =============================================================================
// Event Sales Export - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Event Sales Export CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   event-sales-export export   - Export a snapshot to an XLSX report
//   event-sales-export check    - Report anomalies in a snapshot
//   event-sales-export version  - Display the application version
//
// ARCHITECTURE:
//   - cmd/                 : CLI command definitions (Cobra)
//   - internal/ledger      : Snapshot model, loading and checks
//   - internal/money       : Currency conversion and split allocation
//   - internal/aggregate   : Aggregation passes
//   - internal/workbook    : In-memory workbook model
//   - internal/xlsxwriter  : OOXML package serializer
//   - internal/report      : Export orchestration and sheet layout
//   - pkg/utils            : File naming and atomic writes
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/event-sales-export/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
