// =============================================================================
// Event Sales Export - Export Orchestrator
// =============================================================================
//
// This module is the engine's single entry point: snapshot in, bytes out.
// It runs the aggregation pipeline, lays the results out as four worksheets
// and hands the workbook to the package serializer.
//
// EXPORT PIPELINE:
//   1. Check the snapshot (anomalies are logged, never fatal)
//   2. Select transactions (optionally a single calendar day)
//   3. Run every aggregation pass with one shared converter
//   4. Build Registry, Currencies, Products and Groups, in that order
//   5. Serialize the workbook
//
// CONCURRENCY:
//   An Exporter holds configuration only. Concurrent Export calls share no
//   mutable state, and Export itself starts no goroutines.
//
// =============================================================================

package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/event-sales-export/internal/aggregate"
	"github.com/ginjaninja78/event-sales-export/internal/ledger"
	"github.com/ginjaninja78/event-sales-export/internal/logger"
	"github.com/ginjaninja78/event-sales-export/internal/money"
	"github.com/ginjaninja78/event-sales-export/internal/workbook"
	"github.com/ginjaninja78/event-sales-export/internal/xlsxwriter"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result is the outcome of one export.
type Result struct {
	// Data is the complete XLSX package.
	Data []byte

	Stats ExportStats
}

// ExportStats describes what went into the package.
type ExportStats struct {
	// Transactions is the number of Registry rows.
	Transactions int

	Currencies int
	Products   int
	Categories int
	Subgroups  int

	// ProductColumns is the number of active products on the Registry.
	ProductColumns int

	// Issues is the number of snapshot anomalies found by ledger.Check.
	Issues int

	Bytes          int
	ProcessingTime time.Duration
}

// =============================================================================
// EXPORTER
// =============================================================================

// Options configures an Exporter.
type Options struct {
	// Operator is the default document author, used when Export receives an
	// empty operator.
	Operator string

	// Day restricts the export to one calendar day in Location.
	Day *time.Time

	// Location renders Registry timestamps and resolves Day. Nil means UTC.
	Location *time.Location

	// Now fixes the document timestamp. Nil means time.Now.
	Now func() time.Time

	// TempDir and CompressionLevel are passed to the serializer.
	TempDir          string
	CompressionLevel int

	// Logger receives check warnings and stage timings. Nil disables logging.
	Logger *zerolog.Logger
}

// Exporter builds report workbooks.
type Exporter struct {
	opts   Options
	loc    *time.Location
	now    func() time.Time
	writer *xlsxwriter.Writer
	log    zerolog.Logger
}

// New creates an Exporter.
//
// PARAMETERS:
//   - opts: The export options.
//
// RETURNS:
//   - A new Exporter.
//   - An error if the serializer options are invalid.
func New(opts Options) (*Exporter, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "report").Logger()
	}

	writer, err := xlsxwriter.New(xlsxwriter.Options{
		TempDir:          opts.TempDir,
		CompressionLevel: opts.CompressionLevel,
		Now:              now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create package writer: %w", err)
	}

	return &Exporter{
		opts:   opts,
		loc:    loc,
		now:    now,
		writer: writer,
		log:    log,
	}, nil
}

// Export builds the report workbook for ev.
//
// PARAMETERS:
//   - ev: The event snapshot. It is read, never modified.
//   - operator: The name recorded as document author. Cosmetic only.
//
// RETURNS:
//   - The package bytes and statistics.
//   - The serializer's *xlsxwriter.SerializeError, unchanged, if packaging
//     failed. No partial result is returned with an error.
func (e *Exporter) Export(ev *ledger.Event, operator string) (*Result, error) {
	startTime := time.Now()
	stats := ExportStats{}

	if operator == "" {
		operator = e.opts.Operator
	}
	log := logger.WithFields(e.log, map[string]string{
		"event":    ev.Name,
		"operator": operator,
	})

	// =========================================================================
	// STEP 1: CHECK SNAPSHOT
	// =========================================================================
	// Every anomaly has a fallback in the pipeline; they are only reported.

	check := ledger.Check(ev)
	stats.Issues = len(check.Issues)
	for _, issue := range check.Issues {
		event := log.Warn()
		if issue.Severity == ledger.SeverityError {
			event = log.Error()
		}
		if issue.TransactionID != uuid.Nil {
			event = event.Str("transaction_id", issue.TransactionID.String())
		}
		event.Str("issue", issue.Kind).Msg(issue.Message)
	}

	// =========================================================================
	// STEP 2: SELECT TRANSACTIONS
	// =========================================================================

	txs := ev.Transactions
	if e.opts.Day != nil {
		txs = aggregate.FilterDay(txs, *e.opts.Day, e.loc)
		log.Debug().
			Str("day", e.opts.Day.In(e.loc).Format("2006-01-02")).
			Int("kept", len(txs)).
			Int("total", len(ev.Transactions)).
			Msg("filtered transactions to one day")
	}

	// =========================================================================
	// STEP 3: AGGREGATE
	// =========================================================================

	conv := money.NewConverter(ev)
	summary := aggregate.Run(ev, txs, conv)
	products := aggregate.ActiveProducts(ev)

	stats.Transactions = len(summary.Transactions)
	stats.Currencies = len(summary.Currencies)
	stats.Products = len(summary.Products)
	stats.Categories = len(summary.Categories)
	stats.Subgroups = len(summary.Subgroups)
	stats.ProductColumns = len(products)

	log.Debug().
		Int("transactions", stats.Transactions).
		Int("currencies", stats.Currencies).
		Int("products", stats.Products).
		Dur("elapsed", time.Since(startTime)).
		Msg("aggregation complete")

	// =========================================================================
	// STEP 4: BUILD WORKBOOK
	// =========================================================================

	wb := workbook.New(ev.Name, operator, e.now())
	for _, c := range ev.Currencies {
		symbol := c.Symbol
		if symbol == "" {
			symbol = c.Code
		}
		wb.CurrencySymbols[c.Code] = symbol
	}

	buildRegistry(wb, summary, products, e.loc)
	buildCurrencies(wb, summary)
	buildProducts(wb, summary)
	buildGroups(wb, summary)

	// =========================================================================
	// STEP 5: SERIALIZE
	// =========================================================================
	// Serializer errors already carry the failing part; pass them through.

	data, err := e.writer.Serialize(wb)
	if err != nil {
		log.Error().Err(err).Msg("serialization failed")
		return nil, err
	}

	stats.Bytes = len(data)
	stats.ProcessingTime = time.Since(startTime)

	log.Info().
		Int("transactions", stats.Transactions).
		Int("bytes", stats.Bytes).
		Dur("elapsed", stats.ProcessingTime).
		Msg("export complete")

	return &Result{Data: data, Stats: stats}, nil
}
