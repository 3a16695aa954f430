// =============================================================================
// Event Sales Export - Aggregation Pipeline
// =============================================================================
//
// This package turns a transaction list into the denormalized report
// structures the workbook sheets are built from. Every pass is a pure
// function of the snapshot: no cached or incremental state, empty input
// yields empty output, and two calls with the same input yield identical
// results.
//
// PASSES:
//   1. Chronological : transactions newest first, refunds before originals
//   2. ByCurrency    : totals per (currency, payment-method label)
//   3. ByProduct     : line items per product name
//   4. ByCategory    : line items per category of the product sharing the name
//   5. BySubgroup    : line items per subgroup label stored on the item
//
// All money conversion goes through one *money.Converter; split payments go
// through money.Allocate per line item.
//
// =============================================================================

package aggregate

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// REPORT STRUCTURES
// =============================================================================

// PaymentMethodRow is one payment method's share within a currency.
type PaymentMethodRow struct {
	Method string

	// Units is decimal because split allocation yields fractional counts.
	Units decimal.Decimal

	// Subtotal is expressed in the enclosing currency.
	Subtotal decimal.Decimal
}

// CurrencyGroup totals one currency across payment methods.
type CurrencyGroup struct {
	Code   string
	Symbol string

	Units decimal.Decimal

	// Total is expressed in Code; TotalMain in the main currency.
	Total     decimal.Decimal
	TotalMain decimal.Decimal

	Methods []PaymentMethodRow
}

// CurrencySection is one currency's payment-method breakdown inside a Group.
type CurrencySection struct {
	Code    string
	Symbol  string
	Methods []PaymentMethodRow
}

// Group is a product, category or subgroup rollup.
type Group struct {
	Label string

	// Matched is true when the label resolved to a current catalog entry,
	// in which case SortOrder holds that entry's sort order.
	Matched   bool
	SortOrder int

	Units     decimal.Decimal
	TotalMain decimal.Decimal

	Sections []CurrencySection
}

// Summary holds the output of every pass.
type Summary struct {
	MainCode   string
	MainSymbol string

	Transactions []TransactionRow

	Currencies []CurrencyGroup
	Products   []Group
	Categories []Group
	Subgroups  []Group
}

// GrandTotalMain sums the currency groups in the main currency.
func (s *Summary) GrandTotalMain() decimal.Decimal {
	total := decimal.Zero
	for _, g := range s.Currencies {
		total = total.Add(g.TotalMain)
	}
	return total
}
