package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/event-sales-export/internal/ledger"
	"github.com/ginjaninja78/event-sales-export/internal/money"
)

// =============================================================================
// CHRONOLOGICAL VIEW
// =============================================================================

// TransactionRow is one Registry line.
type TransactionRow struct {
	Transaction ledger.Transaction

	// Payment is the resolved method label; split entries are joined by " + ".
	Payment string

	// CurrencyCode is the transaction currency with the empty code resolved.
	CurrencyCode string

	TotalMain decimal.Decimal

	// Quantities holds the quantity sold per product name.
	Quantities map[string]decimal.Decimal

	// Orphan is set on refunds whose original is not in the list.
	Orphan bool
}

// FilterDay keeps the transactions whose timestamp falls on the calendar day
// of day, both evaluated in loc. A nil loc means UTC.
func FilterDay(txs []ledger.Transaction, day time.Time, loc *time.Location) []ledger.Transaction {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := day.In(loc).Date()

	out := make([]ledger.Transaction, 0, len(txs))
	for _, tx := range txs {
		ty, tm, td := tx.Timestamp.In(loc).Date()
		if ty == y && tm == m && td == d {
			out = append(out, tx)
		}
	}
	return out
}

// Chronological orders transactions newest first. Every refund sits
// immediately before the transaction it refunds; refunds whose original is
// absent (or is itself a refund) come first.
func Chronological(txs []ledger.Transaction) []ledger.Transaction {
	originals := make(map[uuid.UUID]bool, len(txs))
	for i := range txs {
		if !txs[i].IsRefund() {
			originals[txs[i].ID] = true
		}
	}

	var orphans, heads []ledger.Transaction
	refunds := make(map[uuid.UUID][]ledger.Transaction)
	for _, tx := range txs {
		switch {
		case !tx.IsRefund():
			heads = append(heads, tx)
		case originals[tx.RefundOf.UUID]:
			refunds[tx.RefundOf.UUID] = append(refunds[tx.RefundOf.UUID], tx)
		default:
			orphans = append(orphans, tx)
		}
	}

	sortNewestFirst(orphans)
	sortNewestFirst(heads)

	out := make([]ledger.Transaction, 0, len(txs))
	out = append(out, orphans...)
	for _, tx := range heads {
		if rs := refunds[tx.ID]; len(rs) > 0 {
			sortNewestFirst(rs)
			out = append(out, rs...)
		}
		out = append(out, tx)
	}
	return out
}

// Rows builds the Registry rows in chronological order.
func Rows(txs []ledger.Transaction, conv *money.Converter) []TransactionRow {
	ordered := Chronological(txs)

	originals := make(map[uuid.UUID]bool, len(ordered))
	for i := range ordered {
		if !ordered[i].IsRefund() {
			originals[ordered[i].ID] = true
		}
	}

	rows := make([]TransactionRow, 0, len(ordered))
	for _, tx := range ordered {
		code := conv.Normalize(tx.CurrencyCode)
		row := TransactionRow{
			Transaction:  tx,
			Payment:      registryPayment(&tx),
			CurrencyCode: code,
			TotalMain:    transactionMain(&tx, conv),
			Quantities:   make(map[string]decimal.Decimal, len(tx.Items)),
		}
		for _, li := range tx.Items {
			row.Quantities[li.ProductName] = row.Quantities[li.ProductName].Add(li.Quantity)
		}
		if tx.IsRefund() {
			row.Orphan = !originals[tx.RefundOf.UUID]
		}
		rows = append(rows, row)
	}
	return rows
}

func registryPayment(tx *ledger.Transaction) string {
	if !tx.IsSplit() {
		return TransactionPaymentLabel(tx)
	}
	labels := make([]string, len(tx.Splits))
	for i, e := range tx.Splits {
		labels[i] = SplitPaymentLabel(e)
	}
	return strings.Join(labels, " + ")
}

func sortNewestFirst(txs []ledger.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Timestamp.Equal(txs[j].Timestamp) {
			return txs[i].Timestamp.After(txs[j].Timestamp)
		}
		return txs[i].ID.String() < txs[j].ID.String()
	})
}
