// =============================================================================
// Event Sales Export - Snapshot Checks
// =============================================================================
//
// This module inspects a snapshot for input-shape anomalies. None of these
// block an export: the aggregation pipeline resolves every one of them with
// a documented fallback. The checks exist so callers can log or display what
// was papered over.
//
// ISSUE KINDS:
//   - main_currency     : zero or several currencies flagged as main (error)
//   - orphan_currency   : a transaction or split names an unknown currency
//   - orphan_product    : a line item names no product in the catalog
//   - orphan_category   : a product links a category that does not exist
//   - split_mismatch    : split entries do not sum to the transaction total
//   - zero_weight_split : split entries all carry a zero main amount
//   - orphan_refund     : a refund links a transaction that is not present
//
// =============================================================================

package ledger

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ISSUE TYPES
// =============================================================================

// Severity grades a CheckIssue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue kinds reported by Check.
const (
	IssueMainCurrency    = "main_currency"
	IssueOrphanCurrency  = "orphan_currency"
	IssueOrphanProduct   = "orphan_product"
	IssueOrphanCategory  = "orphan_category"
	IssueSplitMismatch   = "split_mismatch"
	IssueZeroWeightSplit = "zero_weight_split"
	IssueOrphanRefund    = "orphan_refund"
)

// CheckIssue is a single anomaly found in a snapshot.
type CheckIssue struct {
	Severity Severity
	Kind     string

	// TransactionID is uuid.Nil for catalog-level issues.
	TransactionID uuid.UUID

	Message string
}

// Error implements the error interface.
func (i *CheckIssue) Error() string {
	if i.TransactionID == uuid.Nil {
		return fmt.Sprintf("[%s] %s: %s", strings.ToUpper(string(i.Severity)), i.Kind, i.Message)
	}
	return fmt.Sprintf("[%s] %s: transaction %s: %s",
		strings.ToUpper(string(i.Severity)),
		i.Kind,
		i.TransactionID,
		i.Message,
	)
}

// CheckResult collects the issues found by Check.
type CheckResult struct {
	Issues []*CheckIssue

	ErrorCount   int
	WarningCount int

	TransactionsChecked int
}

// OK reports whether no error-severity issue was found.
func (r *CheckResult) OK() bool {
	return r.ErrorCount == 0
}

func (r *CheckResult) add(sev Severity, kind string, txID uuid.UUID, format string, args ...interface{}) {
	r.Issues = append(r.Issues, &CheckIssue{
		Severity:      sev,
		Kind:          kind,
		TransactionID: txID,
		Message:       fmt.Sprintf(format, args...),
	})
	if sev == SeverityError {
		r.ErrorCount++
	} else {
		r.WarningCount++
	}
}

// =============================================================================
// MAIN CHECK FUNCTION
// =============================================================================

// Check inspects the snapshot and returns every anomaly found.
func Check(ev *Event) *CheckResult {
	result := &CheckResult{
		Issues:              make([]*CheckIssue, 0),
		TransactionsChecked: len(ev.Transactions),
	}

	mains := 0
	for _, c := range ev.Currencies {
		if c.IsMain {
			mains++
		}
	}
	if mains != 1 {
		result.add(SeverityError, IssueMainCurrency, uuid.Nil,
			"expected exactly one main currency, found %d", mains)
	}

	for _, p := range ev.Products {
		if !p.CategoryID.Valid {
			continue
		}
		if _, ok := ev.CategoryByID(p.CategoryID.UUID); !ok {
			result.add(SeverityWarning, IssueOrphanCategory, uuid.Nil,
				"product %q links missing category %s", p.Name, p.CategoryID.UUID)
		}
	}

	ids := make(map[uuid.UUID]struct{}, len(ev.Transactions))
	for i := range ev.Transactions {
		ids[ev.Transactions[i].ID] = struct{}{}
	}

	for i := range ev.Transactions {
		checkTransaction(ev, &ev.Transactions[i], ids, result)
	}

	return result
}

// checkTransaction checks a single transaction.
func checkTransaction(ev *Event, tx *Transaction, ids map[uuid.UUID]struct{}, result *CheckResult) {
	if !knownCurrency(ev, tx.CurrencyCode) {
		result.add(SeverityWarning, IssueOrphanCurrency, tx.ID,
			"currency %q is not configured, rate 1 is assumed", tx.CurrencyCode)
	}

	for _, li := range tx.Items {
		if _, ok := ev.ProductByName(li.ProductName); !ok {
			result.add(SeverityWarning, IssueOrphanProduct, tx.ID,
				"item %q matches no product and is reported uncategorized", li.ProductName)
		}
	}

	if tx.IsRefund() {
		if _, ok := ids[tx.RefundOf.UUID]; !ok {
			result.add(SeverityWarning, IssueOrphanRefund, tx.ID,
				"refunded transaction %s is not in the snapshot", tx.RefundOf.UUID)
		}
	}

	if !tx.IsSplit() {
		return
	}

	sum := decimal.Zero
	for _, s := range tx.Splits {
		sum = sum.Add(s.AmountInMain)
		if !knownCurrency(ev, s.CurrencyCode) {
			result.add(SeverityWarning, IssueOrphanCurrency, tx.ID,
				"split currency %q is not configured", s.CurrencyCode)
		}
	}
	if sum.IsZero() {
		result.add(SeverityWarning, IssueZeroWeightSplit, tx.ID,
			"split entries carry no main amount, equal weights are used")
	}
	main, _ := ev.MainCurrency()
	inMain := tx.CurrencyCode == "" || tx.CurrencyCode == main.Code
	if inMain && !sum.Equal(tx.Total) {
		result.add(SeverityWarning, IssueSplitMismatch, tx.ID,
			"split entries sum to %s, transaction total is %s", sum, tx.Total)
	}
}

// knownCurrency treats the empty code as the main currency.
func knownCurrency(ev *Event, code string) bool {
	if code == "" {
		return true
	}
	_, ok := ev.CurrencyByCode(code)
	return ok
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatIssues formats issues for display.
func FormatIssues(issues []*CheckIssue) string {
	if len(issues) == 0 {
		return "No issues found."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Check completed with %d issue(s):\n\n", len(issues)))
	for i, issue := range issues {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue.Error()))
	}
	return builder.String()
}
