package aggregate

import (
	"sort"
	"strings"

	"github.com/ginjaninja78/event-sales-export/internal/ledger"
)

// =============================================================================
// PAYMENT-METHOD LABELS
// =============================================================================
//
// Operators can attach an icon to a payment option. Two options that share
// the same generic method (typically "other") are told apart by their icon,
// so the icon-derived label always wins.
//
// RESOLUTION ORDER:
//   1. Label derived from a known icon
//   2. Label of a known generic method
//   3. The stored method text, verbatim
//   4. "Other"

// iconLabels maps configured icon names to report labels.
var iconLabels = map[string]string{
	"banknote":    "Cash",
	"cash":        "Cash",
	"creditcard":  "Card",
	"card":        "Card",
	"qrcode":      "QR code",
	"phone":       "Phone",
	"iphone":      "Phone",
	"wave":        "Tap to pay",
	"contactless": "Tap to pay",
	"gift":        "Voucher",
	"ticket":      "Ticket",
	"person":      "Tab",
	"bank":        "Bank transfer",
	"building":    "Bank transfer",
	"bitcoinsign": "Crypto",
}

// methodLabels maps generic methods to report labels.
var methodLabels = map[ledger.PaymentMethod]string{
	ledger.PaymentCash:     "Cash",
	ledger.PaymentCard:     "Card",
	ledger.PaymentQR:       "QR code",
	ledger.PaymentTapToPay: "Tap to pay",
	ledger.PaymentVoucher:  "Voucher",
	ledger.PaymentOther:    "Other",
	ledger.PaymentSplit:    "Split",
}

// labelOrder fixes the row order of well-known labels. Anything else sorts
// after these, alphabetically.
var labelOrder = []string{
	"Cash",
	"Card",
	"QR code",
	"Tap to pay",
	"Phone",
	"Voucher",
	"Ticket",
	"Tab",
	"Bank transfer",
	"Crypto",
	"Other",
	"Split",
}

// PaymentLabel resolves the report label of a payment method.
func PaymentLabel(method, icon string) string {
	if label, ok := iconLabels[strings.ToLower(strings.TrimSpace(icon))]; ok {
		return label
	}
	m := strings.TrimSpace(method)
	if label, ok := methodLabels[ledger.PaymentMethod(strings.ToLower(m))]; ok {
		return label
	}
	if m != "" {
		return m
	}
	return methodLabels[ledger.PaymentOther]
}

// TransactionPaymentLabel labels a non-split transaction's method.
func TransactionPaymentLabel(tx *ledger.Transaction) string {
	return PaymentLabel(string(tx.PaymentMethod), tx.PaymentIcon)
}

// SplitPaymentLabel labels one split entry.
func SplitPaymentLabel(entry ledger.SplitEntry) string {
	return PaymentLabel(entry.Method, entry.Icon)
}

func labelRank(label string) int {
	for i, l := range labelOrder {
		if l == label {
			return i
		}
	}
	return len(labelOrder)
}

// sortMethodRows orders rows by canonical label order, then alphabetically.
func sortMethodRows(rows []PaymentMethodRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := labelRank(rows[i].Method), labelRank(rows[j].Method)
		if ri != rj {
			return ri < rj
		}
		return rows[i].Method < rows[j].Method
	})
}
