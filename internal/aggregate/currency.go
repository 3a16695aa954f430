package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/event-sales-export/internal/ledger"
	"github.com/ginjaninja78/event-sales-export/internal/money"
)

// ByCurrency totals transactions per (currency, payment-method label).
//
// A non-split transaction contributes its whole total under its own
// currency. A split transaction contributes each entry's charged amount
// under the entry's currency; its units and its converted total are
// distributed across entries the same way line-item amounts are.
func ByCurrency(ev *ledger.Event, txs []ledger.Transaction, conv *money.Converter) []CurrencyGroup {
	table := newMethodTable()

	for i := range txs {
		tx := &txs[i]
		if !tx.IsSplit() {
			code := conv.Normalize(tx.CurrencyCode)
			table.add(code, TransactionPaymentLabel(tx), itemUnits(tx), tx.Total, transactionMain(tx, conv))
			continue
		}

		weights := splitWeights(tx)
		units := make([]decimal.Decimal, len(tx.Splits))
		for _, li := range tx.Items {
			for _, s := range money.Allocate(decimal.Zero, li.Quantity, weights) {
				units[s.Index] = units[s.Index].Add(s.Quantity)
			}
		}

		// Entry main amounts are shares of the converted total, so the
		// currency totals agree with the Registry.
		amountsMain := make([]decimal.Decimal, len(tx.Splits))
		for _, s := range money.Allocate(transactionMain(tx, conv), decimal.Zero, weights) {
			amountsMain[s.Index] = s.Amount
		}

		for j, e := range tx.Splits {
			if e.ChargeAmount.IsZero() && amountsMain[j].IsZero() && units[j].IsZero() {
				continue
			}
			table.add(conv.Normalize(e.CurrencyCode), SplitPaymentLabel(e), units[j], e.ChargeAmount, amountsMain[j])
		}
	}

	return table.currencyGroups(ev, conv)
}

func itemUnits(tx *ledger.Transaction) decimal.Decimal {
	units := decimal.Zero
	for _, li := range tx.Items {
		units = units.Add(li.Quantity)
	}
	return units
}
