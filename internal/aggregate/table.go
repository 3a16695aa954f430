package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/event-sales-export/internal/ledger"
	"github.com/ginjaninja78/event-sales-export/internal/money"
)

// methodTable accumulates (currency, method label) cells.
type methodTable struct {
	buckets map[string]*currencyBucket
}

type currencyBucket struct {
	code      string
	units     decimal.Decimal
	total     decimal.Decimal
	totalMain decimal.Decimal
	rows      map[string]*PaymentMethodRow
}

func newMethodTable() *methodTable {
	return &methodTable{buckets: make(map[string]*currencyBucket)}
}

// add records units and an amount in code, plus its main-currency value.
func (t *methodTable) add(code, label string, units, amount, amountMain decimal.Decimal) {
	b, ok := t.buckets[code]
	if !ok {
		b = &currencyBucket{code: code, rows: make(map[string]*PaymentMethodRow)}
		t.buckets[code] = b
	}
	b.units = b.units.Add(units)
	b.total = b.total.Add(amount)
	b.totalMain = b.totalMain.Add(amountMain)

	row, ok := b.rows[label]
	if !ok {
		row = &PaymentMethodRow{Method: label}
		b.rows[label] = row
	}
	row.Units = row.Units.Add(units)
	row.Subtotal = row.Subtotal.Add(amount)
}

// ordered returns the buckets main currency first, then in event currency
// order, then by code.
func (t *methodTable) ordered(ev *ledger.Event, conv *money.Converter) []*currencyBucket {
	rank := make(map[string]int, len(ev.Currencies))
	for i, c := range ev.Currencies {
		rank[c.Code] = i + 1
	}
	rank[conv.MainCode()] = 0

	out := make([]*currencyBucket, 0, len(t.buckets))
	for _, b := range t.buckets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, oki := rank[out[i].code]
		rj, okj := rank[out[j].code]
		if oki != okj {
			return oki
		}
		if oki && ri != rj {
			return ri < rj
		}
		return out[i].code < out[j].code
	})
	return out
}

func (b *currencyBucket) methodRows() []PaymentMethodRow {
	rows := make([]PaymentMethodRow, 0, len(b.rows))
	for _, r := range b.rows {
		rows = append(rows, *r)
	}
	sortMethodRows(rows)
	return rows
}

func (t *methodTable) currencyGroups(ev *ledger.Event, conv *money.Converter) []CurrencyGroup {
	buckets := t.ordered(ev, conv)
	out := make([]CurrencyGroup, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, CurrencyGroup{
			Code:      b.code,
			Symbol:    conv.Symbol(b.code),
			Units:     b.units,
			Total:     b.total,
			TotalMain: b.totalMain,
			Methods:   b.methodRows(),
		})
	}
	return out
}

func (t *methodTable) sections(ev *ledger.Event, conv *money.Converter) []CurrencySection {
	buckets := t.ordered(ev, conv)
	out := make([]CurrencySection, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, CurrencySection{
			Code:    b.code,
			Symbol:  conv.Symbol(b.code),
			Methods: b.methodRows(),
		})
	}
	return out
}

// splitWeights returns the main-currency amounts of a transaction's entries.
// transactionMain converts the transaction total into the main currency.
// This is the only place a transaction's amount is converted, so every
// pass reports the same main total for the same sale.
func transactionMain(tx *ledger.Transaction, conv *money.Converter) decimal.Decimal {
	return conv.ToMain(tx.Total, conv.Normalize(tx.CurrencyCode))
}

// spreadOverItems distributes amount across the transaction's line items in
// proportion to their subtotals. The result is indexed like tx.Items and
// sums to amount exactly.
func spreadOverItems(amount decimal.Decimal, tx *ledger.Transaction) []decimal.Decimal {
	weights := make([]decimal.Decimal, len(tx.Items))
	for i, li := range tx.Items {
		weights[i] = li.Subtotal()
	}

	out := make([]decimal.Decimal, len(tx.Items))
	for _, s := range money.Allocate(amount, decimal.Zero, weights) {
		out[s.Index] = s.Amount
	}
	return out
}

func splitWeights(tx *ledger.Transaction) []decimal.Decimal {
	weights := make([]decimal.Decimal, len(tx.Splits))
	for i, e := range tx.Splits {
		weights[i] = e.AmountInMain
	}
	return weights
}

// shareInEntryCurrency expresses a main-currency share in the entry's own
// currency, using the entry's actual charge ratio when one is known.
func shareInEntryCurrency(share decimal.Decimal, entry ledger.SplitEntry, conv *money.Converter) decimal.Decimal {
	if conv.IsMain(entry.CurrencyCode) {
		return share
	}
	if !entry.AmountInMain.IsZero() {
		return share.Mul(entry.ChargeAmount).Div(entry.AmountInMain).Round(money.RoundPlaces)
	}
	return conv.FromMain(share, entry.CurrencyCode)
}
