package aggregate

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/event-sales-export/internal/ledger"
	"github.com/ginjaninja78/event-sales-export/internal/money"
)

// Uncategorized labels line items whose product has no resolvable category.
const Uncategorized = "Uncategorized"

// =============================================================================
// LINE-ITEM GROUPING
// =============================================================================

// groupKey resolves the group a line item belongs to. ok=false skips the item.
type groupKey func(li ledger.LineItem) (key, label string, ok bool)

// groupRank resolves the catalog sort order of a group key.
type groupRank func(key string) (sortOrder int, matched bool)

type groupAcc struct {
	key   string
	group Group
	table *methodTable
}

func groupItems(ev *ledger.Event, txs []ledger.Transaction, conv *money.Converter, keyOf groupKey, rankOf groupRank) []Group {
	accs := make(map[string]*groupAcc)

	for i := range txs {
		tx := &txs[i]
		code := conv.Normalize(tx.CurrencyCode)

		var weights []decimal.Decimal
		if tx.IsSplit() {
			weights = splitWeights(tx)
		}

		// Line amounts are shares of the converted total, never converted
		// one by one.
		amounts := spreadOverItems(tx.Total, tx)
		amountsMain := spreadOverItems(transactionMain(tx, conv), tx)

		for j, li := range tx.Items {
			key, label, ok := keyOf(li)
			if !ok {
				continue
			}
			acc, ok := accs[key]
			if !ok {
				acc = &groupAcc{key: key, group: Group{Label: label}, table: newMethodTable()}
				acc.group.SortOrder, acc.group.Matched = rankOf(key)
				accs[key] = acc
			}

			subtotal := amounts[j]
			subMain := amountsMain[j]
			acc.group.Units = acc.group.Units.Add(li.Quantity)
			acc.group.TotalMain = acc.group.TotalMain.Add(subMain)

			if !tx.IsSplit() {
				acc.table.add(code, TransactionPaymentLabel(tx), li.Quantity, subtotal, subMain)
				continue
			}
			for _, s := range money.Allocate(subMain, li.Quantity, weights) {
				e := tx.Splits[s.Index]
				acc.table.add(
					conv.Normalize(e.CurrencyCode),
					SplitPaymentLabel(e),
					s.Quantity,
					shareInEntryCurrency(s.Amount, e, conv),
					s.Amount,
				)
			}
		}
	}

	out := make([]*groupAcc, 0, len(accs))
	for _, acc := range accs {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].group, out[j].group
		if a.Matched != b.Matched {
			return a.Matched
		}
		if a.Matched && a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return out[i].key < out[j].key
	})

	groups := make([]Group, len(out))
	for i, acc := range out {
		acc.group.Sections = acc.table.sections(ev, conv)
		groups[i] = acc.group
	}
	return groups
}

// =============================================================================
// PASSES
// =============================================================================

// ByProduct groups line items by product name. Products that no longer
// exist in the active catalog still get a group under their sold name.
func ByProduct(ev *ledger.Event, txs []ledger.Transaction, conv *money.Converter) []Group {
	active := make(map[string]int)
	for _, p := range ev.Products {
		if p.Deleted {
			continue
		}
		if _, seen := active[p.Name]; !seen {
			active[p.Name] = p.SortOrder
		}
	}

	return groupItems(ev, txs, conv,
		func(li ledger.LineItem) (string, string, bool) {
			return li.ProductName, li.ProductName, true
		},
		func(key string) (int, bool) {
			order, ok := active[key]
			return order, ok
		},
	)
}

// ByCategory groups line items by the category of the product that
// currently carries the item's name.
func ByCategory(ev *ledger.Event, txs []ledger.Transaction, conv *money.Converter) []Group {
	return groupItems(ev, txs, conv,
		func(li ledger.LineItem) (string, string, bool) {
			c, ok := categoryOf(ev, li.ProductName)
			if !ok {
				return "", Uncategorized, true
			}
			return c.ID.String(), c.Name, true
		},
		func(key string) (int, bool) {
			for _, c := range ev.Categories {
				if c.ID.String() == key {
					return c.SortOrder, true
				}
			}
			return 0, false
		},
	)
}

// BySubgroup groups line items by the subgroup label stored on the item.
// Items without a subgroup are left out.
func BySubgroup(ev *ledger.Event, txs []ledger.Transaction, conv *money.Converter) []Group {
	order := make(map[string]int)
	for _, p := range ev.Products {
		sg := strings.TrimSpace(p.Subgroup)
		if p.Deleted || sg == "" {
			continue
		}
		if cur, ok := order[sg]; !ok || p.SortOrder < cur {
			order[sg] = p.SortOrder
		}
	}

	return groupItems(ev, txs, conv,
		func(li ledger.LineItem) (string, string, bool) {
			sg := strings.TrimSpace(li.Subgroup)
			return sg, sg, sg != ""
		},
		func(key string) (int, bool) {
			o, ok := order[key]
			return o, ok
		},
	)
}

func categoryOf(ev *ledger.Event, productName string) (ledger.Category, bool) {
	p, ok := ev.ProductByName(productName)
	if !ok || !p.CategoryID.Valid {
		return ledger.Category{}, false
	}
	return ev.CategoryByID(p.CategoryID.UUID)
}

// ActiveProducts returns the non-deleted products ordered by sort order,
// then name. These are the Registry's product columns.
func ActiveProducts(ev *ledger.Event) []ledger.Product {
	out := make([]ledger.Product, 0, len(ev.Products))
	for _, p := range ev.Products {
		if !p.Deleted {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Run executes every pass over txs.
func Run(ev *ledger.Event, txs []ledger.Transaction, conv *money.Converter) *Summary {
	return &Summary{
		MainCode:     conv.MainCode(),
		MainSymbol:   conv.MainSymbol(),
		Transactions: Rows(txs, conv),
		Currencies:   ByCurrency(ev, txs, conv),
		Products:     ByProduct(ev, txs, conv),
		Categories:   ByCategory(ev, txs, conv),
		Subgroups:    BySubgroup(ev, txs, conv),
	}
}
