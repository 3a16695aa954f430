// =============================================================================
// Event Sales Export - Split Allocator
// =============================================================================
//
// Allocate distributes one line item's amount and quantity across the split
// entries of its transaction, proportionally to each entry's main-currency
// amount.
//
// EXACT-SUM RULE:
//   Every entry except the last gets round(x * w_i, 2). The last entry gets
//   x minus the sum of the previous shares, so the shares always add up to
//   x exactly. The same rule applies to amounts and to quantities.
//
// Allocation runs per line item, not per transaction: line items have
// different subtotals but share the same weights.
//
// =============================================================================

package money

import (
	"github.com/shopspring/decimal"
)

// Share is one entry's portion of an allocated line item.
type Share struct {
	// Index is the position of the entry in the weights slice.
	Index int

	Quantity decimal.Decimal
	Amount   decimal.Decimal
}

// Allocate splits subAmount and subQuantity across len(weights) entries.
//
// PARAMETERS:
//   - subAmount: The amount to distribute (one line item's subtotal).
//   - subQuantity: The quantity to distribute.
//   - weights: The entries' main-currency amounts. A zero sum falls back to
//     equal weights.
//
// RETURNS:
//   - One Share per entry, in entry order, omitting entries whose amount and
//     quantity are both exactly zero. Nil when weights is empty.
func Allocate(subAmount, subQuantity decimal.Decimal, weights []decimal.Decimal) []Share {
	n := len(weights)
	if n == 0 {
		return nil
	}

	total := decimal.Zero
	for _, w := range weights {
		total = total.Add(w)
	}
	equal := total.IsZero()
	count := decimal.NewFromInt(int64(n))

	shares := make([]Share, 0, n)
	amountLeft := subAmount
	quantityLeft := subQuantity

	for i, w := range weights {
		var amount, quantity decimal.Decimal
		if i == n-1 {
			amount = amountLeft
			quantity = quantityLeft
		} else if equal {
			amount = subAmount.Div(count).Round(RoundPlaces)
			quantity = subQuantity.Div(count).Round(RoundPlaces)
		} else {
			amount = subAmount.Mul(w).Div(total).Round(RoundPlaces)
			quantity = subQuantity.Mul(w).Div(total).Round(RoundPlaces)
		}
		amountLeft = amountLeft.Sub(amount)
		quantityLeft = quantityLeft.Sub(quantity)

		if amount.IsZero() && quantity.IsZero() {
			continue
		}
		shares = append(shares, Share{
			Index:    i,
			Quantity: quantity,
			Amount:   amount,
		})
	}

	return shares
}
