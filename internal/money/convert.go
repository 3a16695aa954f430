// =============================================================================
// Event Sales Export - Currency Converter
// =============================================================================
//
// Converter turns an amount in any of the event's currencies into the main
// currency. Every aggregation pass receives the same Converter, so the
// conversion and rounding policy live in exactly one place.
//
// RULES:
//   1. Source code equal to the main code (or empty) returns the amount as-is.
//   2. Unknown codes and non-positive rates fall back to rate 1.
//   3. Otherwise amount / rate.
//   4. With RoundUpTotals, the result is rounded up to a whole main unit
//      AFTER division. Negative amounts (refunds) round away from zero so
//      they mirror the sale they undo.
//
// =============================================================================

package money

import (
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/event-sales-export/internal/ledger"
)

// RoundPlaces is the number of decimal places used for allocated shares.
const RoundPlaces = 2

var one = decimal.NewFromInt(1)

// Converter converts amounts into an event's main currency.
type Converter struct {
	main    ledger.Currency
	rates   map[string]decimal.Decimal
	symbols map[string]string
	roundUp bool
}

// NewConverter captures the currency table and rounding policy of ev.
func NewConverter(ev *ledger.Event) *Converter {
	c := &Converter{
		rates:   make(map[string]decimal.Decimal, len(ev.Currencies)),
		symbols: make(map[string]string, len(ev.Currencies)),
		roundUp: ev.RoundUpTotals,
	}
	if main, ok := ev.MainCurrency(); ok {
		c.main = main
	}
	for _, cur := range ev.Currencies {
		c.rates[cur.Code] = cur.Rate
		c.symbols[cur.Code] = cur.Symbol
	}
	return c
}

// MainCode returns the main currency code.
func (c *Converter) MainCode() string {
	return c.main.Code
}

// MainSymbol returns the main currency symbol.
func (c *Converter) MainSymbol() string {
	return c.main.Symbol
}

// Symbol returns the configured symbol for code, or the code itself.
func (c *Converter) Symbol(code string) string {
	if c.IsMain(code) {
		code = c.main.Code
	}
	if s, ok := c.symbols[code]; ok && s != "" {
		return s
	}
	return code
}

// IsMain reports whether code denotes the main currency.
func (c *Converter) IsMain(code string) bool {
	return code == "" || code == c.main.Code
}

// Normalize maps the empty code onto the main code.
func (c *Converter) Normalize(code string) string {
	if code == "" {
		return c.main.Code
	}
	return code
}

// ToMain converts amount from the currency fromCode into the main currency.
func (c *Converter) ToMain(amount decimal.Decimal, fromCode string) decimal.Decimal {
	if c.IsMain(fromCode) {
		return amount
	}

	converted := amount.Div(c.rate(fromCode))
	if c.roundUp {
		converted = ceilAway(converted)
	}
	return converted
}

// FromMain expresses a main-currency amount in toCode, rounded to
// RoundPlaces. It is a display helper and never feeds totals.
func (c *Converter) FromMain(amount decimal.Decimal, toCode string) decimal.Decimal {
	if c.IsMain(toCode) {
		return amount
	}
	return amount.Mul(c.rate(toCode)).Round(RoundPlaces)
}

// rate returns the rate for code with the fallback applied.
func (c *Converter) rate(code string) decimal.Decimal {
	r, ok := c.rates[code]
	if !ok || !r.IsPositive() {
		return one
	}
	return r
}

// ceilAway rounds the magnitude of d up to the next whole unit.
func ceilAway(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return d.Neg().Ceil().Neg()
	}
	return d.Ceil()
}

// ConvertToMain is a one-shot form of Converter.ToMain.
func ConvertToMain(amount decimal.Decimal, fromCode string, ev *ledger.Event) decimal.Decimal {
	return NewConverter(ev).ToMain(amount, fromCode)
}
