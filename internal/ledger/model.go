// =============================================================================
// Event Sales Export - Ledger Snapshot Model
// =============================================================================
//
// This package holds the read-only snapshot of one event that the export
// engine consumes. The snapshot is borrowed for the duration of one export
// call and is never mutated by the engine.
//
// JOIN SEMANTICS:
//   Line items reference products by NAME, not by identifier. Historical
//   transactions keep their original product name after the product is
//   deleted or recreated, and roll up into whatever product currently
//   carries that name (or none).
//
// =============================================================================

package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// EVENT
// =============================================================================

// Event is a complete snapshot of one event's data.
type Event struct {
	// ID identifies the event.
	ID uuid.UUID

	// Name is the human-readable event name.
	Name string

	// RoundUpTotals enables ceiling-to-whole-unit after currency conversion.
	RoundUpTotals bool

	// Currencies lists the accepted currencies. Exactly one is main.
	Currencies []Currency

	// Categories lists product categories.
	Categories []Category

	// Products lists the product catalog, including soft-deleted entries.
	Products []Product

	// Transactions is the append-only ledger.
	Transactions []Transaction
}

// MainCurrency returns the currency flagged as main.
// The second return value is false when no currency carries the flag.
func (e *Event) MainCurrency() (Currency, bool) {
	for _, c := range e.Currencies {
		if c.IsMain {
			return c, true
		}
	}
	return Currency{}, false
}

// CurrencyByCode looks up a currency by its code.
func (e *Event) CurrencyByCode(code string) (Currency, bool) {
	for _, c := range e.Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// CategoryByID looks up a category by its identifier.
func (e *Event) CategoryByID(id uuid.UUID) (Category, bool) {
	for _, c := range e.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// ProductByName returns the product currently carrying the given name.
// Active products win over soft-deleted ones sharing the same name.
func (e *Event) ProductByName(name string) (Product, bool) {
	var deleted *Product
	for i := range e.Products {
		p := &e.Products[i]
		if p.Name != name {
			continue
		}
		if !p.Deleted {
			return *p, true
		}
		if deleted == nil {
			deleted = p
		}
	}
	if deleted != nil {
		return *deleted, true
	}
	return Product{}, false
}

// =============================================================================
// CATALOG
// =============================================================================

// Currency is an accepted currency with its rate relative to the main one.
type Currency struct {
	Code   string
	Symbol string

	// Rate is the number of units of this currency per one main unit.
	// The main currency has rate 1.
	Rate decimal.Decimal

	IsMain bool
}

// Category groups products on the Groups and Currencies sheets.
type Category struct {
	ID        uuid.UUID
	Name      string
	Color     string
	SortOrder int
}

// Product is a catalog entry.
type Product struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal

	// CategoryID is invalid when the product is uncategorized.
	CategoryID uuid.NullUUID

	// Subgroup is an optional free-text grouping label.
	Subgroup string

	SortOrder int

	// Deleted marks a soft-deleted product. It keeps its name for joins
	// but gets no Registry column.
	Deleted bool
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// PaymentMethod is the generic payment method stored on a transaction.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentQR       PaymentMethod = "qr"
	PaymentTapToPay PaymentMethod = "tap_to_pay"
	PaymentVoucher  PaymentMethod = "voucher"
	PaymentOther    PaymentMethod = "other"
	PaymentSplit    PaymentMethod = "split"
)

// PaymentMethods lists every known method in canonical report order.
var PaymentMethods = []PaymentMethod{
	PaymentCash,
	PaymentCard,
	PaymentQR,
	PaymentTapToPay,
	PaymentVoucher,
	PaymentOther,
	PaymentSplit,
}

// Valid reports whether m is one of the known methods.
func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// Transaction is one ledger entry.
type Transaction struct {
	ID        uuid.UUID
	Timestamp time.Time

	// Total is expressed in CurrencyCode.
	Total        decimal.Decimal
	CurrencyCode string

	PaymentMethod PaymentMethod

	// PaymentIcon is the icon the operator configured for the method, if any.
	PaymentIcon string

	// Splits is non-empty when the transaction was paid with several instruments.
	Splits []SplitEntry

	Reference    string
	Note         string
	ReceiptEmail string

	Items []LineItem

	// RefundOf links a refund to the transaction it refunds.
	RefundOf uuid.NullUUID
}

// IsSplit reports whether the transaction was paid with split entries.
func (t *Transaction) IsSplit() bool {
	return len(t.Splits) > 0
}

// IsRefund reports whether the transaction refunds another one.
func (t *Transaction) IsRefund() bool {
	return t.RefundOf.Valid
}

// LineItem is one sold product line.
type LineItem struct {
	// ProductName is the join key into the catalog.
	ProductName string

	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal

	// Subgroup is the label stored at sale time.
	Subgroup string
}

// Subtotal returns quantity times unit price in the transaction currency.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

// SplitEntry is one payment instrument of a split transaction.
type SplitEntry struct {
	Method string
	Icon   string
	Color  string

	// AmountInMain is this entry's share of the total in the main currency.
	AmountInMain decimal.Decimal

	// ChargeAmount is the amount charged in the entry's own currency.
	ChargeAmount decimal.Decimal
	CurrencyCode string

	// CardSuffix holds the masked last digits of a card, if any.
	CardSuffix string
}
