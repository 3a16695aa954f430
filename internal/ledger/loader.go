// =============================================================================
// Event Sales Export - Snapshot Loader
// =============================================================================
//
// This module decodes a snapshot document (JSON or YAML) into the strongly
// typed Event model. It is the trust boundary: loosely-typed values such as
// amounts, identifiers and payment-method metadata arrive as strings and are
// parsed here, before anything reaches the export engine.
//
// DOCUMENT SHAPE (YAML shown, JSON uses the same keys):
//
//   name: Summer Fair
//   round_up_totals: false
//   currencies:
//     - { code: USD, symbol: "$", rate: "1", main: true }
//     - { code: EUR, symbol: "€", rate: "0.90" }
//   products:
//     - { name: Water, price: "2", sort_order: 0 }
//   transactions:
//     - timestamp: 2026-06-01T10:00:00Z
//       total: "11.00"
//       currency: USD
//       payment_method: split
//       splits:
//         - { method: cash, amount_in_main: "6.00", charge_amount: "6.00", currency: USD }
//       items:
//         - { product: Water, quantity: "3", unit_price: "2" }
//
// =============================================================================

package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Format names a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported snapshot extension %q", filepath.Ext(path))
	}
}

// =============================================================================
// DOCUMENT STRUCTURES
// =============================================================================

type eventDoc struct {
	ID            string           `json:"id" yaml:"id"`
	Name          string           `json:"name" yaml:"name"`
	RoundUpTotals bool             `json:"round_up_totals" yaml:"round_up_totals"`
	Currencies    []currencyDoc    `json:"currencies" yaml:"currencies"`
	Categories    []categoryDoc    `json:"categories" yaml:"categories"`
	Products      []productDoc     `json:"products" yaml:"products"`
	Transactions  []transactionDoc `json:"transactions" yaml:"transactions"`
}

type currencyDoc struct {
	Code   string `json:"code" yaml:"code"`
	Symbol string `json:"symbol" yaml:"symbol"`
	Rate   string `json:"rate" yaml:"rate"`
	Main   bool   `json:"main" yaml:"main"`
}

type categoryDoc struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Color     string `json:"color" yaml:"color"`
	SortOrder int    `json:"sort_order" yaml:"sort_order"`
}

type productDoc struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Price      string `json:"price" yaml:"price"`
	CategoryID string `json:"category_id" yaml:"category_id"`
	Subgroup   string `json:"subgroup" yaml:"subgroup"`
	SortOrder  int    `json:"sort_order" yaml:"sort_order"`
	Deleted    bool   `json:"deleted" yaml:"deleted"`
}

type transactionDoc struct {
	ID            string        `json:"id" yaml:"id"`
	Timestamp     string        `json:"timestamp" yaml:"timestamp"`
	Total         string        `json:"total" yaml:"total"`
	Currency      string        `json:"currency" yaml:"currency"`
	PaymentMethod string        `json:"payment_method" yaml:"payment_method"`
	PaymentIcon   string        `json:"payment_icon" yaml:"payment_icon"`
	Splits        []splitDoc    `json:"splits" yaml:"splits"`
	Reference     string        `json:"reference" yaml:"reference"`
	Note          string        `json:"note" yaml:"note"`
	ReceiptEmail  string        `json:"receipt_email" yaml:"receipt_email"`
	Items         []lineItemDoc `json:"items" yaml:"items"`
	RefundOf      string        `json:"refund_of" yaml:"refund_of"`
}

type splitDoc struct {
	Method       string `json:"method" yaml:"method"`
	Icon         string `json:"icon" yaml:"icon"`
	Color        string `json:"color" yaml:"color"`
	AmountInMain string `json:"amount_in_main" yaml:"amount_in_main"`
	ChargeAmount string `json:"charge_amount" yaml:"charge_amount"`
	Currency     string `json:"currency" yaml:"currency"`
	CardSuffix   string `json:"card_suffix" yaml:"card_suffix"`
}

type lineItemDoc struct {
	Product   string `json:"product" yaml:"product"`
	Quantity  string `json:"quantity" yaml:"quantity"`
	UnitPrice string `json:"unit_price" yaml:"unit_price"`
	Subgroup  string `json:"subgroup" yaml:"subgroup"`
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// LoadFile reads and decodes a snapshot file.
//
// PARAMETERS:
//   - path: The snapshot path. The extension selects JSON or YAML.
//
// RETURNS:
//   - The decoded Event.
//   - An error if the file cannot be read, parsed or converted.
func LoadFile(path string) (*Event, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	return Decode(bytes.NewReader(data), format)
}

// Decode parses a snapshot document from r.
func Decode(r io.Reader, format Format) (*Event, error) {
	var doc eventDoc

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", format)
	}

	return doc.toEvent()
}

// toEvent converts the decoded document into the typed model.
func (d *eventDoc) toEvent() (*Event, error) {
	ev := &Event{
		Name:          d.Name,
		RoundUpTotals: d.RoundUpTotals,
	}

	var err error
	if ev.ID, err = parseOptionalID(d.ID); err != nil {
		return nil, fmt.Errorf("event id: %w", err)
	}

	mainCount := 0
	for i, c := range d.Currencies {
		cur, err := c.toCurrency()
		if err != nil {
			return nil, fmt.Errorf("currency %d (%s): %w", i, c.Code, err)
		}
		if cur.IsMain {
			mainCount++
		}
		ev.Currencies = append(ev.Currencies, cur)
	}
	if mainCount != 1 {
		return nil, fmt.Errorf("snapshot must flag exactly one main currency, found %d", mainCount)
	}

	for i, c := range d.Categories {
		id, err := parseOptionalID(c.ID)
		if err != nil {
			return nil, fmt.Errorf("category %d (%s): %w", i, c.Name, err)
		}
		ev.Categories = append(ev.Categories, Category{
			ID:        id,
			Name:      c.Name,
			Color:     c.Color,
			SortOrder: c.SortOrder,
		})
	}

	for i, p := range d.Products {
		prod, err := p.toProduct()
		if err != nil {
			return nil, fmt.Errorf("product %d (%s): %w", i, p.Name, err)
		}
		ev.Products = append(ev.Products, prod)
	}

	for i, t := range d.Transactions {
		tx, err := t.toTransaction()
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		ev.Transactions = append(ev.Transactions, tx)
	}

	return ev, nil
}

func (c currencyDoc) toCurrency() (Currency, error) {
	if strings.TrimSpace(c.Code) == "" {
		return Currency{}, fmt.Errorf("missing code")
	}
	rate := decimal.NewFromInt(1)
	if c.Rate != "" {
		var err error
		if rate, err = decimal.NewFromString(c.Rate); err != nil {
			return Currency{}, fmt.Errorf("invalid rate %q: %w", c.Rate, err)
		}
	}
	return Currency{
		Code:   strings.ToUpper(strings.TrimSpace(c.Code)),
		Symbol: c.Symbol,
		Rate:   rate,
		IsMain: c.Main,
	}, nil
}

func (p productDoc) toProduct() (Product, error) {
	id, err := parseOptionalID(p.ID)
	if err != nil {
		return Product{}, err
	}
	price, err := parseAmount(p.Price)
	if err != nil {
		return Product{}, fmt.Errorf("invalid price: %w", err)
	}
	categoryID, err := parseNullID(p.CategoryID)
	if err != nil {
		return Product{}, fmt.Errorf("invalid category_id: %w", err)
	}
	return Product{
		ID:         id,
		Name:       p.Name,
		Price:      price,
		CategoryID: categoryID,
		Subgroup:   p.Subgroup,
		SortOrder:  p.SortOrder,
		Deleted:    p.Deleted,
	}, nil
}

func (t transactionDoc) toTransaction() (Transaction, error) {
	id, err := parseOptionalID(t.ID)
	if err != nil {
		return Transaction{}, err
	}

	ts, err := time.Parse(time.RFC3339, t.Timestamp)
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid timestamp %q: %w", t.Timestamp, err)
	}

	total, err := parseAmount(t.Total)
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid total: %w", err)
	}

	method := PaymentMethod(strings.ToLower(strings.TrimSpace(t.PaymentMethod)))
	if method == "" {
		method = PaymentOther
	}
	if !method.Valid() {
		return Transaction{}, fmt.Errorf("unknown payment method %q", t.PaymentMethod)
	}

	refundOf, err := parseNullID(t.RefundOf)
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid refund_of: %w", err)
	}

	tx := Transaction{
		ID:            id,
		Timestamp:     ts,
		Total:         total,
		CurrencyCode:  strings.ToUpper(strings.TrimSpace(t.Currency)),
		PaymentMethod: method,
		PaymentIcon:   t.PaymentIcon,
		Reference:     t.Reference,
		Note:          t.Note,
		ReceiptEmail:  t.ReceiptEmail,
		RefundOf:      refundOf,
	}

	for i, s := range t.Splits {
		entry, err := s.toSplitEntry()
		if err != nil {
			return Transaction{}, fmt.Errorf("split %d: %w", i, err)
		}
		tx.Splits = append(tx.Splits, entry)
	}

	for i, li := range t.Items {
		qty, err := parseAmount(li.Quantity)
		if err != nil {
			return Transaction{}, fmt.Errorf("item %d: invalid quantity: %w", i, err)
		}
		price, err := parseAmount(li.UnitPrice)
		if err != nil {
			return Transaction{}, fmt.Errorf("item %d: invalid unit_price: %w", i, err)
		}
		tx.Items = append(tx.Items, LineItem{
			ProductName: li.Product,
			Quantity:    qty,
			UnitPrice:   price,
			Subgroup:    li.Subgroup,
		})
	}

	return tx, nil
}

func (s splitDoc) toSplitEntry() (SplitEntry, error) {
	inMain, err := parseAmount(s.AmountInMain)
	if err != nil {
		return SplitEntry{}, fmt.Errorf("invalid amount_in_main: %w", err)
	}
	charge := inMain
	if s.ChargeAmount != "" {
		if charge, err = parseAmount(s.ChargeAmount); err != nil {
			return SplitEntry{}, fmt.Errorf("invalid charge_amount: %w", err)
		}
	}
	return SplitEntry{
		Method:       s.Method,
		Icon:         s.Icon,
		Color:        s.Color,
		AmountInMain: inMain,
		ChargeAmount: charge,
		CurrencyCode: strings.ToUpper(strings.TrimSpace(s.Currency)),
		CardSuffix:   s.CardSuffix,
	}, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// parseAmount parses a decimal string. An empty string is zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// parseOptionalID parses a UUID, generating a fresh one when s is empty.
func parseOptionalID(s string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.New(), nil
	}
	return uuid.Parse(s)
}

func parseNullID(s string) (uuid.NullUUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.NullUUID{}, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.NullUUID{}, err
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}
