package aggregate

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/event-sales-export/internal/ledger"
	"github.com/ginjaninja78/event-sales-export/internal/money"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var t0 = time.Date(2026, 7, 4, 10, 0, 0, 0, time.UTC)

// scenarioEvent sells 3 Water and 1 Beer paid by a Cash $6 / Card $5 split.
func scenarioEvent() *ledger.Event {
	drinks := uuid.New()
	return &ledger.Event{
		Name: "Summer Fair",
		Currencies: []ledger.Currency{
			{Code: "USD", Symbol: "$", Rate: dec("1"), IsMain: true},
			{Code: "EUR", Symbol: "€", Rate: dec("0.90")},
		},
		Categories: []ledger.Category{{ID: drinks, Name: "Drinks"}},
		Products: []ledger.Product{
			{ID: uuid.New(), Name: "Beer", Price: dec("5"), SortOrder: 1, CategoryID: uuid.NullUUID{UUID: drinks, Valid: true}},
			{ID: uuid.New(), Name: "Water", Price: dec("2"), SortOrder: 0, CategoryID: uuid.NullUUID{UUID: drinks, Valid: true}},
		},
		Transactions: []ledger.Transaction{{
			ID:            uuid.New(),
			Timestamp:     t0,
			Total:         dec("11"),
			CurrencyCode:  "USD",
			PaymentMethod: ledger.PaymentSplit,
			Splits: []ledger.SplitEntry{
				{Method: "cash", AmountInMain: dec("6.00"), ChargeAmount: dec("6.00"), CurrencyCode: "USD"},
				{Method: "card", AmountInMain: dec("5.00"), ChargeAmount: dec("5.00"), CurrencyCode: "USD"},
			},
			Items: []ledger.LineItem{
				{ProductName: "Water", Quantity: dec("3"), UnitPrice: dec("2")},
				{ProductName: "Beer", Quantity: dec("1"), UnitPrice: dec("5")},
			},
		}},
	}
}

func sale(at time.Time, product string, qty, price string) ledger.Transaction {
	q, p := dec(qty), dec(price)
	return ledger.Transaction{
		ID:            uuid.New(),
		Timestamp:     at,
		Total:         q.Mul(p),
		CurrencyCode:  "USD",
		PaymentMethod: ledger.PaymentCash,
		Items:         []ledger.LineItem{{ProductName: product, Quantity: q, UnitPrice: p}},
	}
}

func refundOf(orig ledger.Transaction, at time.Time) ledger.Transaction {
	r := orig
	r.ID = uuid.New()
	r.Timestamp = at
	r.Total = orig.Total.Neg()
	r.Items = []ledger.LineItem{{
		ProductName: orig.Items[0].ProductName,
		Quantity:    orig.Items[0].Quantity.Neg(),
		UnitPrice:   orig.Items[0].UnitPrice,
	}}
	r.RefundOf = uuid.NullUUID{UUID: orig.ID, Valid: true}
	return r
}

// =============================================================================
// CHRONOLOGICAL
// =============================================================================

func TestChronological_RefundsBeforeOriginals(t *testing.T) {
	a := sale(t0, "Water", "1", "2")
	b := sale(t0.Add(time.Hour), "Water", "1", "2")
	r := refundOf(a, t0.Add(2*time.Hour))
	orphan := refundOf(sale(t0, "Beer", "1", "5"), t0.Add(-time.Hour))
	chained := refundOf(r, t0.Add(3*time.Hour))

	got := Chronological([]ledger.Transaction{a, b, r, orphan, chained})

	want := []uuid.UUID{chained.ID, orphan.ID, b.ID, r.ID, a.ID}
	if len(got) != len(want) {
		t.Fatalf("got %d transactions, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestChronological_TiesBrokenByID(t *testing.T) {
	a := sale(t0, "Water", "1", "2")
	b := sale(t0, "Water", "1", "2")
	first, second := a, b
	if b.ID.String() < a.ID.String() {
		first, second = b, a
	}

	for _, in := range [][]ledger.Transaction{{a, b}, {b, a}} {
		got := Chronological(in)
		if got[0].ID != first.ID || got[1].ID != second.ID {
			t.Errorf("tie order depends on input order")
		}
	}
}

func TestFilterDay(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	late := sale(time.Date(2026, 7, 4, 23, 30, 0, 0, time.UTC), "Water", "1", "2") // July 5 in loc
	noon := sale(time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC), "Water", "1", "2")

	got := FilterDay([]ledger.Transaction{late, noon}, time.Date(2026, 7, 4, 0, 0, 0, 0, loc), loc)
	if len(got) != 1 || got[0].ID != noon.ID {
		t.Errorf("FilterDay in UTC+2 kept %d transactions", len(got))
	}

	got = FilterDay([]ledger.Transaction{late, noon}, t0, nil)
	if len(got) != 2 {
		t.Errorf("FilterDay in UTC kept %d transactions, want 2", len(got))
	}
}

func TestRows_RegistryFields(t *testing.T) {
	ev := scenarioEvent()
	rows := Rows(ev.Transactions, money.NewConverter(ev))
	if len(rows) != 1 {
		t.Fatalf("got %d rows", len(rows))
	}
	row := rows[0]
	if row.Payment != "Cash + Card" {
		t.Errorf("Payment = %q", row.Payment)
	}
	if !row.Quantities["Water"].Equal(dec("3")) || !row.Quantities["Beer"].Equal(dec("1")) {
		t.Errorf("Quantities = %v", row.Quantities)
	}
	if !row.TotalMain.Equal(dec("11")) {
		t.Errorf("TotalMain = %s", row.TotalMain)
	}
}

// =============================================================================
// CURRENCY AND GROUP PASSES
// =============================================================================

func TestByCurrency_SplitScenario(t *testing.T) {
	ev := scenarioEvent()
	groups := ByCurrency(ev, ev.Transactions, money.NewConverter(ev))

	if len(groups) != 1 || groups[0].Code != "USD" {
		t.Fatalf("groups = %+v, want a single USD group", groups)
	}
	g := groups[0]
	if !g.Total.Equal(dec("11")) || !g.TotalMain.Equal(dec("11")) {
		t.Errorf("total = %s/%s, want 11", g.Total, g.TotalMain)
	}
	if !g.Units.Equal(dec("4")) {
		t.Errorf("units = %s, want 4", g.Units)
	}
	if len(g.Methods) != 2 || g.Methods[0].Method != "Cash" || g.Methods[1].Method != "Card" {
		t.Fatalf("methods = %+v", g.Methods)
	}
	sum := g.Methods[0].Subtotal.Add(g.Methods[1].Subtotal)
	if !sum.Equal(dec("11")) {
		t.Errorf("method rows sum to %s, want 11", sum)
	}
}

func TestByCurrency_ForeignCurrency(t *testing.T) {
	ev := scenarioEvent()
	tx := sale(t0, "Water", "1", "1.80")
	tx.CurrencyCode = "EUR"
	ev.Transactions = []ledger.Transaction{tx, sale(t0, "Water", "1", "2")}

	groups := ByCurrency(ev, ev.Transactions, money.NewConverter(ev))
	if len(groups) != 2 || groups[0].Code != "USD" || groups[1].Code != "EUR" {
		t.Fatalf("groups = %+v, want USD then EUR", groups)
	}
	if !groups[1].Total.Equal(dec("1.80")) || !groups[1].TotalMain.Equal(dec("2")) {
		t.Errorf("EUR total = %s (main %s)", groups[1].Total, groups[1].TotalMain)
	}
	if groups[1].Symbol != "€" {
		t.Errorf("EUR symbol = %q", groups[1].Symbol)
	}
}

func TestRun_RoundUpAgreesAcrossPasses(t *testing.T) {
	ev := scenarioEvent()
	ev.RoundUpTotals = true
	ev.Products[0].Subgroup = "Alcohol"
	ev.Products[1].Subgroup = "Soft"

	// EUR 2.00 at 0.90 is 2.22 USD, rounded up once to 3.
	plain := ledger.Transaction{
		ID:            uuid.New(),
		Timestamp:     t0,
		Total:         dec("2"),
		CurrencyCode:  "EUR",
		PaymentMethod: ledger.PaymentCard,
		Items: []ledger.LineItem{
			{ProductName: "Water", Quantity: dec("1"), UnitPrice: dec("1"), Subgroup: "Soft"},
			{ProductName: "Beer", Quantity: dec("1"), UnitPrice: dec("1"), Subgroup: "Alcohol"},
		},
	}
	// EUR 1.90 is 2.11 USD, rounded up to 3 and split across two entries.
	split := ledger.Transaction{
		ID:            uuid.New(),
		Timestamp:     t0.Add(time.Minute),
		Total:         dec("1.90"),
		CurrencyCode:  "EUR",
		PaymentMethod: ledger.PaymentSplit,
		Splits: []ledger.SplitEntry{
			{Method: "cash", AmountInMain: dec("1.11"), ChargeAmount: dec("1.00"), CurrencyCode: "EUR"},
			{Method: "card", AmountInMain: dec("1.00"), ChargeAmount: dec("0.90"), CurrencyCode: "EUR"},
		},
		Items: []ledger.LineItem{
			{ProductName: "Water", Quantity: dec("1"), UnitPrice: dec("1.90"), Subgroup: "Soft"},
		},
	}
	ev.Transactions = []ledger.Transaction{plain, split}

	s := Run(ev, ev.Transactions, money.NewConverter(ev))

	sumGroups := func(groups []Group) decimal.Decimal {
		total := decimal.Zero
		for _, g := range groups {
			total = total.Add(g.TotalMain)
		}
		return total
	}
	registry := decimal.Zero
	for _, row := range s.Transactions {
		registry = registry.Add(row.TotalMain)
	}

	want := dec("6")
	totals := map[string]decimal.Decimal{
		"registry":   registry,
		"currencies": s.GrandTotalMain(),
		"products":   sumGroups(s.Products),
		"categories": sumGroups(s.Categories),
		"subgroups":  sumGroups(s.Subgroups),
	}
	for pass, got := range totals {
		if !got.Equal(want) {
			t.Errorf("%s total = %s, want %s", pass, got, want)
		}
	}

	// The rounded-up total is spread over line items, not re-rounded per item.
	for _, g := range s.Products {
		if g.Label == "Beer" && !g.TotalMain.Equal(dec("1.5")) {
			t.Errorf("Beer = %s, want 1.50", g.TotalMain)
		}
	}
}

func TestByProduct_SplitScenario(t *testing.T) {
	ev := scenarioEvent()
	groups := ByProduct(ev, ev.Transactions, money.NewConverter(ev))

	if len(groups) != 2 || groups[0].Label != "Water" || groups[1].Label != "Beer" {
		t.Fatalf("groups = %+v, want Water then Beer", groups)
	}
	water := groups[0]
	if !water.TotalMain.Equal(dec("6")) || !water.Units.Equal(dec("3")) {
		t.Errorf("Water = %s units / %s", water.Units, water.TotalMain)
	}
	methods := water.Sections[0].Methods
	if len(methods) != 2 {
		t.Fatalf("Water methods = %+v", methods)
	}
	if !methods[0].Subtotal.Equal(dec("3.27")) || !methods[1].Subtotal.Equal(dec("2.73")) {
		t.Errorf("Water split = %s/%s, want 3.27/2.73", methods[0].Subtotal, methods[1].Subtotal)
	}
}

func TestByProduct_DeletedProductsSortAfterMatched(t *testing.T) {
	ev := scenarioEvent()
	ev.Products = append(ev.Products, ledger.Product{Name: "Cider", Deleted: true, SortOrder: -5})
	ev.Transactions = []ledger.Transaction{
		sale(t0, "Cider", "1", "4"),
		sale(t0, "Beer", "1", "5"),
		sale(t0, "Absinthe", "1", "9"),
		sale(t0, "Water", "1", "2"),
	}

	groups := ByProduct(ev, ev.Transactions, money.NewConverter(ev))
	var labels []string
	for _, g := range groups {
		labels = append(labels, g.Label)
	}
	want := []string{"Water", "Beer", "Absinthe", "Cider"}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("product order mismatch (-want +got):\n%s", diff)
	}
}

func TestByCategory_JoinsByName(t *testing.T) {
	ev := scenarioEvent()
	snacks := uuid.New()
	ev.Categories = append(ev.Categories, ledger.Category{ID: snacks, Name: "Snacks", SortOrder: -1})

	// Chips was deleted and recreated under Snacks; old sales follow the name.
	ev.Products = append(ev.Products,
		ledger.Product{ID: uuid.New(), Name: "Chips", Deleted: true},
		ledger.Product{ID: uuid.New(), Name: "Chips", CategoryID: uuid.NullUUID{UUID: snacks, Valid: true}},
		ledger.Product{ID: uuid.New(), Name: "Mystery"},
	)
	ev.Transactions = []ledger.Transaction{
		sale(t0, "Chips", "2", "1.50"),
		sale(t0, "Water", "1", "2"),
		sale(t0, "Mystery", "1", "3"),
		sale(t0, "Ghost", "1", "4"),
	}

	groups := ByCategory(ev, ev.Transactions, money.NewConverter(ev))
	if len(groups) != 3 {
		t.Fatalf("got %d groups: %+v", len(groups), groups)
	}
	if groups[0].Label != "Snacks" || !groups[0].TotalMain.Equal(dec("3")) {
		t.Errorf("first group = %s %s, want Snacks 3", groups[0].Label, groups[0].TotalMain)
	}
	if groups[1].Label != "Drinks" {
		t.Errorf("second group = %s, want Drinks", groups[1].Label)
	}
	last := groups[2]
	if last.Label != Uncategorized || last.Matched || !last.TotalMain.Equal(dec("7")) {
		t.Errorf("last group = %+v, want Uncategorized with 7", last)
	}
}

func TestBySubgroup_UsesStoredLabel(t *testing.T) {
	ev := scenarioEvent()
	ev.Products[0].Subgroup = "Alcohol"
	ev.Products[1].Subgroup = "Soft"

	a := sale(t0, "Water", "2", "2")
	a.Items[0].Subgroup = "Soft"
	b := sale(t0, "Beer", "1", "5")
	b.Items[0].Subgroup = "Legacy"
	c := sale(t0, "Beer", "1", "5")

	groups := BySubgroup(ev, []ledger.Transaction{a, b, c}, money.NewConverter(ev))
	var labels []string
	for _, g := range groups {
		labels = append(labels, g.Label)
	}
	if diff := cmp.Diff([]string{"Soft", "Legacy"}, labels); diff != "" {
		t.Errorf("subgroup order mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_IdempotentAndEmpty(t *testing.T) {
	ev := scenarioEvent()
	conv := money.NewConverter(ev)

	first := Run(ev, ev.Transactions, conv)
	second := Run(ev, ev.Transactions, conv)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Run is not idempotent (-first +second):\n%s", diff)
	}

	empty := Run(ev, nil, conv)
	if len(empty.Transactions)+len(empty.Currencies)+len(empty.Products)+len(empty.Categories)+len(empty.Subgroups) != 0 {
		t.Errorf("empty ledger produced %+v", empty)
	}
	if !empty.GrandTotalMain().IsZero() {
		t.Errorf("empty grand total = %s", empty.GrandTotalMain())
	}
}

// =============================================================================
// LABELS AND CATALOG
// =============================================================================

func TestPaymentLabel(t *testing.T) {
	tests := []struct {
		method, icon, want string
	}{
		{"cash", "", "Cash"},
		{"other", "qrcode", "QR code"},
		{"other", "gift", "Voucher"},
		{"card", "banknote", "Cash"},
		{"tap_to_pay", "", "Tap to pay"},
		{"Bar tab", "", "Bar tab"},
		{"Bar tab", "unknown-icon", "Bar tab"},
		{"", "", "Other"},
		{"  ", "", "Other"},
	}
	for _, tt := range tests {
		if got := PaymentLabel(tt.method, tt.icon); got != tt.want {
			t.Errorf("PaymentLabel(%q, %q) = %q, want %q", tt.method, tt.icon, got, tt.want)
		}
	}
}

func TestActiveProducts(t *testing.T) {
	ev := &ledger.Event{Products: []ledger.Product{
		{Name: "Zeta", SortOrder: 1},
		{Name: "Gone", SortOrder: 0, Deleted: true},
		{Name: "Beta", SortOrder: 1},
		{Name: "Alpha", SortOrder: 2},
		{Name: "Omega", SortOrder: 0},
	}}
	var names []string
	for _, p := range ActiveProducts(ev) {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"Omega", "Beta", "Zeta", "Alpha"}, names); diff != "" {
		t.Errorf("ActiveProducts mismatch (-want +got):\n%s", diff)
	}
}
