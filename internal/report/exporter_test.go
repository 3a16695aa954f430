package report

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/event-sales-export/internal/ledger"
	"github.com/ginjaninja78/event-sales-export/internal/xlsxwriter"
)

var (
	fixedNow = time.Date(2026, 7, 4, 18, 0, 0, 0, time.UTC)
	saleTime = time.Date(2026, 7, 4, 10, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func scenario() *ledger.Event {
	return &ledger.Event{
		Name: "Summer Fair",
		Currencies: []ledger.Currency{
			{Code: "USD", Symbol: "$", Rate: dec("1"), IsMain: true},
			{Code: "EUR", Symbol: "€", Rate: dec("0.90")},
		},
		Products: []ledger.Product{
			{ID: uuid.New(), Name: "Water", Price: dec("2"), SortOrder: 0},
			{ID: uuid.New(), Name: "Beer", Price: dec("5"), SortOrder: 1},
		},
		Transactions: []ledger.Transaction{{
			ID:            uuid.New(),
			Timestamp:     saleTime,
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

func export(t *testing.T, ev *ledger.Event, opts Options) *excelize.File {
	t.Helper()
	if opts.TempDir == "" {
		opts.TempDir = t.TempDir()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	exp, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	res, err := exp.Export(ev, "alice")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("excelize.OpenReader() error = %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func cellText(t *testing.T, f *excelize.File, sheet, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, ref, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue(%s!%s) error = %v", sheet, ref, err)
	}
	return v
}

func assertAmount(t *testing.T, f *excelize.File, sheet, ref, want string) {
	t.Helper()
	raw := cellText(t, f, sheet, ref)
	got, err := decimal.NewFromString(raw)
	if err != nil {
		t.Errorf("%s!%s = %q, want number %s", sheet, ref, raw, want)
		return
	}
	if !got.Equal(dec(want)) {
		t.Errorf("%s!%s = %s, want %s", sheet, ref, got, want)
	}
}

func TestExport_EndToEndScenario(t *testing.T) {
	f := export(t, scenario(), Options{})

	want := []string{SheetRegistry, SheetCurrencies, SheetProducts, SheetGroups}
	if diff := cmp.Diff(want, f.GetSheetList()); diff != "" {
		t.Fatalf("sheet list mismatch (-want +got):\n%s", diff)
	}
	for _, sheet := range want {
		panes, err := f.GetPanes(sheet)
		if err != nil {
			t.Fatal(err)
		}
		if !panes.Freeze || panes.YSplit != 1 {
			t.Errorf("%s header row is not frozen: %+v", sheet, panes)
		}
	}

	// Registry: Water and Beer columns follow the six fixed columns.
	if got := cellText(t, f, SheetRegistry, "G1"); got != "Water" {
		t.Errorf("Registry G1 = %q, want Water", got)
	}
	if got := cellText(t, f, SheetRegistry, "H1"); got != "Beer" {
		t.Errorf("Registry H1 = %q, want Beer", got)
	}
	if got := cellText(t, f, SheetRegistry, "F1"); got != "Total (USD)" {
		t.Errorf("Registry F1 = %q", got)
	}
	if got := cellText(t, f, SheetRegistry, "C2"); got != "Cash + Card" {
		t.Errorf("Registry C2 = %q", got)
	}
	assertAmount(t, f, SheetRegistry, "F2", "11")
	assertAmount(t, f, SheetRegistry, "G2", "3")
	assertAmount(t, f, SheetRegistry, "H2", "1")

	// Currencies: two method rows under USD summing to 11.
	if cellText(t, f, SheetCurrencies, "B2") != "Cash" || cellText(t, f, SheetCurrencies, "B3") != "Card" {
		t.Errorf("Currencies method rows = %q, %q", cellText(t, f, SheetCurrencies, "B2"), cellText(t, f, SheetCurrencies, "B3"))
	}
	assertAmount(t, f, SheetCurrencies, "D2", "6")
	assertAmount(t, f, SheetCurrencies, "D3", "5")
	assertAmount(t, f, SheetCurrencies, "D4", "11")
	assertAmount(t, f, SheetCurrencies, "E4", "11")
	if got := cellText(t, f, SheetCurrencies, "A6"); got != "Grand total" {
		t.Errorf("Currencies A6 = %q", got)
	}
	assertAmount(t, f, SheetCurrencies, "E6", "11")

	// Products: Water's 6.00 split 6/11 and 5/11.
	if got := cellText(t, f, SheetProducts, "A2"); got != "Water" {
		t.Errorf("Products A2 = %q", got)
	}
	assertAmount(t, f, SheetProducts, "F2", "6")
	if cellText(t, f, SheetProducts, "C3") != "Cash" || cellText(t, f, SheetProducts, "C4") != "Card" {
		t.Errorf("Products Water sub-rows = %q, %q", cellText(t, f, SheetProducts, "C3"), cellText(t, f, SheetProducts, "C4"))
	}
	assertAmount(t, f, SheetProducts, "E3", "3.27")
	assertAmount(t, f, SheetProducts, "E4", "2.73")
	if got := cellText(t, f, SheetProducts, "A5"); got != "Beer" {
		t.Errorf("Products A5 = %q", got)
	}

	// Groups: every product is uncategorized.
	if cellText(t, f, SheetGroups, "A2") != "Categories" || cellText(t, f, SheetGroups, "A3") != "Uncategorized" {
		t.Errorf("Groups rows = %q, %q", cellText(t, f, SheetGroups, "A2"), cellText(t, f, SheetGroups, "A3"))
	}
	assertAmount(t, f, SheetGroups, "F3", "11")

	props, err := f.GetDocProps()
	if err != nil {
		t.Fatal(err)
	}
	if props.Creator != "alice" || props.Title != "Summer Fair" {
		t.Errorf("doc props = %+v", props)
	}
}

func TestExport_EmptyLedger(t *testing.T) {
	ev := scenario()
	ev.Transactions = nil
	f := export(t, ev, Options{})

	if len(f.GetSheetList()) != 4 {
		t.Fatalf("got sheets %v", f.GetSheetList())
	}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 1 {
			t.Errorf("%s has %d rows, want the header only", sheet, len(rows))
		}
	}
}

func TestExport_EscapesUserText(t *testing.T) {
	ev := scenario()
	note := `Fish & Chips <"large"> 'to go'`
	ev.Transactions[0].Note = note
	ev.Transactions[0].ReceiptEmail = "a&b@example.com"
	ev.Products[0].Name = "Water <0.5l>"
	ev.Transactions[0].Items[0].ProductName = "Water <0.5l>"

	f := export(t, ev, Options{})
	if got := cellText(t, f, SheetRegistry, "I2"); got != note {
		t.Errorf("note = %q, want %q", got, note)
	}
	if got := cellText(t, f, SheetRegistry, "J2"); got != "a&b@example.com" {
		t.Errorf("email = %q", got)
	}
	if got := cellText(t, f, SheetRegistry, "G1"); got != "Water <0.5l>" {
		t.Errorf("product header = %q", got)
	}
}

func TestExport_DeletedProductKeepsHistory(t *testing.T) {
	ev := scenario()
	ev.Products[1].Deleted = true

	f := export(t, ev, Options{})

	// No Registry column for Beer: Note follows Water.
	if got := cellText(t, f, SheetRegistry, "H1"); got != "Note" {
		t.Errorf("Registry H1 = %q, want Note", got)
	}
	if got := cellText(t, f, SheetProducts, "A5"); got != "Beer" {
		t.Errorf("Products A5 = %q, want the deleted product's sales", got)
	}
	assertAmount(t, f, SheetProducts, "F5", "5")
}

func TestExport_DayFilter(t *testing.T) {
	ev := scenario()
	other := ev.Transactions[0]
	other.ID = uuid.New()
	other.Timestamp = saleTime.AddDate(0, 0, 1)
	ev.Transactions = append(ev.Transactions, other)

	day := saleTime
	f := export(t, ev, Options{Day: &day})
	rows, err := f.GetRows(SheetRegistry)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Errorf("Registry has %d rows, want header plus one transaction", len(rows))
	}
}

func TestExport_SerializerErrorPassesThrough(t *testing.T) {
	exp, err := New(Options{TempDir: filepath.Join(t.TempDir(), "missing")})
	if err != nil {
		t.Fatal(err)
	}
	res, err := exp.Export(scenario(), "alice")
	if res != nil {
		t.Errorf("Export() returned a result alongside an error")
	}
	if _, ok := err.(*xlsxwriter.SerializeError); !ok {
		t.Errorf("error = %T %v, want *xlsxwriter.SerializeError unwrapped", err, err)
	}
	var serr *xlsxwriter.SerializeError
	if !errors.As(err, &serr) || serr.Op != "create" {
		t.Errorf("error = %v", err)
	}
}

func TestExport_LogsSnapshotIssues(t *testing.T) {
	ev := scenario()
	ev.Transactions[0].Items = append(ev.Transactions[0].Items,
		ledger.LineItem{ProductName: "Ghost", Quantity: dec("1"), UnitPrice: dec("0")})

	var buf bytes.Buffer
	log := zerolog.New(&buf)
	exp, err := New(Options{TempDir: t.TempDir(), Logger: &log})
	if err != nil {
		t.Fatal(err)
	}
	res, err := exp.Export(ev, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Issues != 1 {
		t.Errorf("Stats.Issues = %d, want 1", res.Stats.Issues)
	}
	if !strings.Contains(buf.String(), `"issue":"orphan_product"`) {
		t.Errorf("log output lacks the issue:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), `"event":"Summer Fair"`) {
		t.Errorf("log lines lack the event field:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), `"operator"`) {
		t.Errorf("empty operator was logged:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), `"message":"export complete"`) {
		t.Errorf("log output lacks the completion line:\n%s", buf.String())
	}
}

func TestNew_RejectsCompressionLevel(t *testing.T) {
	if _, err := New(Options{CompressionLevel: 42}); err == nil {
		t.Error("New() accepted compression level 42")
	}
}
