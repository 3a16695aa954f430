// =============================================================================
// Event Sales Export - Workbook Model
// =============================================================================
//
// A plain in-memory description of a workbook: named worksheets made of rows
// of typed cells, plus per-column width hints. The model carries no XML or
// packaging knowledge; the xlsxwriter package turns it into bytes.
//
// CELL KINDS:
//   - Text     : a string, optionally bold and/or centered
//   - Number   : a plain numeric value (units, quantities)
//   - Currency : a money value tagged with the currency it is expressed in
//   - Empty    : an unset cell that still occupies its column
//
// =============================================================================

package workbook

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CELLS
// =============================================================================

// Cell is one of Text, Number, Currency or Empty.
type Cell interface {
	cell()
}

// Text is a string cell.
type Text struct {
	Value    string
	Bold     bool
	Centered bool
}

// Number is a numeric cell without a currency format.
type Number struct {
	Value decimal.Decimal
	Bold  bool
}

// Currency is a money cell. Code selects the number format.
type Currency struct {
	Value decimal.Decimal
	Code  string
	Bold  bool
}

// Empty is a blank cell.
type Empty struct{}

func (Text) cell()     {}
func (Number) cell()   {}
func (Currency) cell() {}
func (Empty) cell()    {}

// Row is an ordered list of cells starting at column A.
type Row []Cell

// =============================================================================
// WORKBOOK
// =============================================================================

// Workbook is an ordered collection of worksheets.
type Workbook struct {
	Title   string
	Creator string
	Created time.Time

	// CurrencySymbols maps currency codes to the symbol used in their
	// number format. Codes without an entry are shown with the code itself.
	CurrencySymbols map[string]string

	Sheets []*Worksheet
}

// New creates an empty workbook.
func New(title, creator string, created time.Time) *Workbook {
	return &Workbook{
		Title:           title,
		Creator:         creator,
		Created:         created,
		CurrencySymbols: make(map[string]string),
	}
}

// AddWorksheet appends a worksheet. frozenRows rows stay visible while
// scrolling.
func (w *Workbook) AddWorksheet(name string, frozenRows int) *Worksheet {
	ws := &Worksheet{
		Name:       name,
		FrozenRows: frozenRows,
		widths:     make(map[int]float64),
	}
	w.Sheets = append(w.Sheets, ws)
	return ws
}

// =============================================================================
// WORKSHEET
// =============================================================================

// Worksheet is one tab of the workbook.
type Worksheet struct {
	Name       string
	FrozenRows int
	Rows       []Row

	widths map[int]float64
}

// AddRow appends a row.
func (s *Worksheet) AddRow(cells ...Cell) {
	s.Rows = append(s.Rows, Row(cells))
}

// SetColumnWidth records a width hint for the 0-based column col.
// Non-positive widths clear the hint.
func (s *Worksheet) SetColumnWidth(col int, width float64) {
	if col < 0 {
		return
	}
	if width <= 0 {
		delete(s.widths, col)
		return
	}
	s.widths[col] = width
}

// ColumnWidth returns the width hint for col.
func (s *Worksheet) ColumnWidth(col int) (float64, bool) {
	w, ok := s.widths[col]
	return w, ok
}

// WidthColumns returns the columns carrying a width hint, ascending.
func (s *Worksheet) WidthColumns() []int {
	cols := make([]int, 0, len(s.widths))
	for c := range s.widths {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	return cols
}

// Extent returns the number of rows and the widest row's column count.
func (s *Worksheet) Extent() (rows, cols int) {
	for _, r := range s.Rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	return len(s.Rows), cols
}
