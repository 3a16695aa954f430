package xlsxwriter

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/currency"

	"github.com/ginjaninja78/event-sales-export/internal/workbook"
)

// =============================================================================
// STYLE TABLE
// =============================================================================
//
// Cells reference a slot of the cellXfs table by index.
//
// FIXED SLOTS:
//   0 : default
//   1 : bold
//
// Further slots are registered on demand: centered text and one slot per
// (currency number format, bold) pair. Custom number formats start at id 164,
// the first id not reserved for built-in formats.

const (
	styleDefault = 0
	styleBold    = 1

	firstCustomNumFmt = 164
)

type styleKey struct {
	bold     bool
	centered bool
	numFmtID int
}

type numFmt struct {
	id   int
	code string
}

type styleTable struct {
	symbols map[string]string

	xfs   []styleKey
	slots map[styleKey]int

	numFmts    []numFmt
	fmtByCode  map[string]int
	fmtForCode map[string]int
}

func newStyleTable(symbols map[string]string) *styleTable {
	t := &styleTable{
		symbols:    symbols,
		slots:      make(map[styleKey]int),
		fmtByCode:  make(map[string]int),
		fmtForCode: make(map[string]int),
	}
	t.slot(styleKey{})
	t.slot(styleKey{bold: true})
	return t
}

// slot returns the cellXfs index for k, registering it if needed.
func (t *styleTable) slot(k styleKey) int {
	if idx, ok := t.slots[k]; ok {
		return idx
	}
	idx := len(t.xfs)
	t.xfs = append(t.xfs, k)
	t.slots[k] = idx
	return idx
}

// cellStyle returns the slot for a cell.
func (t *styleTable) cellStyle(c workbook.Cell) int {
	switch v := c.(type) {
	case workbook.Text:
		return t.slot(styleKey{bold: v.Bold, centered: v.Centered})
	case workbook.Number:
		if v.Bold {
			return styleBold
		}
		return styleDefault
	case workbook.Currency:
		return t.slot(styleKey{bold: v.Bold, numFmtID: t.currencyFormat(v.Code)})
	default:
		return styleDefault
	}
}

// currencyFormat returns the number-format id used for amounts in code.
func (t *styleTable) currencyFormat(code string) int {
	if id, ok := t.fmtForCode[code]; ok {
		return id
	}

	symbol := code
	if s, ok := t.symbols[code]; ok && s != "" {
		symbol = s
	}
	formatCode := currencyFormatCode(symbol, currencyDecimals(code))

	id, ok := t.fmtByCode[formatCode]
	if !ok {
		id = firstCustomNumFmt + len(t.numFmts)
		t.numFmts = append(t.numFmts, numFmt{id: id, code: formatCode})
		t.fmtByCode[formatCode] = id
	}
	t.fmtForCode[code] = id
	return id
}

// currencyDecimals returns the minor-unit digits of an ISO 4217 code,
// defaulting to 2 for codes the currency table does not know.
func currencyDecimals(code string) int {
	if code == "" {
		return 2
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

// currencyFormatCode builds a format such as "$"#,##0.00.
func currencyFormatCode(symbol string, decimals int) string {
	num := "#,##0"
	if decimals > 0 {
		num += "." + strings.Repeat("0", decimals)
	}
	symbol = strings.ReplaceAll(symbol, `"`, "")
	if symbol == "" {
		return num
	}
	return `"` + symbol + `"` + num
}

// =============================================================================
// STYLES PART
// =============================================================================

func (t *styleTable) render() []byte {
	var buffer bytes.Buffer

	buffer.WriteString(xmlHeader)
	buffer.WriteString(`<styleSheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">`)

	if len(t.numFmts) > 0 {
		buffer.WriteString(fmt.Sprintf(`<numFmts count="%d">`, len(t.numFmts)))
		for _, f := range t.numFmts {
			buffer.WriteString(fmt.Sprintf(`<numFmt numFmtId="%d" formatCode="%s"/>`, f.id, escapeXML(f.code)))
		}
		buffer.WriteString(`</numFmts>`)
	}

	buffer.WriteString(`<fonts count="2">`)
	buffer.WriteString(`<font><sz val="11"/><name val="Calibri"/><family val="2"/></font>`)
	buffer.WriteString(`<font><b/><sz val="11"/><name val="Calibri"/><family val="2"/></font>`)
	buffer.WriteString(`</fonts>`)

	buffer.WriteString(`<fills count="2">`)
	buffer.WriteString(`<fill><patternFill patternType="none"/></fill>`)
	buffer.WriteString(`<fill><patternFill patternType="gray125"/></fill>`)
	buffer.WriteString(`</fills>`)

	buffer.WriteString(`<borders count="1"><border><left/><right/><top/><bottom/><diagonal/></border></borders>`)
	buffer.WriteString(`<cellStyleXfs count="1"><xf numFmtId="0" fontId="0" fillId="0" borderId="0"/></cellStyleXfs>`)

	buffer.WriteString(fmt.Sprintf(`<cellXfs count="%d">`, len(t.xfs)))
	for _, k := range t.xfs {
		font := 0
		if k.bold {
			font = 1
		}
		buffer.WriteString(fmt.Sprintf(`<xf numFmtId="%d" fontId="%d" fillId="0" borderId="0" xfId="0"`, k.numFmtID, font))
		if k.numFmtID != 0 {
			buffer.WriteString(` applyNumberFormat="1"`)
		}
		if k.bold {
			buffer.WriteString(` applyFont="1"`)
		}
		if k.centered {
			buffer.WriteString(` applyAlignment="1"><alignment horizontal="center"/></xf>`)
		} else {
			buffer.WriteString(`/>`)
		}
	}
	buffer.WriteString(`</cellXfs>`)

	buffer.WriteString(`<cellStyles count="1"><cellStyle name="Normal" xfId="0" builtinId="0"/></cellStyles>`)
	buffer.WriteString(`</styleSheet>`)

	return buffer.Bytes()
}
