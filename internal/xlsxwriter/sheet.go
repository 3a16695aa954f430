package xlsxwriter

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/ginjaninja78/event-sales-export/internal/workbook"
)

// =============================================================================
// WORKSHEET PART
// =============================================================================
//
// STRUCTURE (element order is fixed by the schema):
//
//   <worksheet>
//     <dimension ref="A1:F12"/>
//     <sheetViews>
//       <sheetView workbookViewId="0">
//         <pane ySplit="1" topLeftCell="A2" activePane="bottomLeft" state="frozen"/>
//       </sheetView>
//     </sheetViews>
//     <sheetFormatPr defaultRowHeight="15"/>
//     <cols><col min="1" max="1" width="18" customWidth="1"/></cols>
//     <sheetData>
//       <row r="1"><c r="A1" t="inlineStr" s="1"><is><t>Date</t></is></c></row>
//     </sheetData>
//   </worksheet>

func writeSheet(buffer *bytes.Buffer, ws *workbook.Worksheet, styles *styleTable, selected bool) {
	buffer.WriteString(xmlHeader)
	buffer.WriteString(fmt.Sprintf(`<worksheet xmlns="%s" xmlns:r="%s">`, nsMain, nsRelationships))

	buffer.WriteString(fmt.Sprintf(`<dimension ref="%s"/>`, dimension(ws)))

	buffer.WriteString(`<sheetViews><sheetView workbookViewId="0"`)
	if selected {
		buffer.WriteString(` tabSelected="1"`)
	}
	if ws.FrozenRows > 0 {
		topLeft := workbook.CellRef(ws.FrozenRows, 0)
		buffer.WriteString(`>`)
		buffer.WriteString(fmt.Sprintf(`<pane ySplit="%d" topLeftCell="%s" activePane="bottomLeft" state="frozen"/>`, ws.FrozenRows, topLeft))
		buffer.WriteString(fmt.Sprintf(`<selection pane="bottomLeft" activeCell="%s" sqref="%s"/>`, topLeft, topLeft))
		buffer.WriteString(`</sheetView>`)
	} else {
		buffer.WriteString(`/>`)
	}
	buffer.WriteString(`</sheetViews>`)

	buffer.WriteString(`<sheetFormatPr defaultRowHeight="15"/>`)

	if cols := ws.WidthColumns(); len(cols) > 0 {
		buffer.WriteString(`<cols>`)
		for _, c := range cols {
			w, _ := ws.ColumnWidth(c)
			buffer.WriteString(fmt.Sprintf(`<col min="%d" max="%d" width="%s" customWidth="1"/>`,
				c+1, c+1, strconv.FormatFloat(w, 'f', -1, 64)))
		}
		buffer.WriteString(`</cols>`)
	}

	buffer.WriteString(`<sheetData>`)
	for r, row := range ws.Rows {
		writeRow(buffer, r, row, styles)
	}
	buffer.WriteString(`</sheetData>`)

	buffer.WriteString(`</worksheet>`)
}

// dimension returns the used range, "A1" for an empty sheet.
func dimension(ws *workbook.Worksheet) string {
	rows, cols := ws.Extent()
	if rows == 0 || cols == 0 {
		return "A1"
	}
	return "A1:" + workbook.CellRef(rows-1, cols-1)
}

func writeRow(buffer *bytes.Buffer, r int, row workbook.Row, styles *styleTable) {
	buffer.WriteString(fmt.Sprintf(`<row r="%d">`, r+1))
	for c, cell := range row {
		writeCell(buffer, workbook.CellRef(r, c), cell, styles)
	}
	buffer.WriteString(`</row>`)
}

func writeCell(buffer *bytes.Buffer, ref string, cell workbook.Cell, styles *styleTable) {
	style := styles.cellStyle(cell)

	switch v := cell.(type) {
	case workbook.Text:
		buffer.WriteString(fmt.Sprintf(`<c r="%s"%s t="inlineStr"><is><t xml:space="preserve">%s</t></is></c>`,
			ref, styleAttr(style), escapeXML(v.Value)))
	case workbook.Number:
		buffer.WriteString(fmt.Sprintf(`<c r="%s"%s><v>%s</v></c>`, ref, styleAttr(style), v.Value.String()))
	case workbook.Currency:
		buffer.WriteString(fmt.Sprintf(`<c r="%s"%s><v>%s</v></c>`, ref, styleAttr(style), v.Value.String()))
	}
}

func styleAttr(style int) string {
	if style == styleDefault {
		return ""
	}
	return fmt.Sprintf(` s="%d"`, style)
}
