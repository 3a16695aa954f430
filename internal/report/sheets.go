package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/event-sales-export/internal/aggregate"
	"github.com/ginjaninja78/event-sales-export/internal/ledger"
	"github.com/ginjaninja78/event-sales-export/internal/workbook"
)

// Sheet names, in workbook order.
const (
	SheetRegistry   = "Registry"
	SheetCurrencies = "Currencies"
	SheetProducts   = "Products"
	SheetGroups     = "Groups"
)

// registryDateLayout formats the Registry's Date column.
const registryDateLayout = "2006-01-02 15:04:05"

// =============================================================================
// CELL HELPERS
// =============================================================================

func header(labels ...string) []workbook.Cell {
	cells := make([]workbook.Cell, len(labels))
	for i, l := range labels {
		cells[i] = workbook.Text{Value: l, Bold: true, Centered: true}
	}
	return cells
}

func text(s string) workbook.Cell {
	if s == "" {
		return workbook.Empty{}
	}
	return workbook.Text{Value: s}
}

func bold(s string) workbook.Cell {
	return workbook.Text{Value: s, Bold: true}
}

func units(d decimal.Decimal, strong bool) workbook.Cell {
	return workbook.Number{Value: d, Bold: strong}
}

func amountCell(d decimal.Decimal, code string, strong bool) workbook.Cell {
	return workbook.Currency{Value: d, Code: code, Bold: strong}
}

func totalLabel(mainCode string) string {
	if mainCode == "" {
		return "Total"
	}
	return "Total (" + mainCode + ")"
}

func setWidths(ws *workbook.Worksheet, widths ...float64) {
	for i, w := range widths {
		ws.SetColumnWidth(i, w)
	}
}

// =============================================================================
// REGISTRY
// =============================================================================
//
// One row per transaction in chronological order, one column per active
// product holding the quantity sold in that transaction.
//
//   Date | Reference | Payment | Currency | Amount | Total (MAIN) | <products...> | Note | Email

func buildRegistry(wb *workbook.Workbook, s *aggregate.Summary, products []ledger.Product, loc *time.Location) {
	ws := wb.AddWorksheet(SheetRegistry, 1)

	labels := []string{"Date", "Reference", "Payment", "Currency", "Amount", totalLabel(s.MainCode)}
	for _, p := range products {
		labels = append(labels, p.Name)
	}
	labels = append(labels, "Note", "Email")
	ws.AddRow(header(labels...)...)

	setWidths(ws, 20, 16, 20, 10, 12, 14)
	for i := range products {
		ws.SetColumnWidth(6+i, 10)
	}
	ws.SetColumnWidth(6+len(products), 32)
	ws.SetColumnWidth(7+len(products), 28)

	for _, row := range s.Transactions {
		tx := row.Transaction
		cells := []workbook.Cell{
			text(tx.Timestamp.In(loc).Format(registryDateLayout)),
			text(tx.Reference),
			text(row.Payment),
			text(row.CurrencyCode),
			amountCell(tx.Total, row.CurrencyCode, false),
			amountCell(row.TotalMain, s.MainCode, false),
		}
		for _, p := range products {
			q, ok := row.Quantities[p.Name]
			if !ok || q.IsZero() {
				cells = append(cells, workbook.Empty{})
				continue
			}
			cells = append(cells, units(q, false))
		}
		cells = append(cells, text(tx.Note), text(tx.ReceiptEmail))
		ws.AddRow(cells...)
	}
}

// =============================================================================
// CURRENCIES
// =============================================================================
//
//   Currency | Payment method | Units | Amount | Total (MAIN)
//   USD      | Cash           | 2.19  | 6.00   |
//   USD      | Card           | 1.81  | 5.00   |
//   USD total|                | 4     | 11.00  | 11.00
//
//   Grand total                         ...      11.00
//
//   Categories
//   Drinks   |                | 4     |        | 11.00

func buildCurrencies(wb *workbook.Workbook, s *aggregate.Summary) {
	ws := wb.AddWorksheet(SheetCurrencies, 1)
	ws.AddRow(header("Currency", "Payment method", "Units", "Amount", totalLabel(s.MainCode))...)
	setWidths(ws, 18, 20, 10, 14, 14)

	if len(s.Currencies) == 0 {
		return
	}

	grandUnits := decimal.Zero
	for _, g := range s.Currencies {
		for _, m := range g.Methods {
			ws.AddRow(text(g.Code), text(m.Method), units(m.Units, false), amountCell(m.Subtotal, g.Code, false))
		}
		ws.AddRow(
			bold(g.Code+" total"),
			workbook.Empty{},
			units(g.Units, true),
			amountCell(g.Total, g.Code, true),
			amountCell(g.TotalMain, s.MainCode, true),
		)
		grandUnits = grandUnits.Add(g.Units)
	}

	ws.AddRow()
	ws.AddRow(
		bold("Grand total"),
		workbook.Empty{},
		units(grandUnits, true),
		workbook.Empty{},
		amountCell(s.GrandTotalMain(), s.MainCode, true),
	)

	if len(s.Categories) == 0 {
		return
	}
	ws.AddRow()
	ws.AddRow(bold("Categories"))
	for _, g := range s.Categories {
		ws.AddRow(text(g.Label), workbook.Empty{}, units(g.Units, false), workbook.Empty{}, amountCell(g.TotalMain, s.MainCode, false))
	}
}

// =============================================================================
// PRODUCTS AND GROUPS
// =============================================================================
//
//   Name  | Currency | Payment method | Units | Amount | Total (MAIN)
//   Water |          |                | 3     |        | 6.00
//         | USD      | Cash           | 1.64  | 3.27   |
//         | USD      | Card           | 1.36  | 2.73   |

func groupHeader(first, mainCode string) []workbook.Cell {
	return header(first, "Currency", "Payment method", "Units", "Amount", totalLabel(mainCode))
}

func writeGroups(ws *workbook.Worksheet, groups []aggregate.Group, mainCode string) {
	for _, g := range groups {
		ws.AddRow(
			bold(g.Label),
			workbook.Empty{},
			workbook.Empty{},
			units(g.Units, true),
			workbook.Empty{},
			amountCell(g.TotalMain, mainCode, true),
		)
		for _, sec := range g.Sections {
			for _, m := range sec.Methods {
				ws.AddRow(
					workbook.Empty{},
					text(sec.Code),
					text(m.Method),
					units(m.Units, false),
					amountCell(m.Subtotal, sec.Code, false),
				)
			}
		}
	}
}

func buildProducts(wb *workbook.Workbook, s *aggregate.Summary) {
	ws := wb.AddWorksheet(SheetProducts, 1)
	ws.AddRow(groupHeader("Product", s.MainCode)...)
	setWidths(ws, 24, 10, 20, 10, 14, 14)

	writeGroups(ws, s.Products, s.MainCode)
}

func buildGroups(wb *workbook.Workbook, s *aggregate.Summary) {
	ws := wb.AddWorksheet(SheetGroups, 1)
	ws.AddRow(groupHeader("Group", s.MainCode)...)
	setWidths(ws, 24, 10, 20, 10, 14, 14)

	if len(s.Categories) > 0 {
		ws.AddRow(bold("Categories"))
		writeGroups(ws, s.Categories, s.MainCode)
	}
	if len(s.Subgroups) > 0 {
		if len(s.Categories) > 0 {
			ws.AddRow()
		}
		ws.AddRow(bold("Subgroups"))
		writeGroups(ws, s.Subgroups, s.MainCode)
	}
}
