package workbook

import (
	"fmt"
	"strings"
)

// ColumnName converts a 0-based column index into spreadsheet letters:
// 0 -> A, 25 -> Z, 26 -> AA, 701 -> ZZ, 702 -> AAA.
func ColumnName(index int) string {
	if index < 0 {
		return ""
	}
	var buf [8]byte
	pos := len(buf)
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		pos--
		buf[pos] = byte('A' + (n-1)%26)
	}
	return string(buf[pos:])
}

// ColumnIndex converts spreadsheet letters back into a 0-based index.
func ColumnIndex(name string) (int, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	n := 0
	for _, r := range name {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column name %q", name)
		}
		n = n*26 + int(r-'A'+1)
	}
	return n - 1, nil
}

// CellRef returns the A1-style reference of a 0-based (row, col) pair.
func CellRef(row, col int) string {
	return fmt.Sprintf("%s%d", ColumnName(col), row+1)
}
