package xlsxwriter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/event-sales-export/internal/workbook"
)

// MaxSheetNameLength is the longest worksheet name spreadsheet readers accept.
const MaxSheetNameLength = 31

var (
	// ErrInvalidSheetName is returned for empty, too long, duplicate or
	// otherwise unusable worksheet names.
	ErrInvalidSheetName = errors.New("invalid sheet name")

	// ErrNoSheets is returned for a workbook without worksheets.
	ErrNoSheets = errors.New("workbook has no sheets")
)

// SerializeError reports which step and which package part failed.
type SerializeError struct {
	// Op is the failing step: "validate", "create", "write", "close" or "read".
	Op string

	// Part is the package part being produced, if any.
	Part string

	Err error
}

func (e *SerializeError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("xlsx %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("xlsx %s %s: %v", e.Op, e.Part, e.Err)
}

func (e *SerializeError) Unwrap() error {
	return e.Err
}

// validateSheetNames checks every worksheet name of wb.
func validateSheetNames(wb *workbook.Workbook) error {
	if len(wb.Sheets) == 0 {
		return &SerializeError{Op: "validate", Part: workbookPart, Err: ErrNoSheets}
	}

	seen := make(map[string]bool, len(wb.Sheets))
	for _, ws := range wb.Sheets {
		name := ws.Name
		var problem string
		switch {
		case strings.TrimSpace(name) == "":
			problem = "name is empty"
		case len([]rune(name)) > MaxSheetNameLength:
			problem = fmt.Sprintf("name is longer than %d characters", MaxSheetNameLength)
		case strings.ContainsAny(name, `[]:*?/\`):
			problem = "name contains one of [ ] : * ? / \\"
		case strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'"):
			problem = "name starts or ends with an apostrophe"
		case seen[strings.ToLower(name)]:
			problem = "name is used by another sheet"
		}
		if problem != "" {
			return &SerializeError{
				Op:   "validate",
				Part: workbookPart,
				Err:  fmt.Errorf("%w %q: %s", ErrInvalidSheetName, name, problem),
			}
		}
		seen[strings.ToLower(name)] = true
	}
	return nil
}
