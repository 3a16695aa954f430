// =============================================================================
// Event Sales Export - XLSX Package Writer
// =============================================================================
//
// This module serializes a workbook.Workbook into an Office Open XML
// spreadsheet package: a ZIP container of XML parts.
//
// PIPELINE:
//   1. Validate worksheet names
//   2. Create a temporary file for the ZIP container
//   3. Write the package parts (see parts.go for the layout)
//   4. Close the container and read the bytes back
//   5. Close and remove the temporary file, on every exit path
//
// All strings are written inline (t="inlineStr"), so the shared-strings
// part is always empty. Numbers are written as plain literals; currency
// amounts get a number format built from the currency's symbol.
//
// =============================================================================

package xlsxwriter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/ginjaninja78/event-sales-export/internal/workbook"
)

// DefaultCompressionLevel is used when Options.CompressionLevel is zero.
const DefaultCompressionLevel = flate.DefaultCompression

// Options configures a Writer.
type Options struct {
	// TempDir holds the temporary container file. Empty means os.TempDir().
	TempDir string

	// CompressionLevel is a flate level in [-2, 9]. Zero selects
	// DefaultCompressionLevel.
	CompressionLevel int

	// Now stamps the ZIP entries and, when the workbook has no creation
	// time, the document properties. Nil means time.Now.
	Now func() time.Time
}

// Writer serializes workbooks. A Writer holds no per-call state and may be
// shared between goroutines.
type Writer struct {
	tempDir string
	level   int
	now     func() time.Time
}

// New creates a Writer.
func New(opts Options) (*Writer, error) {
	level := opts.CompressionLevel
	if level == 0 {
		level = DefaultCompressionLevel
	}
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		return nil, fmt.Errorf("compression level %d out of range [%d, %d]", level, flate.HuffmanOnly, flate.BestCompression)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Writer{
		tempDir: opts.TempDir,
		level:   level,
		now:     now,
	}, nil
}

// Serialize encodes wb as an XLSX package.
//
// PARAMETERS:
//   - wb: The workbook to encode. It is not modified.
//
// RETURNS:
//   - The complete package bytes.
//   - A *SerializeError naming the failing step and part. No partial
//     buffer is ever returned alongside an error.
func (w *Writer) Serialize(wb *workbook.Workbook) ([]byte, error) {
	if err := validateSheetNames(wb); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(w.tempDir, "export-*.xlsx")
	if err != nil {
		return nil, &SerializeError{Op: "create", Err: err}
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	now := w.now()

	zw := zip.NewWriter(tmp)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, w.level)
	})

	if err := w.writeParts(zw, wb, now); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, &SerializeError{Op: "close", Err: err}
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, &SerializeError{Op: "read", Err: err}
	}
	data, err := io.ReadAll(tmp)
	if err != nil {
		return nil, &SerializeError{Op: "read", Err: err}
	}
	return data, nil
}

// writeParts writes every package part into zw.
func (w *Writer) writeParts(zw *zip.Writer, wb *workbook.Workbook, now time.Time) error {
	styles := newStyleTable(wb.CurrencySymbols)
	count := len(wb.Sheets)

	parts := []struct {
		name string
		data []byte
	}{
		{contentTypesPart, contentTypes(count)},
		{rootRelsPart, rootRels()},
		{corePart, coreProps(wb, now)},
		{appPart, appProps(wb)},
		{workbookPart, workbookXML(wb)},
		{workbookRelsPart, workbookRels(count)},
	}
	for _, p := range parts {
		if err := writePart(zw, p.name, p.data, now); err != nil {
			return err
		}
	}

	// Sheets register their styles, so styles.xml goes after them.
	var buffer bytes.Buffer
	for i, ws := range wb.Sheets {
		buffer.Reset()
		writeSheet(&buffer, ws, styles, i == 0)
		if err := writePart(zw, sheetPart(i+1), buffer.Bytes(), now); err != nil {
			return err
		}
	}

	if err := writePart(zw, stylesPart, styles.render(), now); err != nil {
		return err
	}
	return writePart(zw, sharedStringsPart, sharedStrings(), now)
}

func writePart(zw *zip.Writer, name string, data []byte, modified time.Time) error {
	fw, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return &SerializeError{Op: "write", Part: name, Err: err}
	}
	if _, err := fw.Write(data); err != nil {
		return &SerializeError{Op: "write", Part: name, Err: err}
	}
	return nil
}
