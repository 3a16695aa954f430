// =============================================================================
// Event Sales Export - File Manager Utility
// =============================================================================
//
// This module provides the file handling the CLI needs around the export
// engine, which itself performs no I/O beyond its scoped temporary files:
//   - Output directory management
//   - Output file naming
//   - Atomic writes of finished workbooks
//
// WRITE STRATEGY:
//   - The workbook is written to a temporary file next to its destination
//   - The temporary file is synced and renamed into place
//   - On any failure the temporary file is removed and the destination
//     is left untouched
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the CLI.
type FileManager struct {
	// OutputDir is the directory where exported workbooks are placed.
	OutputDir string
}

// NewFileManager creates a new FileManager for the output directory.
func NewFileManager(outputDir string) *FileManager {
	return &FileManager{OutputDir: outputDir}
}

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// WriteExport writes data into the output directory under fileName.
//
// RETURNS:
//   - The path of the written file.
//   - An error if the file cannot be written.
func (fm *FileManager) WriteExport(fileName string, data []byte) (string, error) {
	path := filepath.Join(fm.OutputDir, fileName)
	if err := WriteFileAtomic(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - The export time (YYYYMMDD_HHMMSS)
//               {date}      - The export date (YYYYMMDD)
//               {event}     - The event name
//               {day}       - The exported day
//   - params: A map of placeholder values. Values are sanitized.
//   - now: The export time.
//
// RETURNS:
//   - The generated file name, always ending in .xlsx.
//
// EXAMPLE:
//   format: "{event}_{timestamp}.xlsx"
//   params: {"event": "Summer Fair"}
//   output: "Summer_Fair_20260704_143022.xlsx"
func GenerateOutputFileName(format string, params map[string]string, now time.Time) string {
	// Build replacements.
	replacements := map[string]string{
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
	}

	// Add custom params.
	for key, value := range params {
		replacements["{"+key+"}"] = SanitizeFileName(value)
	}

	// Apply replacements. {uuid} is generated only when present.
	result := format
	if strings.Contains(result, "{uuid}") {
		result = strings.ReplaceAll(result, "{uuid}", uuid.New().String())
	}
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Ensure .xlsx extension.
	if !strings.HasSuffix(strings.ToLower(result), ".xlsx") {
		result += ".xlsx"
	}

	return result
}

// SanitizeFileName replaces characters that are unsafe in file names.
// Runs of spaces and separators collapse into a single underscore.
func SanitizeFileName(s string) string {
	var b strings.Builder
	lastUnderscore := false

	for _, r := range strings.TrimSpace(s) {
		safe := unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.'
		if !safe {
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteRune(r)
		lastUnderscore = false
	}

	result := strings.Trim(b.String(), "_.")
	if result == "" {
		return "export"
	}
	return result
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// WriteFileAtomic writes data to path through a synced temporary file in the
// same directory, then renames it into place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		committed = true
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	committed = true
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
