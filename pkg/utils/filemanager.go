// =============================================================================
// Salescope - File Manager Utility
// =============================================================================
//
// File management helpers for the pipeline: directory creation, input
// archival after a successful run, and output file naming.
//
// ARCHIVAL STRATEGY:
//   - The input file is moved to the archive directory only after the
//     whole run succeeded; on any failure it stays where it was.
//   - Archived names carry a timestamp so repeated runs never collide.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EnsureDirectories creates all given directories if they don't exist.
func EnsureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ArchiveInputFile moves a processed input file into the archive
// directory, prefixing the name with a timestamp.
//
// RETURNS:
//   - The path of the archived file.
//   - An error if the move fails.
func ArchiveInputFile(filePath, archiveDir string) (string, error) {
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), filepath.Base(filePath))
	dest := filepath.Join(archiveDir, name)

	// Rename first; fall back to copy+remove for cross-device moves.
	if err := os.Rename(filePath, dest); err != nil {
		if err := copyFile(filePath, dest); err != nil {
			return "", fmt.Errorf("failed to archive %s: %w", filePath, err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original after archive: %w", err)
		}
	}

	return dest, nil
}

// GenerateOutputFileName expands the output name format. Supported
// placeholders:
//   - {uuid}      : a random UUID
//   - {timestamp} : current timestamp (YYYYMMDD_HHMMSS)
func GenerateOutputFileName(format string) string {
	name := format
	name = strings.ReplaceAll(name, "{uuid}", uuid.NewString())
	name = strings.ReplaceAll(name, "{timestamp}", time.Now().Format("20060102_150405"))
	return name
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// copyFile copies src to dst, creating or truncating dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
