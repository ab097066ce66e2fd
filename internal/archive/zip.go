// Package archive unpacks the downloaded release archive into the
// scratch workspace, preserving the stored layout and refusing entries
// that would land outside the destination.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/auroralabs/bootstrapper/internal/logging"
)

// ArchiveError reports an archive that cannot be opened or read.
type ArchiveError struct {
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive %s: %v", e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// InsecureEntryError reports an archive entry whose name would escape
// the extraction directory (absolute path or parent traversal).
type InsecureEntryError struct {
	Name string
}

func (e *InsecureEntryError) Error() string {
	return fmt.Sprintf("archive entry %q escapes extraction directory", e.Name)
}

// ExtractZip unpacks archivePath into destDir, iterating entries in
// stored order. Directory entries are created with their ancestors;
// file entries get ancestor directories as needed, then their
// uncompressed bytes copied to a freshly created file. Every entry name
// is sanitized before being joined to destDir so no entry can write
// outside it.
func ExtractZip(archivePath, destDir string) error {
	logger := logging.GetLogger("archive")
	logger.Info().Str("archive", archivePath).Str("dest", destDir).Msg("extracting")

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return &ArchiveError{Path: archivePath, Err: err}
	}
	defer r.Close()

	for _, entry := range r.File {
		rel, err := sanitizeEntryName(entry.Name)
		if err != nil {
			return err
		}
		if rel == "" {
			continue
		}
		outPath := filepath.Join(destDir, rel)

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(outPath, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", outPath, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", filepath.Dir(outPath), err)
		}
		if err := extractFile(entry, outPath); err != nil {
			return err
		}
	}

	logger.Info().Msg("extraction completed")
	return nil
}

func extractFile(entry *zip.File, outPath string) error {
	in, err := entry.Open()
	if err != nil {
		return &ArchiveError{Path: entry.Name, Err: err}
	}
	defer in.Close()

	out, err := os.Create(outPath) // #nosec G304 -- outPath sanitized against destDir
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer out.Close()

	// Entry sizes come from an already digest-verified archive, so a
	// decompression bomb limit is not applied here.
	if _, err := io.Copy(out, in); err != nil { // #nosec G110
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}

// sanitizeEntryName normalizes an entry name to a clean slash-relative
// path under the extraction root. Absolute paths, drive-letter paths,
// and parent-directory traversal are rejected.
func sanitizeEntryName(name string) (string, error) {
	normalized := strings.ReplaceAll(name, `\`, "/")
	if strings.HasPrefix(normalized, "/") || hasDrivePrefix(normalized) {
		return "", &InsecureEntryError{Name: name}
	}
	cleaned := filepath.Clean(filepath.FromSlash(normalized))
	if cleaned == "." {
		return "", nil
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", &InsecureEntryError{Name: name}
	}
	return cleaned, nil
}

func hasDrivePrefix(name string) bool {
	if len(name) < 2 || name[1] != ':' {
		return false
	}
	c := name[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
