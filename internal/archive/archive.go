package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// timestampFormat names archived files.
const timestampFormat = "20060102-150405"

// ArchiveFile moves an existing output file to an archive directory next to
// it, named <name>-<timestamp><ext>. It returns the new path.
func ArchiveFile(path string, now time.Time) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("file to archive does not exist: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("cannot archive directory %s", path)
	}

	archiveDir := filepath.Join(filepath.Dir(path), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	stamp := now.Format(timestampFormat)

	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, stamp, ext))
	// Archiving twice within a second must not overwrite the first copy
	for i := 1; exists(archivePath); i++ {
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s-%d%s", base, stamp, i, ext))
	}

	if err := os.Rename(path, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", path, err)
	}

	return archivePath, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
