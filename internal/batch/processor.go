package batch

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BookEntry is one book of a batch run
type BookEntry struct {
	Input string
	// Output is empty when the output path should be derived from the input.
	Output string
}

// ReadBatchFile reads books from a file and returns BookEntry slice
// Supports formats:
// - Input only: "book.epub" (output path is derived)
// - With output: "book.epub = translated.epub"
// Lines starting with '#' are comments. Relative paths are resolved against
// the directory of the batch file.
func ReadBatchFile(filename string) ([]BookEntry, error) {
	var entries []BookEntry
	baseDir := filepath.Dir(filename)

	err := readPairs(filename, func(lineNo int, left, right string, paired bool) error {
		if left == "" {
			return fmt.Errorf("line %d: missing input file", lineNo)
		}
		entry := BookEntry{Input: resolve(baseDir, left)}
		if paired && right != "" {
			entry.Output = resolve(baseDir, right)
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return entries, nil
}

// ReadDictionary reads "word = translation" lines into a map. Later lines
// win over earlier ones.
func ReadDictionary(filename string) (map[string]string, error) {
	dict := make(map[string]string)

	err := readPairs(filename, func(lineNo int, left, right string, paired bool) error {
		if !paired || left == "" || right == "" {
			return fmt.Errorf("line %d: expected 'word = translation'", lineNo)
		}
		dict[left] = right
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	return dict, nil
}

// readPairs calls fn for every non-empty, non-comment line, split at the
// first '='.
func readPairs(filename string, fn func(lineNo int, left, right string, paired bool) error) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		left, right, paired := strings.Cut(line, "=")
		if err := fn(lineNo, strings.TrimSpace(left), strings.TrimSpace(right), paired); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func resolve(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
