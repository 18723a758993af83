package archive

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var testTime = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func TestArchiveFile(t *testing.T) {
	tmpDir := t.TempDir()

	bookPath := filepath.Join(tmpDir, "book-is.epub")
	if err := os.WriteFile(bookPath, []byte("old book"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	archived, err := ArchiveFile(bookPath, testTime)
	if err != nil {
		t.Fatalf("ArchiveFile failed: %v", err)
	}

	want := filepath.Join(tmpDir, "archive", "book-is-20260314-150926.epub")
	if archived != want {
		t.Errorf("Expected archive path %s, got %s", want, archived)
	}

	if _, err := os.Stat(bookPath); !os.IsNotExist(err) {
		t.Error("Original file still exists after archiving")
	}

	content, err := os.ReadFile(archived)
	if err != nil {
		t.Fatalf("Failed to read archived file: %v", err)
	}
	if string(content) != "old book" {
		t.Errorf("Archived content mismatch: %q", content)
	}
}

func TestArchiveFile_NonExistentFile(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := ArchiveFile(filepath.Join(tmpDir, "missing.epub"), testTime)
	if err == nil {
		t.Fatal("Expected error for non-existent file")
	}

	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got: %v", err)
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Expected 'does not exist' error, got: %v", err)
	}
}

func TestArchiveFile_Directory(t *testing.T) {
	if _, err := ArchiveFile(t.TempDir(), testTime); err == nil {
		t.Error("Expected error when archiving a directory")
	}
}

func TestArchiveFile_MultipleArchives(t *testing.T) {
	tmpDir := t.TempDir()
	bookPath := filepath.Join(tmpDir, "book.epub")

	// Archive twice with the same timestamp
	for i := 0; i < 2; i++ {
		if err := os.WriteFile(bookPath, []byte{byte(i)}, 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		if _, err := ArchiveFile(bookPath, testTime); err != nil {
			t.Fatalf("ArchiveFile failed on iteration %d: %v", i, err)
		}
	}

	entries, err := os.ReadDir(filepath.Join(tmpDir, "archive"))
	if err != nil {
		t.Fatalf("Failed to read archive directory: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries in archive directory, got %d", len(entries))
	}
	if entries[0].Name() == entries[1].Name() {
		t.Error("Archives should have unique names")
	}
}
