// Package testgen provides utilities for generating test files (PDF) with a
// configurable page count for testing the import pipeline.
package testgen

import (
	"os"
	"path/filepath"
	"testing"
)

// PDFOptions configures the generated PDF file.
type PDFOptions struct {
	PageCount int    // defaults to 3
	Title     string // written to the document info dictionary when set
	Width     int    // page width in points, defaults to 612
	Height    int    // page height in points, defaults to 792
}

// CreateSubDir creates a subdirectory within the given parent directory.
// Returns the full path to the created subdirectory.
func CreateSubDir(t *testing.T, parent, name string) string {
	t.Helper()
	dir := filepath.Join(parent, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create subdirectory %s: %v", dir, err)
	}
	return dir
}

// WriteFile creates a file with the given content in the specified directory.
// Returns the full path to the created file.
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
