// Package filestore owns the managed directories that hold imported document
// copies and their generated thumbnails. Files are named by book identifier;
// the catalog only ever references paths handed out by this package.
package filestore

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/shishobooks/folio/pkg/fileutils"
	"github.com/shishobooks/folio/pkg/liberr"
)

// Store manages the documents and thumbnails directories.
type Store struct {
	booksDir      string
	thumbnailsDir string
}

// New returns a Store rooted at the given directories, made absolute so the
// paths it hands out stay valid whatever the working directory. They are
// created lazily on first write.
func New(booksDir, thumbnailsDir string) *Store {
	return &Store{
		booksDir:      absPath(booksDir),
		thumbnailsDir: absPath(thumbnailsDir),
	}
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

func (s *Store) BooksDir() string {
	return s.booksDir
}

func (s *Store) ThumbnailsDir() string {
	return s.thumbnailsDir
}

// DocumentPath is where Import places the copy of a source with extension ext.
func (s *Store) DocumentPath(id, ext string) string {
	return filepath.Join(s.booksDir, id+ext)
}

// Import copies sourcePath into the documents directory as <id><ext> and
// returns the managed path with the number of bytes copied. It never
// overwrites: an existing managed file for id is an error.
func (s *Store) Import(id, sourcePath string) (string, int64, error) {
	if err := checkID(id); err != nil {
		return "", 0, err
	}

	if err := os.MkdirAll(s.booksDir, 0755); err != nil {
		return "", 0, liberr.IO("import", s.booksDir, err)
	}

	dst := s.DocumentPath(id, filepath.Ext(sourcePath))
	n, err := fileutils.CopyFileExclusive(sourcePath, dst)
	if err != nil {
		return "", 0, liberr.IO("import", sourcePath, err)
	}

	return dst, n, nil
}

// WriteThumbnail stores thumbnail bytes as <id><ext>, where ext comes from
// sniffing the image data.
func (s *Store) WriteThumbnail(id string, data []byte) (string, error) {
	if err := checkID(id); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", liberr.Invalid("thumbnail for %q is empty", id)
	}

	if err := os.MkdirAll(s.thumbnailsDir, 0755); err != nil {
		return "", liberr.IO("write thumbnail", s.thumbnailsDir, err)
	}

	path := filepath.Join(s.thumbnailsDir, id+mimetype.Detect(data).Extension())
	if err := fileutils.WriteFileAtomic(path, data, 0644); err != nil {
		return "", liberr.IO("write thumbnail", path, err)
	}

	return path, nil
}

// Remove deletes a managed file. A missing file is reported as an IO error
// wrapping os.ErrNotExist; whether that is tolerable is up to the caller.
func (s *Store) Remove(path string) error {
	if !s.Owns(path) {
		return liberr.Invalid("%s is not a managed file", path)
	}
	if err := os.Remove(path); err != nil {
		return liberr.IO("remove", path, err)
	}
	return nil
}

// Exists reports whether a managed file is present.
func (s *Store) Exists(path string) bool {
	if !s.Owns(path) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Owns reports whether path lives directly inside one of the managed
// directories.
func (s *Store) Owns(path string) bool {
	if path == "" {
		return false
	}
	dir := filepath.Dir(absPath(path))
	return dir == s.booksDir || dir == s.thumbnailsDir
}

// ListDocuments returns the paths of every managed document, sorted.
func (s *Store) ListDocuments() ([]string, error) {
	return listFiles(s.booksDir)
}

// ListThumbnails returns the paths of every managed thumbnail, sorted.
func (s *Store) ListThumbnails() ([]string, error) {
	return listFiles(s.thumbnailsDir)
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, liberr.IO("list", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || fileutils.IsTempFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func checkID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return liberr.Invalid("invalid book id %q", id)
	}
	return nil
}
