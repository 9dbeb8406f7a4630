// Package metadata extracts page counts and thumbnails from document files.
// Extractors are registered per file extension; the registry fails fast on
// extensions nothing is registered for.
package metadata

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/shishobooks/folio/pkg/liberr"
)

// Metadata is what an extractor learns about a document.
type Metadata struct {
	PageCount int
	Thumbnail []byte
}

// Extractor reads one document format.
type Extractor interface {
	// Extract reads the document at path. id is the identifier the document
	// is being imported under.
	Extract(ctx context.Context, path, id string) (*Metadata, error)

	// Extensions returns the lower-case file extensions (with leading dot)
	// this extractor handles.
	Extensions() []string
}

// Registry dispatches extraction by file extension.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]Extractor
}

// NewRegistry returns a registry with the given extractors registered.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{extractors: map[string]Extractor{}}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds e for each of its extensions, replacing any earlier
// registration for the same extension.
func (r *Registry) Register(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range e.Extensions() {
		r.extractors[normalizeExt(ext)] = e
	}
}

// Supports reports whether an extractor is registered for path's extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.lookup(path)
	return ok
}

// Extensions returns every registered extension, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.extractors))
	for ext := range r.extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract runs the extractor registered for path's extension. An unknown
// extension fails with UnsupportedFormat before the file is touched. Results
// without pages or without a thumbnail are reported as extraction errors.
func (r *Registry) Extract(ctx context.Context, path, id string) (*Metadata, error) {
	e, ok := r.lookup(path)
	if !ok {
		return nil, liberr.UnsupportedFormat(path, filepath.Ext(path))
	}

	md, err := e.Extract(ctx, path, id)
	if err != nil {
		if liberr.KindOf(err) != "" {
			return nil, err
		}
		return nil, liberr.Extraction(path, err)
	}
	if md == nil || md.PageCount <= 0 {
		return nil, liberr.Extraction(path, errors.New("document has no pages"))
	}
	if len(md.Thumbnail) == 0 {
		return nil, liberr.Extraction(path, errors.New("no thumbnail produced"))
	}

	return md, nil
}

func (r *Registry) lookup(path string) (Extractor, bool) {
	ext := normalizeExt(filepath.Ext(path))
	if ext == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.extractors[ext]
	return e, ok
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
