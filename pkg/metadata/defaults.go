package metadata

import (
	"github.com/pkg/errors"
	"github.com/shishobooks/folio/pkg/config"
)

// NewDefaultRegistry returns a registry holding the PDF extractor, rendering
// thumbnails with pdfium as configured by cfg. The caller owns the returned
// renderer and must close it after the registry is no longer used.
func NewDefaultRegistry(cfg *config.Config) (*Registry, *PdfiumRenderer, error) {
	renderer, err := NewPdfiumRenderer(PdfiumConfig{
		Workers: cfg.ImportWorkers,
		DPI:     cfg.RenderDPI,
	})
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	registry := NewRegistry(NewPDFExtractor(renderer, ThumbnailOptions{
		Width:   cfg.ThumbnailWidth,
		Quality: cfg.ThumbnailQuality,
	}))

	return registry, renderer, nil
}
