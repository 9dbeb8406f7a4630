package metadata

import (
	"context"
	"image"
	"os"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pkg/errors"
	"github.com/shishobooks/folio/pkg/liberr"
)

const pdfMimeType = "application/pdf"

var disableConfigDir sync.Once

// Renderer rasterizes the first page of a PDF.
type Renderer interface {
	RenderFirstPage(ctx context.Context, path string) (image.Image, error)
}

// PDFExtractor reads page counts with pdfcpu and builds thumbnails from the
// first page rendered by a Renderer.
type PDFExtractor struct {
	renderer  Renderer
	thumbnail ThumbnailOptions
	conf      *model.Configuration
}

func NewPDFExtractor(renderer Renderer, opts ThumbnailOptions) *PDFExtractor {
	// pdfcpu otherwise creates a config directory under the user's home on
	// first use.
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &PDFExtractor{
		renderer:  renderer,
		thumbnail: opts,
		conf:      conf,
	}
}

func (p *PDFExtractor) Extensions() []string {
	return []string{".pdf"}
}

func (p *PDFExtractor) Extract(ctx context.Context, path, id string) (*Metadata, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, liberr.IO("extract", path, err)
	}
	if !mt.Is(pdfMimeType) {
		return nil, liberr.Extraction(path, errors.Errorf("content is %s, not a PDF", mt.String()))
	}

	pageCount, err := p.pageCount(path)
	if err != nil {
		return nil, err
	}
	if pageCount <= 0 {
		return nil, liberr.Extraction(path, errors.New("document has no pages"))
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	img, err := p.renderer.RenderFirstPage(ctx, path)
	if err != nil {
		return nil, liberr.Extraction(path, errors.Wrap(err, "render first page"))
	}

	thumb, err := EncodeThumbnail(img, p.thumbnail)
	if err != nil {
		return nil, liberr.Extraction(path, errors.Wrap(err, "encode thumbnail"))
	}

	return &Metadata{
		PageCount: pageCount,
		Thumbnail: thumb,
	}, nil
}

func (p *PDFExtractor) pageCount(path string) (n int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, liberr.IO("extract", path, err)
	}
	defer f.Close()

	// pdfcpu panics on some malformed inputs instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			n = 0
			err = liberr.Extraction(path, errors.Errorf("parse: %v", r))
		}
	}()

	n, err = api.PageCount(f, p.conf)
	if err != nil {
		return 0, liberr.Extraction(path, errors.Wrap(err, "read page count"))
	}
	return n, nil
}
