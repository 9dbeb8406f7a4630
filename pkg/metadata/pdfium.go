package metadata

import (
	"context"
	"image"
	"os"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

const defaultInstanceTimeout = 30 * time.Second

type PdfiumConfig struct {
	// Workers is the number of pdfium instances kept in the pool.
	Workers int
	// DPI is the resolution the first page is rendered at before scaling.
	DPI int
}

// PdfiumRenderer renders pages with pdfium compiled to WebAssembly, so no cgo
// or system library is needed.
type PdfiumRenderer struct {
	pool pdfium.Pool
	dpi  int
}

func NewPdfiumRenderer(cfg PdfiumConfig) (*PdfiumRenderer, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 72
	}

	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  cfg.Workers,
		MaxTotal: cfg.Workers,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init pdfium")
	}

	return &PdfiumRenderer{pool: pool, dpi: cfg.DPI}, nil
}

func (r *PdfiumRenderer) RenderFirstPage(ctx context.Context, path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	timeout := defaultInstanceTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, errors.WithStack(context.DeadlineExceeded)
		}
	}

	instance, err := r.pool.GetInstance(timeout)
	if err != nil {
		return nil, errors.Wrap(err, "acquire pdfium instance")
	}
	defer instance.Close()

	doc, err := instance.OpenDocument(&requests.OpenDocument{File: &data})
	if err != nil {
		return nil, errors.Wrap(err, "open document")
	}
	defer func() {
		_, _ = instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: doc.Document})
	}()

	render, err := instance.RenderPageInDPI(&requests.RenderPageInDPI{
		DPI: r.dpi,
		Page: requests.Page{
			ByIndex: &requests.PageByIndex{
				Document: doc.Document,
				Index:    0,
			},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "render page")
	}
	defer render.Cleanup()

	// The rendered buffer is released by Cleanup.
	src := render.Result.Image
	img := image.NewRGBA(src.Bounds())
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)

	return img, nil
}

func (r *PdfiumRenderer) Close() error {
	return errors.WithStack(r.pool.Close())
}
