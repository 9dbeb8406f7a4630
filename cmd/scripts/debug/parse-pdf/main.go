package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/folio/pkg/metadata"
)

func main() {
	log := logger.New()

	var opts struct {
		ThumbnailOutput string `short:"o" long:"thumbnail-output" description:"A path to output the thumbnail image"`
		Width           int    `short:"w" long:"width" default:"300" description:"Thumbnail width in pixels"`
		DPI             int    `long:"dpi" default:"72" description:"Resolution the first page is rendered at"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	if len(args) != 1 {
		fmt.Println("go run ./cmd/scripts/debug/parse-pdf <path/to/file.pdf>")
		os.Exit(1)
	}

	renderer, err := metadata.NewPdfiumRenderer(metadata.PdfiumConfig{Workers: 1, DPI: opts.DPI})
	if err != nil {
		log.Err(err).Fatal("renderer init error")
	}
	defer renderer.Close()

	thumbOpts := metadata.DefaultThumbnailOptions()
	thumbOpts.Width = opts.Width
	extractor := metadata.NewPDFExtractor(renderer, thumbOpts)

	meta, err := extractor.Extract(context.Background(), args[0], "debug")
	if err != nil {
		log.Err(err).Fatal("pdf parse error")
	}
	fmt.Printf("Page Count: %d\nThumbnail Size: %d bytes\n", meta.PageCount, len(meta.Thumbnail))
	if opts.ThumbnailOutput != "" {
		if err := os.WriteFile(opts.ThumbnailOutput, meta.Thumbnail, 0644); err != nil {
			log.Err(err).Fatal("file write error")
		}
	}
}
