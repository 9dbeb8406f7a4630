package metadata

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// ThumbnailOptions controls thumbnail encoding.
type ThumbnailOptions struct {
	// Width is the maximum thumbnail width in pixels. Narrower images keep
	// their size.
	Width int
	// Quality is the JPEG quality, 1-100.
	Quality int
}

func DefaultThumbnailOptions() ThumbnailOptions {
	return ThumbnailOptions{Width: 300, Quality: 80}
}

// EncodeThumbnail scales img down to opts.Width (keeping the aspect ratio),
// flattens it onto white and encodes it as JPEG.
func EncodeThumbnail(img image.Image, opts ThumbnailOptions) ([]byte, error) {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, errors.New("image has no pixels")
	}

	width := bounds.Dx()
	height := bounds.Dy()
	if opts.Width > 0 && width > opts.Width {
		height = height * opts.Width / width
		width = opts.Width
		if height < 1 {
			height = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	quality := opts.Quality
	if quality < 1 || quality > 100 {
		quality = jpeg.DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, errors.WithStack(err)
	}
	return buf.Bytes(), nil
}
