package testgen

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// GeneratePDF creates a valid PDF file at dir/filename with the given options.
// Every page carries a filled rectangle so renderers produce a non-blank
// image. Object offsets in the cross-reference table are computed from the
// written bytes, so strict parsers accept the file.
func GeneratePDF(t *testing.T, dir, filename string, opts PDFOptions) string {
	t.Helper()
	return WriteFile(t, dir, filename, PDFBytes(opts))
}

// PDFBytes returns the raw bytes GeneratePDF writes.
func PDFBytes(opts PDFOptions) []byte {
	pageCount := opts.PageCount
	if pageCount <= 0 {
		pageCount = 3
	}
	width := opts.Width
	if width <= 0 {
		width = 612
	}
	height := opts.Height
	if height <= 0 {
		height = 792
	}

	// Object layout: 1 catalog, 2 page tree, then a page and its content
	// stream for each page, then the optional info dictionary.
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
	}

	kids := make([]string, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+2*i))
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pageCount))

	for i := 0; i < pageCount; i++ {
		contentID := 4 + 2*i
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << >> /Contents %d 0 R >>",
			width, height, contentID,
		))
		stream := fmt.Sprintf("%.2f 0.40 0.80 rg 40 40 %d %d re f", float64(i%5)/5, width-80, height-80)
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	infoID := 0
	if opts.Title != "" {
		objects = append(objects, fmt.Sprintf("<< /Title (%s) >>", escapePDFString(opts.Title)))
		infoID = len(objects)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	trailer := fmt.Sprintf("<< /Size %d /Root 1 0 R", len(objects)+1)
	if infoID > 0 {
		trailer += fmt.Sprintf(" /Info %d 0 R", infoID)
	}
	trailer += " >>"
	fmt.Fprintf(&buf, "trailer\n%s\nstartxref\n%d\n%%%%EOF\n", trailer, xrefOffset)

	return buf.Bytes()
}

// CorruptPDF writes a file that starts like a PDF but has no usable body.
func CorruptPDF(t *testing.T, dir, filename string) string {
	t.Helper()
	return WriteFile(t, dir, filename, []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog\n"))
}

func escapePDFString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
