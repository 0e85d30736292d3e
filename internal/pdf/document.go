// Package pdf reads positioned text out of PDF pages.
package pdf

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/joseph-ayodele/office-extract/internal/layout"
)

// ErrNoTextLayer is returned by Page when the document could only be opened
// structurally; such pages can still be rasterised and OCRed.
var ErrNoTextLayer = errors.New("no readable text layer")

// Page is the text content of one page.
type Page struct {
	Number        int
	Width, Height float64
	Fragments     []layout.Fragment
	// PlainText is set when the page yields text but no glyph positions.
	PlainText string
}

// Empty reports whether the page carries no text at all.
func (p *Page) Empty() bool {
	if strings.TrimSpace(p.PlainText) != "" {
		return false
	}
	for _, f := range p.Fragments {
		if strings.TrimSpace(f.Text) != "" {
			return false
		}
	}
	return true
}

// Document is an opened PDF. Text comes from the native parser; when that
// cannot read the file, pdfcpu supplies the page count and every page reports
// ErrNoTextLayer.
type Document struct {
	path   string
	file   *os.File
	reader *lpdf.Reader
	pages  int
	logger *slog.Logger
}

// Open opens path with the native parser, falling back to a structural read.
func Open(path string, logger *slog.Logger) (*Document, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Document{path: path, logger: logger}

	f, r, err := openNative(path)
	if err == nil {
		d.file, d.reader = f, r
		d.pages = r.NumPage()
		if d.pages > 0 {
			return d, nil
		}
		_ = f.Close()
		d.file, d.reader = nil, nil
		err = errors.New("page tree is empty")
	}
	logger.Warn("pdf.native.open_failed", "path", path, "error", err)

	n, serr := structuralPageCount(path)
	if serr != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, errors.Join(err, serr))
	}
	logger.Info("pdf.structural.open", "path", path, "pages", n)
	d.pages = n
	return d, nil
}

// openNative wraps pdf.Open; the parser panics on some malformed files.
func openNative(path string) (f *os.File, r *lpdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if f != nil {
				_ = f.Close()
			}
			f, r, err = nil, nil, fmt.Errorf("pdf parser panic: %v", rec)
		}
	}()
	return lpdf.Open(path)
}

func structuralPageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	n, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu: %w", err)
	}
	return n, nil
}

// Path returns the file the document was opened from.
func (d *Document) Path() string { return d.path }

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.pages }

// Native reports whether a text layer can be read.
func (d *Document) Native() bool { return d.reader != nil }

// Close releases the file handle.
func (d *Document) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file, d.reader = nil, nil
	return err
}

// Page extracts page n (1-based). Parser panics are returned as errors.
func (d *Document) Page(n int) (page *Page, err error) {
	if n < 1 || n > d.pages {
		return nil, fmt.Errorf("page %d out of range (1-%d)", n, d.pages)
	}
	if d.reader == nil {
		return &Page{Number: n}, ErrNoTextLayer
	}

	defer func() {
		if rec := recover(); rec != nil {
			page, err = nil, fmt.Errorf("pdf parser panic on page %d: %v", n, rec)
		}
	}()

	p := d.reader.Page(n)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d not found in page tree", n)
	}

	out := &Page{Number: n}
	out.Width, out.Height = mediaBox(p)
	out.Fragments = MergeGlyphs(p.Content().Text)

	if len(out.Fragments) == 0 {
		// Some content streams (arrays of streams, inline forms) only come
		// through the plain-text walker.
		if txt, perr := p.GetPlainText(nil); perr == nil {
			out.PlainText = strings.TrimSpace(txt)
		}
	}
	return out, nil
}

// mediaBox returns the page size, following inheritance through the page tree.
func mediaBox(p lpdf.Page) (w, h float64) {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.IsNull() || box.Len() < 4 {
			continue
		}
		return box.Index(2).Float64() - box.Index(0).Float64(),
			box.Index(3).Float64() - box.Index(1).Float64()
	}
	return 612, 792 // US Letter
}
