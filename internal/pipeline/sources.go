package pipeline

import (
	"github.com/joseph-ayodele/office-extract/internal/pdf"
	"github.com/joseph-ayodele/office-extract/internal/pptx"
)

// SlideSource is the part of *pptx.Deck the slide stage reads.
type SlideSource interface {
	SlideCount() int
	Slide(n int) (*pptx.Slide, error)
}

// PageSource is the part of *pdf.Document the page stage reads. Page returns
// pdf.ErrNoTextLayer when only OCR can read the page.
type PageSource interface {
	Path() string
	PageCount() int
	Page(n int) (*pdf.Page, error)
}

var (
	_ SlideSource = (*pptx.Deck)(nil)
	_ PageSource  = (*pdf.Document)(nil)
)
