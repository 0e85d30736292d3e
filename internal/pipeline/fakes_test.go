package pipeline

import (
	"context"
	"errors"
	"strings"

	"github.com/joseph-ayodele/office-extract/internal/llm"
	"github.com/joseph-ayodele/office-extract/internal/pdf"
	"github.com/joseph-ayodele/office-extract/internal/pptx"
)

type fakeDeck struct {
	slides map[int]*pptx.Slide
	errs   map[int]error
	panics map[int]bool
	total  int
	calls  []int
}

func (d *fakeDeck) SlideCount() int { return d.total }

func (d *fakeDeck) Slide(n int) (*pptx.Slide, error) {
	d.calls = append(d.calls, n)
	if d.panics[n] {
		panic("corrupt shape")
	}
	if err := d.errs[n]; err != nil {
		return nil, err
	}
	if s, ok := d.slides[n]; ok {
		return s, nil
	}
	return &pptx.Slide{Number: n}, nil
}

type fakeImageOCR struct {
	text  map[string]string // keyed by image bytes
	err   error
	calls int
}

func (o *fakeImageOCR) RecognizeImage(_ context.Context, data []byte) (string, error) {
	o.calls++
	if o.err != nil {
		return "", o.err
	}
	return o.text[string(data)], nil
}

type fakeDoc struct {
	pages map[int]*pdf.Page
	errs  map[int]error
	total int
}

func (d *fakeDoc) Path() string   { return "doc.pdf" }
func (d *fakeDoc) PageCount() int { return d.total }

func (d *fakeDoc) Page(n int) (*pdf.Page, error) {
	if err := d.errs[n]; err != nil {
		return nil, err
	}
	if p, ok := d.pages[n]; ok {
		return p, nil
	}
	return &pdf.Page{Number: n}, nil
}

type fakePageOCR struct {
	text  map[int]string
	err   error
	pages []int
}

func (o *fakePageOCR) RecognizePage(_ context.Context, _ string, page int) (string, error) {
	o.pages = append(o.pages, page)
	if o.err != nil {
		return "", o.err
	}
	return o.text[page], nil
}

// upperFormatter upper-cases text and fails for the indices in fail.
type upperFormatter struct {
	fail  map[int]bool
	calls []llm.FormatRequest
}

func (f *upperFormatter) Format(_ context.Context, req llm.FormatRequest) (string, error) {
	f.calls = append(f.calls, req)
	if f.fail[req.Index] {
		return "", errors.New("quota exceeded")
	}
	return strings.ToUpper(req.Text), nil
}
