// Package pptx reads slide content out of Office Open XML presentations.
package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"path"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

const (
	presentationPart = "ppt/presentation.xml"
	slidesDir        = "ppt/slides/"
)

// Deck is an opened presentation. It is not safe for concurrent use.
type Deck struct {
	closer io.Closer
	files  map[string]*zip.File
	slides []string // slide part names in presentation order
}

// Open opens the presentation at path.
func Open(filename string) (*Deck, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	d, err := newDeck(&zr.Reader)
	if err != nil {
		_ = zr.Close()
		return nil, err
	}
	d.closer = zr
	return d, nil
}

// OpenReader reads a presentation from an in-memory or seekable source.
func OpenReader(r io.ReaderAt, size int64) (*Deck, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return newDeck(zr)
}

func newDeck(zr *zip.Reader) (*Deck, error) {
	d := &Deck{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		d.files[f.Name] = f
	}
	if _, ok := d.files[presentationPart]; !ok {
		return nil, fmt.Errorf("not a presentation: missing %s", presentationPart)
	}

	slides, err := d.slideOrder()
	if err != nil {
		return nil, err
	}
	d.slides = slides
	return d, nil
}

// Close releases the underlying file, if any.
func (d *Deck) Close() error {
	if d.closer != nil {
		err := d.closer.Close()
		d.closer = nil
		return err
	}
	return nil
}

// SlideCount returns the number of slides in presentation order.
func (d *Deck) SlideCount() int { return len(d.slides) }

// Slide parses slide n (1-based).
func (d *Deck) Slide(n int) (*Slide, error) {
	if n < 1 || n > len(d.slides) {
		return nil, fmt.Errorf("slide %d out of range (1-%d)", n, len(d.slides))
	}
	part := d.slides[n-1]

	var sx slideXML
	if err := d.decode(part, &sx); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", part, err)
	}
	rels := d.rels(part)

	s := &Slide{Number: n}
	walkTree(sx.CSld.SpTree.Children, func(node *nodeXML) {
		if sh, ok := d.shape(node, part, rels); ok {
			s.Shapes = append(s.Shapes, sh)
		}
	})

	if notesPart := relTarget(part, rels, relTypeNotesSlide); notesPart != "" {
		notes, err := d.notes(notesPart)
		if err != nil {
			s.NotesErr = fmt.Errorf("parsing notes %s: %w", notesPart, err)
		} else {
			s.Notes = notes
		}
	}
	return s, nil
}

// slideOrder follows sldIdLst through the presentation relationships; decks
// without a usable list fall back to slideN.xml numeric order.
func (d *Deck) slideOrder() ([]string, error) {
	var pres presentationXML
	if err := d.decode(presentationPart, &pres); err != nil {
		return nil, fmt.Errorf("parsing presentation: %w", err)
	}

	var ordered []string
	if pres.SlideIDList != nil {
		rels := d.rels(presentationPart)
		byID := make(map[string]relationshipXML, len(rels))
		for _, r := range rels {
			byID[r.ID] = r
		}
		for _, id := range pres.SlideIDList.SlideID {
			r, ok := byID[id.RID]
			if !ok || r.Type != relTypeSlide {
				continue
			}
			target := resolve(presentationPart, r.Target)
			if _, ok := d.files[target]; ok {
				ordered = append(ordered, target)
			}
		}
	}
	if len(ordered) > 0 {
		return ordered, nil
	}

	for name := range d.files {
		if strings.HasPrefix(name, slidesDir+"slide") && strings.HasSuffix(name, ".xml") &&
			!strings.Contains(name, "_rels") {
			ordered = append(ordered, name)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		return slideNumber(ordered[i]) < slideNumber(ordered[j])
	})
	return ordered, nil
}

// slideNumber extracts N from "ppt/slides/slideN.xml".
func slideNumber(name string) int {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, slidesDir+"slide"), ".xml"))
	if err != nil {
		return math.MaxInt
	}
	return n
}

func (d *Deck) read(name string) ([]byte, error) {
	f, ok := d.files[name]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (d *Deck) decode(name string, v any) error {
	data, err := d.read(name)
	if err != nil {
		return err
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	return dec.Decode(v)
}

// rels returns the relationships of part; a missing or broken rels part means none.
func (d *Deck) rels(part string) []relationshipXML {
	name := path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
	var rx relationshipsXML
	if err := d.decode(name, &rx); err != nil {
		return nil
	}
	return rx.Relationships
}

// resolve turns a relationship target into a part name.
func resolve(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Clean(path.Join(path.Dir(source), target))
}

func relTarget(part string, rels []relationshipXML, relType string) string {
	for _, r := range rels {
		if r.Type == relType && r.TargetMode != "External" {
			return resolve(part, r.Target)
		}
	}
	return ""
}
