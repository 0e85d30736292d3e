package pptx

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const (
	nsDecl = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" ` +
		`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006"`
	relsNS = `xmlns="http://schemas.openxmlformats.org/package/2006/relationships"`
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake-image-data")

// buildDeck zips files into an in-memory package.
func buildDeck(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func openDeck(t *testing.T, files map[string]string) *Deck {
	t.Helper()
	data := buildDeck(t, files)
	d, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	return d
}

func textShape(name, phType string, paras ...string) string {
	var ph string
	if phType != "" {
		ph = `<p:ph type="` + phType + `"/>`
	}
	var b strings.Builder
	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="` + name + `"/><p:cNvSpPr/><p:nvPr>` + ph + `</p:nvPr></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/>`)
	for _, p := range paras {
		b.WriteString(`<a:p><a:r><a:rPr lang="en-US"/><a:t>` + p + `</a:t></a:r></a:p>`)
	}
	b.WriteString(`</p:txBody></p:sp>`)
	return b.String()
}

func tableShape(rows [][]string) string {
	var b strings.Builder
	b.WriteString(`<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="4" name="Table 3"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`)
	b.WriteString(`<p:xfrm><a:off x="0" y="0"/><a:ext cx="1" cy="1"/></p:xfrm>`)
	b.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl><a:tblGrid/>`)
	for _, row := range rows {
		b.WriteString(`<a:tr h="370840">`)
		for _, c := range row {
			b.WriteString(`<a:tc><a:txBody><a:bodyPr/><a:p><a:r><a:t>` + c + `</a:t></a:r></a:p></a:txBody><a:tcPr/></a:tc>`)
		}
		b.WriteString(`</a:tr>`)
	}
	b.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
	return b.String()
}

func pictureShape(rid string) string {
	return `<p:pic><p:nvPicPr><p:cNvPr id="5" name="Picture 4"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>` +
		`<p:blipFill><a:blip r:embed="` + rid + `"/><a:stretch><a:fillRect/></a:stretch></p:blipFill><p:spPr/></p:pic>`
}

func slidePart(shapes ...string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:sld ` + nsDecl + `><p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		strings.Join(shapes, "") + `</p:spTree></p:cSld></p:sld>`
}

func relsPart(rels ...string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Relationships ` + relsNS + `>` +
		strings.Join(rels, "") + `</Relationships>`
}

func rel(id, typ, target string) string {
	return `<Relationship Id="` + id + `" Type="` + typ + `" Target="` + target + `"/>`
}

// sampleDeck has three slides stored out of file-name order: the
// presentation lists slide2.xml first.
func sampleDeck() map[string]string {
	group := `<p:grpSp><p:nvGrpSpPr><p:cNvPr id="6" name="Group 5"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		textShape("Grouped A", "", "Inside group") +
		`<p:grpSp><p:nvGrpSpPr><p:cNvPr id="7" name="Group 6"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		textShape("Nested", "", "Deeper") + `</p:grpSp></p:grpSp>`

	notes := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:notes ` + nsDecl + `><p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		textShape("Slide Image", "sldImg") +
		textShape("Notes", "body", "Remember the demo", "Then questions") +
		textShape("Number", "sldNum", "1") +
		`</p:spTree></p:cSld></p:notes>`

	return map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"ppt/presentation.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:presentation ` + nsDecl + `><p:sldIdLst>` +
			`<p:sldId id="256" r:id="rId3"/><p:sldId id="257" r:id="rId2"/><p:sldId id="258" r:id="rId4"/>` +
			`</p:sldIdLst></p:presentation>`,
		"ppt/_rels/presentation.xml.rels": relsPart(
			rel("rId1", "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster", "slideMasters/slideMaster1.xml"),
			rel("rId2", relTypeSlide, "slides/slide1.xml"),
			rel("rId3", relTypeSlide, "slides/slide2.xml"),
			rel("rId4", relTypeSlide, "slides/slide3.xml"),
		),
		"ppt/slides/slide2.xml": slidePart(
			textShape("Title 1", "title", "Quarterly Review"),
			textShape("Body", "body", "Revenue up", "", "  Costs flat  "),
			group,
			tableShape([][]string{{"Region", "Q1"}, {"North", "10"}, {"South", "12"}}),
			pictureShape("rId2"),
		),
		"ppt/slides/_rels/slide2.xml.rels": relsPart(
			rel("rId1", relTypeNotesSlide, "../notesSlides/notesSlide1.xml"),
			rel("rId2", relTypeImage, "../media/image1.png"),
		),
		"ppt/notesSlides/notesSlide1.xml": notes,
		"ppt/media/image1.png":            string(pngBytes),
		"ppt/slides/slide1.xml":           slidePart(textShape("Title", "title", "Second")),
		"ppt/slides/slide3.xml": slidePart(
			tableShape([][]string{{"a", "b"}, {"c"}}),
			pictureShape("rId9"),
		),
	}
}

func TestDeckSlideOrderFollowsPresentation(t *testing.T) {
	d := openDeck(t, sampleDeck())
	defer d.Close()

	if got := d.SlideCount(); got != 3 {
		t.Fatalf("SlideCount() = %d, want 3", got)
	}
	want := []string{"ppt/slides/slide2.xml", "ppt/slides/slide1.xml", "ppt/slides/slide3.xml"}
	if !reflect.DeepEqual(d.slides, want) {
		t.Errorf("slide order = %v, want %v", d.slides, want)
	}
}

func TestDeckSlideContent(t *testing.T) {
	d := openDeck(t, sampleDeck())
	defer d.Close()

	s, err := d.Slide(1)
	if err != nil {
		t.Fatalf("Slide(1) error = %v", err)
	}

	var kinds []ShapeKind
	for _, sh := range s.Shapes {
		kinds = append(kinds, sh.Kind)
	}
	wantKinds := []ShapeKind{ShapeText, ShapeText, ShapeText, ShapeText, ShapeTable, ShapePicture}
	if !reflect.DeepEqual(kinds, wantKinds) {
		t.Fatalf("shape kinds = %v, want %v", kinds, wantKinds)
	}

	wantText := "Quarterly Review\n\nRevenue up\nCosts flat\n\nInside group\n\nDeeper"
	if got := s.Text(); got != wantText {
		t.Errorf("Text() = %q, want %q", got, wantText)
	}
	if s.Shapes[0].Placeholder != "title" {
		t.Errorf("placeholder = %q, want title", s.Shapes[0].Placeholder)
	}

	tables := s.Tables()
	if len(tables) != 1 {
		t.Fatalf("Tables() = %d, want 1", len(tables))
	}
	wantRows := [][]string{{"Region", "Q1"}, {"North", "10"}, {"South", "12"}}
	if !reflect.DeepEqual(tables[0].Rows, wantRows) {
		t.Errorf("table rows = %v, want %v", tables[0].Rows, wantRows)
	}

	pics := s.Pictures()
	if len(pics) != 1 || pics[0].Err != nil {
		t.Fatalf("Pictures() = %+v", pics)
	}
	if !bytes.Equal(pics[0].Image, pngBytes) || pics[0].ImageName != "image1.png" {
		t.Errorf("picture = %q (%d bytes)", pics[0].ImageName, len(pics[0].Image))
	}

	if s.Notes != "Remember the demo\nThen questions" {
		t.Errorf("Notes = %q", s.Notes)
	}
}

func TestDeckSlideWithBrokenParts(t *testing.T) {
	d := openDeck(t, sampleDeck())
	defer d.Close()

	s, err := d.Slide(3)
	if err != nil {
		t.Fatalf("Slide(3) error = %v", err)
	}
	tables := s.Tables()
	if len(tables) != 1 || len(tables[0].Rows[1]) != 1 {
		t.Errorf("ragged table should be returned as-is, got %+v", tables)
	}
	pics := s.Pictures()
	if len(pics) != 1 || pics[0].Err == nil {
		t.Errorf("expected picture with unresolved relationship error, got %+v", pics)
	}
	if s.Notes != "" {
		t.Errorf("Notes = %q, want empty", s.Notes)
	}
}

func TestDeckSlideKeepsContentWhenNotesBroken(t *testing.T) {
	files := sampleDeck()
	files["ppt/notesSlides/notesSlide1.xml"] = `<p:notes ` + nsDecl + `><p:cSld><p:spTree>`

	d := openDeck(t, files)
	defer d.Close()

	s, err := d.Slide(1)
	if err != nil {
		t.Fatalf("Slide(1) error = %v", err)
	}
	if s.NotesErr == nil || !strings.Contains(s.NotesErr.Error(), "notesSlide1.xml") {
		t.Errorf("NotesErr = %v", s.NotesErr)
	}
	if s.Notes != "" {
		t.Errorf("Notes = %q, want empty", s.Notes)
	}
	if !strings.HasPrefix(s.Text(), "Quarterly Review") || len(s.Tables()) != 1 || len(s.Pictures()) != 1 {
		t.Errorf("slide content lost: text %q, %d tables, %d pictures", s.Text(), len(s.Tables()), len(s.Pictures()))
	}
}

func TestDeckSlideOutOfRange(t *testing.T) {
	d := openDeck(t, sampleDeck())
	defer d.Close()
	for _, n := range []int{0, 4} {
		if _, err := d.Slide(n); err == nil {
			t.Errorf("Slide(%d) expected error", n)
		}
	}
}

func TestDeckFallsBackToFileOrder(t *testing.T) {
	files := map[string]string{
		"ppt/presentation.xml":   `<?xml version="1.0"?><p:presentation ` + nsDecl + `/>`,
		"ppt/slides/slide10.xml": slidePart(textShape("T", "", "ten")),
		"ppt/slides/slide2.xml":  slidePart(textShape("T", "", "two")),
		"ppt/slides/slide1.xml":  slidePart(textShape("T", "", "one")),
	}
	d := openDeck(t, files)
	var got []string
	for i := 1; i <= d.SlideCount(); i++ {
		s, err := d.Slide(i)
		if err != nil {
			t.Fatalf("Slide(%d) error = %v", i, err)
		}
		got = append(got, s.Text())
	}
	if want := []string{"one", "two", "ten"}; !reflect.DeepEqual(got, want) {
		t.Errorf("texts = %v, want %v", got, want)
	}
}

func TestDeckAlternateContentUsesOneBranch(t *testing.T) {
	alt := `<mc:AlternateContent><mc:Choice Requires="p14">` + textShape("New", "", "choice text") +
		`</mc:Choice><mc:Fallback>` + textShape("Old", "", "fallback text") + `</mc:Fallback></mc:AlternateContent>`
	files := map[string]string{
		"ppt/presentation.xml":  `<?xml version="1.0"?><p:presentation ` + nsDecl + `/>`,
		"ppt/slides/slide1.xml": slidePart(alt),
	}
	d := openDeck(t, files)
	s, err := d.Slide(1)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Text(); got != "choice text" {
		t.Errorf("Text() = %q, want choice text only", got)
	}
}

func TestOpenRejectsNonPresentation(t *testing.T) {
	data := buildDeck(t, map[string]string{"word/document.xml": "<w:document/>"})
	if _, err := OpenReader(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Error("expected error for package without ppt/presentation.xml")
	}

	path := filepath.Join(t.TempDir(), "broken.pptx")
	if err := os.WriteFile(path, []byte("not a zip"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("expected error for non-zip file")
	}
}

func TestOpenFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, buildDeck(t, sampleDeck()), 0o600); err != nil {
		t.Fatal(err)
	}
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if d.SlideCount() != 3 {
		t.Errorf("SlideCount() = %d", d.SlideCount())
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
