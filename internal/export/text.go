package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/joseph-ayodele/office-extract/constants"
	"github.com/joseph-ayodele/office-extract/internal/entity"
)

const (
	headerRule = "=================================================="
	recordRule = "------------------------------"
)

// WriteTextFile renders res to path, replacing any existing file.
func WriteTextFile(path string, res *entity.ExtractionResult) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := WriteText(bw, res); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteText renders res as plain text. The output depends only on res, so
// identical results give byte-identical files.
func WriteText(w io.Writer, res *entity.ExtractionResult) error {
	tw := &textWriter{w: w}
	tw.header(res)
	for _, rec := range res.Records {
		tw.record(res.Kind, rec)
	}
	if len(res.Errors) > 0 {
		tw.line("ERRORS:")
		for _, e := range res.Errors {
			tw.line("- " + e)
		}
		tw.line("")
	}
	return tw.err
}

// textWriter remembers the first write error so the render code can stay linear.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) line(s string) {
	if t.err != nil {
		return
	}
	_, t.err = io.WriteString(t.w, s+"\n")
}

func (t *textWriter) header(res *entity.ExtractionResult) {
	title := "PowerPoint Text Extraction Results"
	unit := "Slides"
	if res.Kind == constants.KindPages {
		title = "PDF Text Extraction Results"
		unit = "Pages"
	}
	t.line(title)
	t.line(headerRule)
	t.line("File: " + res.Source)
	t.line(fmt.Sprintf("Total %s: %d", unit, res.Total))
	t.line(fmt.Sprintf("%s Processed: %d", unit, res.Processed()))
	t.line(fmt.Sprintf("Tables Found: %d", res.TablesFound))
	t.line(headerRule)
	t.line("")
}

func (t *textWriter) record(kind constants.Kind, rec entity.Record) {
	t.line(fmt.Sprintf("%s %d", kind.Label(), rec.Index))
	t.line(recordRule)
	if rec.Method == constants.MethodOCR {
		t.line("Extraction Method: OCR")
	}

	if !rec.HasContent() {
		t.line("(no content extracted)")
		t.line("")
		return
	}

	if text := strings.TrimSpace(rec.Text); text != "" {
		t.section("TEXT CONTENT:", text)
	}

	if len(rec.Blocks) > 1 {
		var b strings.Builder
		for i, blk := range rec.Blocks {
			if i > 0 {
				b.WriteString("\n\n")
			}
			fmt.Fprintf(&b, "[Column %d]\n%s", i+1, blk)
		}
		t.section("COLUMN BLOCKS:", b.String())
	}

	if ocr := nonBlank(rec.OCRText); len(ocr) > 0 {
		if kind == constants.KindPages {
			t.section("PAGE OCR TEXT:", strings.Join(ocr, "\n\n"))
		} else {
			var b strings.Builder
			for i, txt := range ocr {
				if i > 0 {
					b.WriteString("\n\n")
				}
				fmt.Fprintf(&b, "[Image %d]\n%s", i+1, txt)
			}
			t.section("IMAGE OCR TEXT:", b.String())
		}
	}

	if len(rec.Tables) > 0 {
		t.line("TABLES:")
		for _, tbl := range rec.Tables {
			t.line(fmt.Sprintf("--- Table %d ---", tbl.Index))
			for _, row := range FormatTable(tbl.Rows) {
				t.line(row)
			}
			t.line("")
		}
	}

	if notes := strings.TrimSpace(rec.Notes); notes != "" {
		t.section("NOTES:", notes)
	}
}

func (t *textWriter) section(title, body string) {
	t.line(title)
	t.line(body)
	t.line("")
}

// FormatTable left-justifies each column to its widest cell and joins cells
// with " | ". Widths are display widths, so wide CJK runes line up.
func FormatTable(rows [][]string) []string {
	if len(rows) == 0 {
		return []string{"(Empty table)"}
	}
	var widths []int
	for _, row := range rows {
		for j, c := range row {
			if j >= len(widths) {
				widths = append(widths, 0)
			}
			if w := displayWidth(c); w > widths[j] {
				widths[j] = w
			}
		}
	}

	out := make([]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = runewidth.FillRight(flatten(c), widths[j])
		}
		out = append(out, strings.TrimRight(strings.Join(cells, " | "), " "))
	}
	return out
}

func displayWidth(s string) int { return runewidth.StringWidth(flatten(s)) }

// flatten keeps multi-line cells on one output line.
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
