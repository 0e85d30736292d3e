package pdf

import (
	"strings"
	"unicode"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/office-extract/internal/layout"
	"github.com/joseph-ayodele/office-extract/internal/textnorm"
)

// MergeGlyphs joins the per-glyph runs of a content stream into word
// fragments. Glyphs stay in one word while they share a baseline and the
// horizontal gap to the previous glyph is under a quarter of the font size;
// whitespace glyphs always end a word.
func MergeGlyphs(glyphs []lpdf.Text) []layout.Fragment {
	var (
		out  []layout.Fragment
		cur  layout.Fragment
		text strings.Builder
		open bool
	)
	flush := func() {
		if !open {
			return
		}
		cur.Text = textnorm.Line(text.String())
		if cur.Text != "" {
			out = append(out, cur)
		}
		text.Reset()
		open = false
	}

	for _, g := range glyphs {
		if isBlank(g.S) {
			flush()
			continue
		}
		size := g.FontSize
		if size <= 0 {
			size = 1
		}
		if open && continues(cur, g, size) {
			text.WriteString(g.S)
			if r := g.X + g.W; r > cur.Right() {
				cur.Width = r - cur.X
			}
			if size > cur.Height {
				cur.Height = size
			}
			continue
		}
		flush()
		cur = layout.Fragment{X: g.X, Y: g.Y, Width: g.W, Height: size}
		text.WriteString(g.S)
		open = true
	}
	flush()
	return out
}

func continues(cur layout.Fragment, g lpdf.Text, size float64) bool {
	if d := cur.Y - g.Y; d > size*0.5 || d < -size*0.5 {
		return false
	}
	gap := g.X - cur.Right()
	return gap < size*0.25 && gap > -size
}

func isBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
