package layout

import (
	"sort"
	"strings"
)

// Config holds the column detection thresholds, in PDF points.
type Config struct {
	// MinGapWidth is the narrowest whitespace gutter that separates columns.
	MinGapWidth float64
	// MinColumnWidth is the narrowest band accepted as a column.
	MinColumnWidth float64
	// MaxColumns caps the number of columns; more bands than this is ambiguous.
	MaxColumns int
	// MinFragments is the fewest fragments a column must hold.
	MinFragments int
}

// DefaultConfig returns the thresholds used when none are configured.
func DefaultConfig() Config {
	return Config{
		MinGapWidth:    18,
		MinColumnWidth: 60,
		MaxColumns:     4,
		MinFragments:   2,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MinGapWidth <= 0 {
		c.MinGapWidth = d.MinGapWidth
	}
	if c.MinColumnWidth <= 0 {
		c.MinColumnWidth = d.MinColumnWidth
	}
	if c.MaxColumns <= 0 {
		c.MaxColumns = d.MaxColumns
	}
	if c.MinFragments <= 0 {
		c.MinFragments = d.MinFragments
	}
	return c
}

// Column is one detected column, lines top to bottom.
type Column struct {
	Left, Right float64
	Lines       []Line
}

// Text joins the column's lines with newlines.
func (c Column) Text() string {
	out := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		if t := l.Text(); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, "\n")
}

// Layout is the reading order of one page.
type Layout struct {
	Columns []Column
	// Ambiguous is set when several bands were found but failed validation
	// and the page fell back to native order.
	Ambiguous bool
}

// MultiColumn reports whether more than one column was accepted.
func (l Layout) MultiColumn() bool { return len(l.Columns) > 1 }

// Lines returns every line in reading order: columns left to right, each top to bottom.
func (l Layout) Lines() []string {
	var out []string
	for _, c := range l.Columns {
		for _, ln := range c.Lines {
			if t := ln.Text(); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// Text is Lines joined by newlines.
func (l Layout) Text() string { return strings.Join(l.Lines(), "\n") }

// Blocks returns one text block per column, or nil for single-column pages.
func (l Layout) Blocks() []string {
	if !l.MultiColumn() {
		return nil
	}
	out := make([]string, 0, len(l.Columns))
	for _, c := range l.Columns {
		out = append(out, c.Text())
	}
	return out
}

// NativeOrder lays fragments out as a single column: top to bottom, then left to right.
func NativeOrder(frags []Fragment) Layout {
	if len(frags) == 0 {
		return Layout{}
	}
	left, right := extent(frags)
	return Layout{Columns: []Column{{Left: left, Right: right, Lines: GroupLines(frags)}}}
}

// Reorder detects columns from vertical whitespace gutters and returns the
// page in column reading order. Pages whose bands fail the thresholds come
// back in native order with Ambiguous set.
func Reorder(frags []Fragment, cfg Config) Layout {
	cfg = cfg.withDefaults()
	if len(frags) == 0 {
		return Layout{}
	}

	bands := findBands(frags, cfg.MinGapWidth)
	if len(bands) < 2 {
		return NativeOrder(frags)
	}
	if len(bands) > cfg.MaxColumns {
		return ambiguous(frags)
	}

	members := make([][]Fragment, len(bands))
	for _, f := range frags {
		i := bandFor(bands, f.CenterX())
		members[i] = append(members[i], f)
	}

	cols := make([]Column, 0, len(bands))
	for i, b := range bands {
		if b.right-b.left < cfg.MinColumnWidth || len(members[i]) < cfg.MinFragments {
			return ambiguous(frags)
		}
		cols = append(cols, Column{Left: b.left, Right: b.right, Lines: GroupLines(members[i])})
	}
	return Layout{Columns: cols}
}

func ambiguous(frags []Fragment) Layout {
	l := NativeOrder(frags)
	l.Ambiguous = true
	return l
}

// band is a horizontal range covered by text.
type band struct {
	left, right float64
}

// findBands merges the fragments' horizontal extents, joining ranges whose
// gap is narrower than minGap.
func findBands(frags []Fragment, minGap float64) []band {
	bands := make([]band, 0, len(frags))
	for _, f := range frags {
		bands = append(bands, band{left: f.X, right: f.Right()})
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i].left < bands[j].left })

	merged := []band{bands[0]}
	for _, b := range bands[1:] {
		last := &merged[len(merged)-1]
		if b.left-last.right < minGap {
			if b.right > last.right {
				last.right = b.right
			}
			continue
		}
		merged = append(merged, b)
	}
	return merged
}

// bandFor returns the band containing x, or the nearest one.
func bandFor(bands []band, x float64) int {
	best, bestDist := 0, -1.0
	for i, b := range bands {
		if x >= b.left && x <= b.right {
			return i
		}
		d := absFloat64(x - (b.left+b.right)/2)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func extent(frags []Fragment) (left, right float64) {
	left, right = frags[0].X, frags[0].Right()
	for _, f := range frags[1:] {
		if f.X < left {
			left = f.X
		}
		if f.Right() > right {
			right = f.Right()
		}
	}
	return left, right
}
