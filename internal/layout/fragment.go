// Package layout orders positioned text fragments into reading order,
// detecting multi-column pages.
//
// Coordinates follow PDF user space: X grows to the right, Y grows upwards,
// so "top of the page" means the largest Y.
package layout

import (
	"sort"
	"strings"
)

// Fragment is a positioned run of text, usually a word.
type Fragment struct {
	X, Y          float64 // left edge, baseline
	Width, Height float64
	Text          string
}

// Right returns the right edge.
func (f Fragment) Right() float64 { return f.X + f.Width }

// CenterX returns the horizontal center.
func (f Fragment) CenterX() float64 { return f.X + f.Width/2 }

// Line is a set of fragments sharing a baseline, sorted left to right.
type Line struct {
	Y         float64
	Fragments []Fragment
}

// Text joins the line's fragments with single spaces.
func (l Line) Text() string {
	parts := make([]string, 0, len(l.Fragments))
	for _, f := range l.Fragments {
		if f.Text != "" {
			parts = append(parts, f.Text)
		}
	}
	return strings.Join(parts, " ")
}

// GroupLines sorts fragments top-to-bottom then left-to-right and groups
// those whose baselines are within half a fragment height into lines.
func GroupLines(frags []Fragment) []Line {
	if len(frags) == 0 {
		return nil
	}
	sorted := make([]Fragment, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []Line
	for _, f := range sorted {
		if n := len(lines); n > 0 {
			last := &lines[n-1]
			if absFloat64(last.Y-f.Y) <= yTolerance(f) {
				last.Fragments = append(last.Fragments, f)
				continue
			}
		}
		lines = append(lines, Line{Y: f.Y, Fragments: []Fragment{f}})
	}
	for i := range lines {
		fs := lines[i].Fragments
		sort.SliceStable(fs, func(a, b int) bool { return fs[a].X < fs[b].X })
	}
	return lines
}

func yTolerance(f Fragment) float64 {
	if t := f.Height * 0.5; t > 1 {
		return t
	}
	return 1
}

func absFloat64(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
