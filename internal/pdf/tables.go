package pdf

import (
	"github.com/joseph-ayodele/office-extract/internal/layout"
)

// TableConfig tunes DetectTables.
type TableConfig struct {
	MinRows        int     // consecutive aligned lines needed, default 2
	MinCols        int     // cells per line needed, default 2
	AlignTolerance float64 // points a cell edge may drift between rows, default 4
	CellGap        float64 // whitespace that splits a line into cells, default 12
}

func (c TableConfig) withDefaults() TableConfig {
	if c.MinRows <= 0 {
		c.MinRows = 2
	}
	if c.MinCols <= 0 {
		c.MinCols = 2
	}
	if c.AlignTolerance <= 0 {
		c.AlignTolerance = 4
	}
	if c.CellGap <= 0 {
		c.CellGap = 12
	}
	return c
}

type cell struct {
	left, right float64
	text        string
}

// DetectTables finds runs of consecutive lines that split into the same
// number of cells with left or right cell edges aligned. Each run becomes a
// row-major grid of cell text.
func DetectTables(lines []layout.Line, cfg TableConfig) [][][]string {
	cfg = cfg.withDefaults()

	var (
		tables [][][]string
		run    [][]cell
	)
	emit := func() {
		if len(run) >= cfg.MinRows {
			grid := make([][]string, len(run))
			for i, row := range run {
				grid[i] = make([]string, len(row))
				for j, c := range row {
					grid[i][j] = c.text
				}
			}
			tables = append(tables, grid)
		}
		run = nil
	}

	for _, ln := range lines {
		cells := splitCells(ln, cfg.CellGap)
		if len(cells) < cfg.MinCols {
			emit()
			continue
		}
		if len(run) > 0 && !aligned(run[0], cells, cfg.AlignTolerance) {
			emit()
		}
		run = append(run, cells)
	}
	emit()
	return tables
}

func splitCells(ln layout.Line, gap float64) []cell {
	var cells []cell
	for _, f := range ln.Fragments {
		if n := len(cells); n > 0 && f.X-cells[n-1].right < gap {
			c := &cells[n-1]
			c.text += " " + f.Text
			if f.Right() > c.right {
				c.right = f.Right()
			}
			continue
		}
		cells = append(cells, cell{left: f.X, right: f.Right(), text: f.Text})
	}
	return cells
}

func aligned(ref, row []cell, tol float64) bool {
	if len(ref) != len(row) {
		return false
	}
	for i := range ref {
		leftOK := absDiff(ref[i].left, row[i].left) <= tol
		rightOK := absDiff(ref[i].right, row[i].right) <= tol
		if !leftOK && !rightOK {
			return false
		}
	}
	return true
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
