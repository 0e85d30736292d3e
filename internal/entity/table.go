package entity

import "fmt"

// Table is a rectangular grid of cell strings lifted from a slide or page.
type Table struct {
	Page  int        `json:"page"`  // originating slide/page, 1-based
	Index int        `json:"index"` // position within that slide/page, 1-based
	Rows  [][]string `json:"rows"`
}

// Dimensions returns rows x cols. Cols is taken from the first row.
func (t Table) Dimensions() (rows, cols int) {
	if len(t.Rows) == 0 {
		return 0, 0
	}
	return len(t.Rows), len(t.Rows[0])
}

// Validate rejects empty and ragged grids.
func (t Table) Validate() error {
	if len(t.Rows) == 0 {
		return fmt.Errorf("table %d: no rows", t.Index)
	}
	width := len(t.Rows[0])
	if width == 0 {
		return fmt.Errorf("table %d: no columns", t.Index)
	}
	for i, row := range t.Rows {
		if len(row) != width {
			return fmt.Errorf("table %d: row %d has %d cells, want %d", t.Index, i+1, len(row), width)
		}
	}
	return nil
}
