package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/office-extract/internal/entity"
)

// WorkbookWriter writes every table of a result into one workbook, one sheet
// per table in document order.
type WorkbookWriter struct {
	logger *slog.Logger
}

func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger}
}

// Write saves the workbook to path. With no tables nothing is written and
// written is false. Tables that fail validation are skipped and returned as
// item errors alongside the ones written.
func (w *WorkbookWriter) Write(path string, res *entity.ExtractionResult) (written bool, skipped []error, err error) {
	start := time.Now()
	tables := res.Tables()
	if len(tables) == 0 {
		w.logger.Info("export.xlsx.skipped", "reason", "no tables")
		return false, nil, nil
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			w.logger.Warn("export.xlsx.close_failed", "error", cerr)
		}
	}()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return false, nil, fmt.Errorf("xlsx style: %w", err)
	}

	names := NewSheetNamer()
	defaultSheet := f.GetSheetName(0)
	sheets := 0
	for _, t := range tables {
		if verr := t.Validate(); verr != nil {
			skipped = append(skipped, fmt.Errorf("%s %d: %w", res.Kind.SheetPrefix(), t.Page, verr))
			w.logger.Warn("export.xlsx.table_skipped", "page", t.Page, "table", t.Index, "error", verr)
			continue
		}

		sheet := names.Unique(fmt.Sprintf("%s%d_Table%d", res.Kind.SheetPrefix(), t.Page, t.Index))
		if sheets == 0 {
			err = f.SetSheetName(defaultSheet, sheet)
		} else {
			_, err = f.NewSheet(sheet)
		}
		if err != nil {
			return false, skipped, fmt.Errorf("xlsx sheet %q: %w", sheet, err)
		}
		sheets++

		if err := writeGrid(f, sheet, t.Rows, bold); err != nil {
			return false, skipped, err
		}
	}

	if sheets == 0 {
		w.logger.Info("export.xlsx.skipped", "reason", "no valid tables", "skipped", len(skipped))
		return false, skipped, nil
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return false, skipped, fmt.Errorf("xlsx save: %w", err)
	}

	w.logger.Info("export.xlsx.ok",
		"path", path,
		"sheets", sheets,
		"skipped", len(skipped),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return true, skipped, nil
}

// writeGrid writes rows from A1; the first row is styled as a header.
func writeGrid(f *excelize.File, sheet string, rows [][]string, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		vals := make([]any, len(row))
		for j, v := range row {
			vals[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+1, err)
		}
	}

	cols := len(rows[0])
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for c := 1; c <= cols; c++ {
		width := 10.0
		for _, row := range rows {
			if w := float64(displayWidth(row[c-1])) + 2; w > width {
				width = w
			}
		}
		if width > 60 {
			width = 60
		}
		name, err := excelize.ColumnNumberToName(c)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}
	return nil
}
