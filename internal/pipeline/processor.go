package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/joseph-ayodele/office-extract/internal/common"
	"github.com/joseph-ayodele/office-extract/internal/entity"
	"github.com/joseph-ayodele/office-extract/internal/export"
)

// Outputs names the files a run writes.
type Outputs struct {
	Text  string
	Excel string
}

// Summary is what a run reports back to the user.
type Summary struct {
	Kind         string
	Processed    int
	Total        int
	Tables       int
	TextPath     string
	ExcelPath    string // "" when no workbook was written
	LLMFormatted int
	LLMFailed    int
	Errors       []string
}

// Print writes the human-readable run summary.
func (s Summary) Print(w io.Writer) {
	unit := "slides"
	if s.Kind == "pages" {
		unit = "pages"
	}
	fmt.Fprintf(w, "Processed %d of %d %s\n", s.Processed, s.Total, unit)
	fmt.Fprintf(w, "Tables found: %d\n", s.Tables)
	fmt.Fprintf(w, "Text written to: %s\n", s.TextPath)
	if s.ExcelPath != "" {
		fmt.Fprintf(w, "Tables written to: %s\n", s.ExcelPath)
	} else {
		fmt.Fprintln(w, "No tables to export; spreadsheet not written")
	}
	if s.LLMFormatted > 0 || s.LLMFailed > 0 {
		fmt.Fprintf(w, "LLM formatted: %d, failed: %d\n", s.LLMFormatted, s.LLMFailed)
	}
	if len(s.Errors) > 0 {
		fmt.Fprintf(w, "Errors: %d\n", len(s.Errors))
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}
}

// Extractor is one of the two document stages bound to its open document.
type Extractor func(ctx context.Context) (*entity.ExtractionResult, error)

// Processor runs extraction, the optional format stage and the writers.
type Processor struct {
	Logger *slog.Logger
	Format *FormatStage // nil when the LLM is disabled
	Tables bool
}

func NewProcessor(logger *slog.Logger, format *FormatStage, tables bool) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Format: format, Tables: tables}
}

// Run extracts, formats and writes. Output is written even when nothing was
// extracted so the errors are visible; that case returns common.ErrNoContent
// wrapped in an AppError. Write failures are returned as-is.
func (p *Processor) Run(ctx context.Context, run Extractor, out Outputs) (Summary, error) {
	res, err := run(ctx)
	if err != nil {
		p.Logger.Error("processor.extract.failed", "error", err)
		if res == nil {
			return Summary{}, err
		}
		// Cancelled part way: write what there is.
	}

	var fs FormatStats
	if p.Format != nil && ctx.Err() == nil {
		fs = p.Format.Run(ctx, res)
	}

	sum := Summary{
		Kind:         string(res.Kind),
		Processed:    res.Processed(),
		Total:        res.Total,
		Tables:       res.TablesFound,
		TextPath:     out.Text,
		LLMFormatted: fs.Formatted,
		LLMFailed:    fs.Failed,
	}

	if p.Tables && out.Excel != "" {
		written, skipped, werr := export.NewWorkbookWriter(p.Logger).Write(out.Excel, res)
		if werr != nil {
			return sum, fmt.Errorf("write tables: %w", werr)
		}
		for _, e := range skipped {
			res.Errors = append(res.Errors, e.Error())
		}
		if written {
			sum.ExcelPath = out.Excel
		}
	}

	if werr := export.WriteTextFile(out.Text, res); werr != nil {
		return sum, fmt.Errorf("write text: %w", werr)
	}
	p.Logger.Info("processor.text.ok", "path", out.Text, "records", res.Processed())
	sum.Errors = res.Errors

	if err != nil {
		return sum, err
	}
	if !res.HasContent() {
		p.Logger.Warn("processor.no_content", "total", res.Total)
		return sum, common.NewAppError(common.CodeNoContent, "nothing extracted from "+res.Source, common.ErrNoContent)
	}
	p.Logger.Info("processor.done",
		"processed", sum.Processed,
		"tables", sum.Tables,
		"errors", len(sum.Errors),
		"excel", sum.ExcelPath != "",
	)
	return sum, nil
}
