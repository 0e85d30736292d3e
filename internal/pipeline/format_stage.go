package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/office-extract/constants"
	"github.com/joseph-ayodele/office-extract/internal/entity"
	"github.com/joseph-ayodele/office-extract/internal/llm"
)

// FormatStage sends each record's text to the formatter independently. A
// failed call keeps the original text and is recorded in the result's errors.
type FormatStage struct {
	Formatter llm.Formatter
	Logger    *slog.Logger
}

func NewFormatStage(f llm.Formatter, logger *slog.Logger) *FormatStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &FormatStage{Formatter: f, Logger: logger}
}

// FormatStats counts formatter outcomes for the run summary.
type FormatStats struct {
	Formatted int
	Failed    int
}

// Run rewrites res in place. Blank records are never sent. Records produced
// by page OCR have their OCR text formatted instead.
func (s *FormatStage) Run(ctx context.Context, res *entity.ExtractionResult) FormatStats {
	var st FormatStats
	for i := range res.Records {
		if ctx.Err() != nil {
			break
		}
		rec := &res.Records[i]

		target := &rec.Text
		if strings.TrimSpace(rec.Text) == "" && rec.Method == constants.MethodOCR && len(rec.OCRText) == 1 {
			target = &rec.OCRText[0]
		}
		if strings.TrimSpace(*target) == "" {
			continue
		}

		out, err := s.Formatter.Format(ctx, llm.FormatRequest{Kind: res.Kind, Index: rec.Index, Text: *target})
		if err != nil {
			st.Failed++
			s.Logger.Warn("format.record.failed", "index", rec.Index, "error", err)
			res.AddError(rec.Index, err)
			continue
		}
		*target = out
		rec.LLMFormatted = true
		st.Formatted++
	}
	s.Logger.Info("format.done", "formatted", st.Formatted, "failed", st.Failed)
	return st
}
